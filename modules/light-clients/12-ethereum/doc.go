/*
Package ethereum implements a light client of the Ethereum beacon chain following the
sync committee protocol.

A header carries a light client update: an attested beacon header signed by the sync
committee of its period, the finalized header it proves through the finality branch, and
optionally the sync committee of the next period. Execution payload headers are proven
against the beacon block bodies, and the storage root of the IBC contract is proven
against the finalized execution state root. Commitments are then verified with storage
proofs under that root.
*/
package ethereum
