/*
Package rollup implements a light client of an EVM rollup settling on an L1 tracked by another
light client.

The client does not verify signatures. A header proves, against the state root of a consensus
state of the L1 client, that the rollup contract on L1 stores the hash of the L2 block header.
The storage root of the IBC contract is then proven against the state root of that L2 block
header. Trust, including expiry, is inherited from the L1 client.
*/
package rollup
