/*
Package attestations implements a light client which trusts a fixed set of off-chain
attestors instead of verifying the consensus of the counterparty.

Attestors sign claims about the state of the counterparty at a height: the value stored
under a key, or its absence. Once a quorum of attestors signed a claim it is stored by
SubmitAttestation and never mutated. Headers and membership proofs are then checked
against the stored attestations without recomputing the quorum.
*/
package attestations
