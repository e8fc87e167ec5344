/*
Package tendermint implements a concrete ClientState, ConsensusState,
Header, Misbehaviour and types for the Tendermint consensus light client.
This implementation is based off the ICS 07 specification
(https://github.com/cosmos/ibc/tree/main/spec/client/ics-007-tendermint-client)

Commits are tallied with the weighted vote strategy of the quorum package:
the untrusted validator set must sign with at least two thirds of its voting
power and, when headers are not adjacent, the trusted validator set must sign
with at least the client's trust level.
*/
package tendermint
