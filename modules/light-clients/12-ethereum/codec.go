package ethereum

import (
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// ModuleName is the client type of the ethereum light client.
const ModuleName = exported.Ethereum

// RegisterInterfaces registers the ethereum concrete client-related
// implementations and interfaces.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	registry.RegisterImplementation(
		(*exported.ClientState)(nil),
		"/ibc.lightclients.ethereum.v1.ClientState",
		&ClientState{},
	)
	registry.RegisterImplementation(
		(*exported.ConsensusState)(nil),
		"/ibc.lightclients.ethereum.v1.ConsensusState",
		&ConsensusState{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.ethereum.v1.Header",
		&Header{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.ethereum.v1.MisbehaviourFinalizedHeader",
		&MisbehaviourFinalizedHeader{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.ethereum.v1.MisbehaviourNextSyncCommittee",
		&MisbehaviourNextSyncCommittee{},
	)
}
