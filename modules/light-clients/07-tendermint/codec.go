package tendermint

import (
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// ModuleName is the client type of the tendermint light client.
const ModuleName = exported.Tendermint

// RegisterInterfaces registers the tendermint concrete client-related
// implementations and interfaces.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	registry.RegisterImplementation(
		(*exported.ClientState)(nil),
		"/ibc.lightclients.tendermint.v1.ClientState",
		&ClientState{},
	)
	registry.RegisterImplementation(
		(*exported.ConsensusState)(nil),
		"/ibc.lightclients.tendermint.v1.ConsensusState",
		&ConsensusState{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.tendermint.v1.Header",
		&Header{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.tendermint.v1.Misbehaviour",
		&Misbehaviour{},
	)
}
