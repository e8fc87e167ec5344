package cometbls

import (
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// ModuleName is the client type of the cometbls light client.
const ModuleName = exported.CometBLS

// RegisterInterfaces registers the cometbls concrete client-related
// implementations and interfaces.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	registry.RegisterImplementation(
		(*exported.ClientState)(nil),
		"/ibc.lightclients.cometbls.v1.ClientState",
		&ClientState{},
	)
	registry.RegisterImplementation(
		(*exported.ConsensusState)(nil),
		"/ibc.lightclients.cometbls.v1.ConsensusState",
		&ConsensusState{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.cometbls.v1.Header",
		&Header{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.cometbls.v1.Misbehaviour",
		&Misbehaviour{},
	)
}
