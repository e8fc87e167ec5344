package rollup

import (
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// ModuleName is the client type of the rollup light client.
const ModuleName = exported.Rollup

// RegisterInterfaces registers the rollup concrete client-related
// implementations and interfaces.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	registry.RegisterImplementation(
		(*exported.ClientState)(nil),
		"/ibc.lightclients.rollup.v1.ClientState",
		&ClientState{},
	)
	registry.RegisterImplementation(
		(*exported.ConsensusState)(nil),
		"/ibc.lightclients.rollup.v1.ConsensusState",
		&ConsensusState{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.rollup.v1.Header",
		&Header{},
	)
}
