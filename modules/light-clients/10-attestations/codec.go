package attestations

import (
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// ModuleName is the client type of the attestations light client.
const ModuleName = exported.Attestations

// RegisterInterfaces registers the attestations concrete client-related
// implementations and interfaces.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	registry.RegisterImplementation(
		(*exported.ClientState)(nil),
		"/ibc.lightclients.attestations.v1.ClientState",
		&ClientState{},
	)
	registry.RegisterImplementation(
		(*exported.ConsensusState)(nil),
		"/ibc.lightclients.attestations.v1.ConsensusState",
		&ConsensusState{},
	)
	registry.RegisterImplementation(
		(*exported.ClientMessage)(nil),
		"/ibc.lightclients.attestations.v1.Header",
		&Header{},
	)
}
