// Package mock implements a light client without any verification. It is used to exercise
// the client keeper and the verification context in tests.
package mock

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// ModuleName is the client type of the mock light client.
const ModuleName = "00-mock"

var (
	// MockProof is the only proof accepted by the mock light client.
	MockProof = []byte("mock proof")

	ErrInvalidClientMsg = errorsmod.Register(ModuleName, 2, "invalid client message")
	ErrInvalidProof     = errorsmod.Register(ModuleName, 3, "invalid mock proof")
	ErrFrozen           = errorsmod.Register(ModuleName, 4, "mock client is frozen")
)

// RegisterInterfaces registers the mock client types.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	registry.RegisterImplementation((*exported.ClientState)(nil), "/ibc.mock.ClientState", &ClientState{})
	registry.RegisterImplementation((*exported.ConsensusState)(nil), "/ibc.mock.ConsensusState", &ConsensusState{})
	registry.RegisterImplementation((*exported.ClientMessage)(nil), "/ibc.mock.Header", &Header{})
	registry.RegisterImplementation((*exported.ClientMessage)(nil), "/ibc.mock.Misbehaviour", &Misbehaviour{})
}
