package ibctesting

import (
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibctypes "github.com/cosmos/ibc-lightclients/modules/core/types"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
)

// NewInterfaceRegistry returns a registry with the client interfaces and every light client
// implementation registered, the mock light client included.
func NewInterfaceRegistry() codec.InterfaceRegistry {
	registry := codec.NewInterfaceRegistry()
	ibctypes.RegisterInterfaces(registry)
	mock.RegisterInterfaces(registry)

	return registry
}

// NewCodec returns the codec used by tests.
func NewCodec() *codec.RLPCodec {
	return codec.NewRLPCodec(NewInterfaceRegistry())
}
