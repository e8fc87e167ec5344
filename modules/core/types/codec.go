package types

import (
	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
	cometbls "github.com/cosmos/ibc-lightclients/modules/light-clients/08-cometbls"
	attestations "github.com/cosmos/ibc-lightclients/modules/light-clients/10-attestations"
	ethereum "github.com/cosmos/ibc-lightclients/modules/light-clients/12-ethereum"
	rollup "github.com/cosmos/ibc-lightclients/modules/light-clients/15-rollup"
)

// RegisterInterfaces registers the client interfaces and the types of every light client
// shipped with the module.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	clienttypes.RegisterInterfaces(registry)

	ibctm.RegisterInterfaces(registry)
	cometbls.RegisterInterfaces(registry)
	attestations.RegisterInterfaces(registry)
	ethereum.RegisterInterfaces(registry)
	rollup.RegisterInterfaces(registry)
}

// NewCodec returns a codec with every light client type registered.
func NewCodec() *codec.RLPCodec {
	registry := codec.NewInterfaceRegistry()
	RegisterInterfaces(registry)

	return codec.NewRLPCodec(registry)
}
