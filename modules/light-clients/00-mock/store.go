package mock

import (
	storetypes "cosmossdk.io/store/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

func setClientState(clientStore storetypes.KVStore, cdc codec.BinaryCodec, clientState *ClientState) {
	clientStore.Set(host.ClientStateKey(), clienttypes.MustMarshalClientState(cdc, clientState))
}

func setConsensusState(clientStore storetypes.KVStore, cdc codec.BinaryCodec, consensusState *ConsensusState, height exported.Height) {
	clientStore.Set(host.ConsensusStateKey(height), clienttypes.MustMarshalConsensusState(cdc, consensusState))
}
