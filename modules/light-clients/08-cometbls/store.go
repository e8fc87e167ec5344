package cometbls

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

func getClientState(clientStore storetypes.KVStore, cdc codec.BinaryCodec) (*ClientState, bool) {
	bz := clientStore.Get(host.ClientStateKey())
	if len(bz) == 0 {
		return nil, false
	}

	clientState, ok := clienttypes.MustUnmarshalClientState(cdc, bz).(*ClientState)
	return clientState, ok
}

// GetConsensusState retrieves the consensus state from the client prefixed store.
// If the ConsensusState does not exist in state for the provided height a nil value and false boolean flag is returned
func GetConsensusState(clientStore storetypes.KVStore, cdc codec.BinaryCodec, height exported.Height) (*ConsensusState, bool) {
	bz := clientStore.Get(host.ConsensusStateKey(height))
	if len(bz) == 0 {
		return nil, false
	}

	consensusState, ok := clienttypes.MustUnmarshalConsensusState(cdc, bz).(*ConsensusState)
	return consensusState, ok
}
