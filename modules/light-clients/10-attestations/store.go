package attestations

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// KeyAttestationPrefix is the client store prefix under which attestations are kept.
const KeyAttestationPrefix = "attestations"

// AttestationKey returns the client store key of the attestation of key at height:
// "attestations/{height}/{key}".
func AttestationKey(height exported.Height, key []byte) []byte {
	return append([]byte(fmt.Sprintf("%s/%s/", KeyAttestationPrefix, height)), key...)
}

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

// GetAttestedValue returns the attested value stored for key at height.
func GetAttestedValue(clientStore storetypes.KVStore, cdc codec.BinaryCodec, height exported.Height, key []byte) (AttestedValue, bool) {
	bz := clientStore.Get(AttestationKey(height, key))
	if len(bz) == 0 {
		return AttestedValue{}, false
	}

	var value AttestedValue
	cdc.MustUnmarshal(bz, &value)
	return value, true
}

// setAttestation stores the attestation. Attestations are written once and never replaced.
func setAttestation(clientStore storetypes.KVStore, cdc codec.BinaryCodec, attestation Attestation) error {
	storeKey := AttestationKey(attestation.Height, attestation.Key)
	if clientStore.Has(storeKey) {
		return errorsmod.Wrapf(ErrAttestationExists, "key %x at height %s", attestation.Key, attestation.Height)
	}

	clientStore.Set(storeKey, cdc.MustMarshal(attestation.Value))
	return nil
}
