package types

import (
	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// VerificationContext gives a light client read access to its own stored state and to
// the consensus states of the clients it references. It never writes.
type VerificationContext struct {
	cdc           codec.BinaryCodec
	storeProvider exported.ClientStoreProvider
	clientID      string
}

// NewVerificationContext returns the VerificationContext of clientID.
func NewVerificationContext(cdc codec.BinaryCodec, storeProvider exported.ClientStoreProvider, clientID string) VerificationContext {
	return VerificationContext{
		cdc:           cdc,
		storeProvider: storeProvider,
		clientID:      clientID,
	}
}

// ClientID returns the identifier of the client being verified.
func (vc VerificationContext) ClientID() string {
	return vc.clientID
}

// ClientStore returns the prefixed store of the client being verified.
func (vc VerificationContext) ClientStore() storetypes.KVStore {
	return vc.storeProvider.ClientStore(vc.clientID)
}

// ReadSelfClientState returns the stored client state of the client being verified.
func (vc VerificationContext) ReadSelfClientState() (exported.ClientState, error) {
	return readClientState(vc.cdc, vc.ClientStore(), vc.clientID)
}

// ReadSelfConsensusState returns the consensus state stored by the client being verified at the provided height.
func (vc VerificationContext) ReadSelfConsensusState(height exported.Height) (exported.ConsensusState, error) {
	return readConsensusState(vc.cdc, vc.ClientStore(), vc.clientID, height)
}

// ReadConsensusState returns the consensus state another client stored at the provided height.
// The referenced client has already verified that consensus state, its trust is inherited
// by the caller.
func (vc VerificationContext) ReadConsensusState(clientID string, height exported.Height) (exported.ConsensusState, error) {
	if clientID == vc.clientID {
		return nil, errorsmod.Wrapf(ErrInvalidClientReference, "client %s cannot reference itself", clientID)
	}

	return readConsensusState(vc.cdc, vc.storeProvider.ClientStore(clientID), clientID, height)
}

// GetSelfClientState reads the client state of the client being verified as its concrete type.
func GetSelfClientState[T exported.ClientState](vc VerificationContext) (T, error) {
	var zero T

	clientState, err := vc.ReadSelfClientState()
	if err != nil {
		return zero, err
	}

	concrete, ok := clientState.(T)
	if !ok {
		return zero, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected type %T, got %T", zero, clientState)
	}

	return concrete, nil
}

// GetSelfConsensusState reads a consensus state of the client being verified as its concrete type.
func GetSelfConsensusState[T exported.ConsensusState](vc VerificationContext, height exported.Height) (T, error) {
	var zero T

	consensusState, err := vc.ReadSelfConsensusState(height)
	if err != nil {
		return zero, err
	}

	concrete, ok := consensusState.(T)
	if !ok {
		return zero, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected type %T, got %T", zero, consensusState)
	}

	return concrete, nil
}

// GetConsensusState reads a consensus state of another client as T. T is usually an
// interface describing what the reader needs from the referenced flavor, e.g. a state root.
func GetConsensusState[T any](vc VerificationContext, clientID string, height exported.Height) (T, error) {
	var zero T

	consensusState, err := vc.ReadConsensusState(clientID, height)
	if err != nil {
		return zero, err
	}

	concrete, ok := consensusState.(T)
	if !ok {
		return zero, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "consensus state %T of client %s does not provide %T", consensusState, clientID, zero)
	}

	return concrete, nil
}

func readClientState(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientID string) (exported.ClientState, error) {
	bz := clientStore.Get(host.ClientStateKey())
	if len(bz) == 0 {
		return nil, errorsmod.Wrap(ErrClientNotFound, clientID)
	}

	clientState, err := UnmarshalClientState(cdc, bz)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrStoreError, "client %s: %s", clientID, err)
	}

	return clientState, nil
}

func readConsensusState(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientID string, height exported.Height) (exported.ConsensusState, error) {
	bz := clientStore.Get(host.ConsensusStateKey(height))
	if len(bz) == 0 {
		return nil, errorsmod.Wrapf(ErrConsensusStateNotFound, "client %s at height %s", clientID, height)
	}

	consensusState, err := UnmarshalConsensusState(cdc, bz)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrStoreError, "client %s at height %s: %s", clientID, height, err)
	}

	return consensusState, nil
}
