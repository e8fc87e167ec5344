package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// RegisterInterfaces registers the client interfaces concrete light client types are packed as.
func RegisterInterfaces(registry codec.InterfaceRegistry) {
	registry.RegisterInterface(
		"ibc.core.client.v1.ClientState",
		(*exported.ClientState)(nil),
	)
	registry.RegisterInterface(
		"ibc.core.client.v1.ConsensusState",
		(*exported.ConsensusState)(nil),
	)
	registry.RegisterInterface(
		"ibc.core.client.v1.ClientMessage",
		(*exported.ClientMessage)(nil),
	)
}

// MarshalClientState encodes a client state together with its type URL.
func MarshalClientState(cdc codec.BinaryCodec, clientState exported.ClientState) ([]byte, error) {
	return cdc.MarshalInterface(clientState)
}

// MustMarshalClientState attempts to encode a ClientState object and returns the
// raw encoded bytes. It panics on error.
func MustMarshalClientState(cdc codec.BinaryCodec, clientState exported.ClientState) []byte {
	bz, err := MarshalClientState(cdc, clientState)
	if err != nil {
		panic(err)
	}

	return bz
}

// UnmarshalClientState returns a ClientState interface from raw encoded clientState bytes.
// An error is returned upon decoding failure.
func UnmarshalClientState(cdc codec.BinaryCodec, bz []byte) (exported.ClientState, error) {
	var clientState exported.ClientState
	if err := cdc.UnmarshalInterface(bz, &clientState); err != nil {
		return nil, err
	}

	return clientState, nil
}

// MustUnmarshalClientState attempts to decode and return a ClientState object from
// raw encoded bytes. It panics on error.
func MustUnmarshalClientState(cdc codec.BinaryCodec, bz []byte) exported.ClientState {
	clientState, err := UnmarshalClientState(cdc, bz)
	if err != nil {
		panic(err)
	}

	return clientState
}

// MarshalConsensusState encodes a consensus state together with its type URL.
func MarshalConsensusState(cdc codec.BinaryCodec, consensusState exported.ConsensusState) ([]byte, error) {
	return cdc.MarshalInterface(consensusState)
}

// MustMarshalConsensusState attempts to encode a ConsensusState object and returns the
// raw encoded bytes. It panics on error.
func MustMarshalConsensusState(cdc codec.BinaryCodec, consensusState exported.ConsensusState) []byte {
	bz, err := MarshalConsensusState(cdc, consensusState)
	if err != nil {
		panic(err)
	}

	return bz
}

// UnmarshalConsensusState returns a ConsensusState interface from raw encoded consensus state bytes.
func UnmarshalConsensusState(cdc codec.BinaryCodec, bz []byte) (exported.ConsensusState, error) {
	var consensusState exported.ConsensusState
	if err := cdc.UnmarshalInterface(bz, &consensusState); err != nil {
		return nil, err
	}

	return consensusState, nil
}

// MustUnmarshalConsensusState attempts to decode and return a ConsensusState object from
// raw encoded bytes. It panics on error.
func MustUnmarshalConsensusState(cdc codec.BinaryCodec, bz []byte) exported.ConsensusState {
	consensusState, err := UnmarshalConsensusState(cdc, bz)
	if err != nil {
		panic(err)
	}

	return consensusState
}

// MarshalClientMessage encodes a header or misbehaviour together with its type URL.
func MarshalClientMessage(cdc codec.BinaryCodec, clientMessage exported.ClientMessage) ([]byte, error) {
	return cdc.MarshalInterface(clientMessage)
}

// UnmarshalClientMessage returns a ClientMessage interface from raw encoded bytes.
func UnmarshalClientMessage(cdc codec.BinaryCodec, bz []byte) (exported.ClientMessage, error) {
	var clientMessage exported.ClientMessage
	if err := cdc.UnmarshalInterface(bz, &clientMessage); err != nil {
		return nil, err
	}

	return clientMessage, nil
}

// UnpackClientState decodes a client state and asserts its concrete type.
func UnpackClientState[T exported.ClientState](cdc codec.BinaryCodec, bz []byte) (T, error) {
	var zero T

	clientState, err := UnmarshalClientState(cdc, bz)
	if err != nil {
		return zero, err
	}

	concrete, ok := clientState.(T)
	if !ok {
		return zero, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected type %T, got %T", zero, clientState)
	}

	return concrete, nil
}

// UnpackConsensusState decodes a consensus state and asserts its concrete type.
func UnpackConsensusState[T exported.ConsensusState](cdc codec.BinaryCodec, bz []byte) (T, error) {
	var zero T

	consensusState, err := UnmarshalConsensusState(cdc, bz)
	if err != nil {
		return zero, err
	}

	concrete, ok := consensusState.(T)
	if !ok {
		return zero, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected type %T, got %T", zero, consensusState)
	}

	return concrete, nil
}
