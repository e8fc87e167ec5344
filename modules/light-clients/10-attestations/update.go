package attestations

import (
	"bytes"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// VerifyClientMessage checks that the attestors attested exactly the timestamp claimed by
// the header. Signatures were checked when the attestation was submitted and are not
// checked again.
func (cs *ClientState) VerifyClientMessage(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) error {
	header, ok := clientMsg.(*Header)
	if !ok {
		return errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "expected type %T, got type %T", (*Header)(nil), clientMsg)
	}

	if err := header.ValidateBasic(); err != nil {
		return err
	}
	if header.Height.RevisionNumber != cs.LatestHeight.RevisionNumber {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidHeight, "header revision %d does not match client revision %d",
			header.Height.RevisionNumber, cs.LatestHeight.RevisionNumber)
	}

	attested, found := GetAttestedValue(clientStore, cdc, header.Height, TimestampKey)
	if !found {
		return errorsmod.Wrapf(ErrAttestationNotFound, "no timestamp attested at height %s", header.Height)
	}
	if attested.Kind != Existence || !bytes.Equal(attested.Value, EncodeTimestamp(header.Timestamp)) {
		return errorsmod.Wrapf(ErrAttestationMismatch, "attested timestamp %x does not match header timestamp %d", attested.Value, header.Timestamp)
	}

	return nil
}

// CheckForMisbehaviour reports whether a different timestamp is already stored for the
// header height. Both came from the attestors, so the attestors equivocated.
func (*ClientState) CheckForMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) bool {
	header, ok := clientMsg.(*Header)
	if !ok {
		return false
	}

	existing, found := GetConsensusState(clientStore, cdc, header.Height)
	return found && existing.Timestamp != header.Timestamp
}

// UpdateStateOnMisbehaviour freezes the client at the height of the conflicting header.
func (cs ClientState) UpdateStateOnMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	header, ok := clientMsg.(*Header)
	if !ok {
		panic(fmt.Errorf("expected type %T, got %T", &Header{}, clientMsg))
	}

	cs.FrozenHeight = header.Height
	setClientState(clientStore, cdc, &cs)
}

// UpdateState stores the consensus state of the header and ratchets the latest height.
// A header whose consensus state is already stored leaves the state untouched.
func (cs ClientState) UpdateState(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		panic(fmt.Errorf("expected type %T, got %T", &Header{}, clientMsg))
	}

	if _, found := GetConsensusState(clientStore, cdc, header.Height); found {
		return []exported.Height{header.Height}
	}

	if header.Height.GT(cs.LatestHeight) {
		cs.LatestHeight = header.Height
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, header.ConsensusState(), header.Height)

	return []exported.Height{header.Height}
}
