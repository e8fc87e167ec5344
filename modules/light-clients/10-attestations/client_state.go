package attestations

import (
	"bytes"
	"strings"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState of an attestations client. The client trusts any claim signed by at least
// MinRequiredSigs of the attestors.
type ClientState struct {
	ChainId           string //nolint:revive
	AttestorAddresses []common.Address
	MinRequiredSigs   uint64
	LatestHeight      clienttypes.Height
	FrozenHeight      clienttypes.Height
}

// NewClientState creates a new ClientState instance.
func NewClientState(chainID string, attestorAddresses []common.Address, minRequiredSigs uint64, latestHeight clienttypes.Height) *ClientState {
	return &ClientState{
		ChainId:           chainID,
		AttestorAddresses: attestorAddresses,
		MinRequiredSigs:   minRequiredSigs,
		LatestHeight:      latestHeight,
		FrozenHeight:      clienttypes.ZeroHeight(),
	}
}

// ClientType is Attestations.
func (ClientState) ClientType() string {
	return exported.Attestations
}

// GetLatestHeight returns the latest attested height.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// status returns Frozen or Active. Attested clients have no trusting period and never expire.
func (cs ClientState) status() exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	return exported.Active
}

// Validate performs basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return errorsmod.Wrap(ibcerrors.ErrInvalidChainID, "chain id cannot be empty string")
	}
	if len(cs.AttestorAddresses) == 0 {
		return errorsmod.Wrap(ErrInvalidAttestors, "attestor addresses cannot be empty")
	}

	seen := make(map[common.Address]bool, len(cs.AttestorAddresses))
	for _, addr := range cs.AttestorAddresses {
		if addr == (common.Address{}) {
			return errorsmod.Wrap(ErrInvalidAttestors, "attestor address cannot be the zero address")
		}
		if seen[addr] {
			return errorsmod.Wrapf(ErrInvalidAttestors, "duplicate attestor address %s", addr.Hex())
		}
		seen[addr] = true
	}

	if cs.MinRequiredSigs == 0 {
		return errorsmod.Wrap(ErrInvalidAttestors, "min required sigs cannot be 0")
	}
	if cs.MinRequiredSigs > uint64(len(cs.AttestorAddresses)) {
		return errorsmod.Wrapf(ErrInvalidAttestors, "min required sigs cannot exceed number of attestors (%d > %d)", cs.MinRequiredSigs, len(cs.AttestorAddresses))
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return errorsmod.Wrap(ibcerrors.ErrInvalidHeight, "latest height revision height cannot be zero")
	}
	if cs.LatestHeight.RevisionNumber != clienttypes.ParseChainID(cs.ChainId) {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidHeight,
			"latest height revision number must match chain id revision number (%d != %d)", cs.LatestHeight.RevisionNumber, clienttypes.ParseChainID(cs.ChainId))
	}
	if !cs.FrozenHeight.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, "client cannot be created frozen")
	}

	return nil
}

func (cs ClientState) initialize(cdc codec.BinaryCodec, clientStore storetypes.KVStore, consensusState *ConsensusState) error {
	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, consensusState, cs.LatestHeight)

	return nil
}

// submitAttestation checks the signatures over the attestation digest and stores it.
func (cs ClientState) submitAttestation(clientStore storetypes.KVStore, cdc codec.BinaryCodec, attestation Attestation, signatures [][]byte) error {
	if err := attestation.ValidateBasic(); err != nil {
		return err
	}
	if attestation.Height.RevisionNumber != cs.LatestHeight.RevisionNumber {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidHeight, "attestation revision %d does not match client revision %d",
			attestation.Height.RevisionNumber, cs.LatestHeight.RevisionNumber)
	}
	if _, found := GetAttestedValue(clientStore, cdc, attestation.Height, attestation.Key); found {
		return errorsmod.Wrapf(ErrAttestationExists, "key %x at height %s", attestation.Key, attestation.Height)
	}

	digest, err := attestation.Digest(cs.ChainId)
	if err != nil {
		return err
	}
	if err := cs.verifySignatures(digest, signatures); err != nil {
		return err
	}

	return setAttestation(clientStore, cdc, attestation)
}

// verifyMembership checks that an existence attestation of value is stored for path at height.
// Proof bytes are unused: the attestation itself is the evidence.
func (cs ClientState) verifyMembership(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	path exported.Path,
	value []byte,
) error {
	if len(value) == 0 {
		return errorsmod.Wrap(ErrInvalidAttestationData, "value cannot be empty")
	}

	attested, err := cs.attestedValue(clientStore, cdc, height, path)
	if err != nil {
		return err
	}
	if attested.Kind != Existence || !bytes.Equal(attested.Value, value) {
		return errorsmod.Wrapf(ErrAttestationMismatch, "attested value %x does not match %x", attested.Value, value)
	}

	return nil
}

// verifyNonMembership checks that a non-existence attestation is stored for path at height.
func (cs ClientState) verifyNonMembership(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	path exported.Path,
) error {
	attested, err := cs.attestedValue(clientStore, cdc, height, path)
	if err != nil {
		return err
	}
	if attested.Kind != NonExistence {
		return errorsmod.Wrap(ErrAttestationMismatch, "attestors attested the existence of a value")
	}

	return nil
}

func (cs ClientState) attestedValue(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	path exported.Path,
) (AttestedValue, error) {
	if cs.LatestHeight.LT(height) {
		return AttestedValue{}, errorsmod.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%s < %s), please ensure the client has been updated", cs.LatestHeight, height,
		)
	}

	key, err := attestationPath(path)
	if err != nil {
		return AttestedValue{}, err
	}

	if _, found := GetConsensusState(clientStore, cdc, height); !found {
		return AttestedValue{}, errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "consensus state not found for height %s", height)
	}

	attested, found := GetAttestedValue(clientStore, cdc, height, key)
	if !found {
		return AttestedValue{}, errorsmod.Wrapf(ErrAttestationNotFound, "no attestation of %s at height %s", key, height)
	}

	return attested, nil
}

// attestationPath returns the attested key of a merkle path. The path must hold exactly one
// key, which may not use the prefix reserved for the timestamp attestation.
func attestationPath(path exported.Path) ([]byte, error) {
	merklePath, ok := path.(commitmenttypes.MerklePath)
	if !ok {
		return nil, errorsmod.Wrapf(ErrInvalidPath, "expected %T, got %T", commitmenttypes.MerklePath{}, path)
	}
	if err := merklePath.ValidateAsPath(); err != nil {
		return nil, errorsmod.Wrap(ErrInvalidPath, err.Error())
	}
	if len(merklePath.KeyPath) != 1 {
		return nil, errorsmod.Wrapf(ErrInvalidPath, "expected 1 key, got %d", len(merklePath.KeyPath))
	}

	key := merklePath.KeyPath[0]
	if bytes.HasPrefix(key, ReservedKeyPrefix) {
		return nil, errorsmod.Wrapf(ErrInvalidPath, "key %x uses the reserved prefix %x", key, ReservedKeyPrefix)
	}

	return key, nil
}
