package ethereum

import (
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/beacon/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState of an ethereum client. Heights are execution block numbers with revision 0.
// GenesisTime is in seconds, TrustingPeriod and MaxClockDrift in nanoseconds.
type ClientState struct {
	ChainId                      string //nolint:revive
	GenesisValidatorsRoot        common.Hash
	GenesisTime                  uint64
	ForkParameters               ForkParameters
	SecondsPerSlot               uint64
	SlotsPerEpoch                uint64
	EpochsPerSyncCommitteePeriod uint64
	SyncCommitteeSize            uint64
	MinSyncCommitteeParticipants uint64
	TrustingPeriod               uint64
	MaxClockDrift                uint64
	LatestSlot                   uint64
	LatestHeight                 clienttypes.Height
	FrozenHeight                 clienttypes.Height
	IBCContractAddress           common.Address
	IBCCommitmentSlot            common.Hash
}

// ClientType is ethereum.
func (ClientState) ClientType() string {
	return exported.Ethereum
}

// GetLatestHeight returns the latest finalized execution block number.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// GetTrustingPeriod returns the trusting period as a duration.
func (cs ClientState) GetTrustingPeriod() time.Duration {
	return time.Duration(cs.TrustingPeriod)
}

// GetMaxClockDrift returns the max clock drift as a duration.
func (cs ClientState) GetMaxClockDrift() time.Duration {
	return time.Duration(cs.MaxClockDrift)
}

// IsExpired returns whether the trusting period has elapsed since latestTimestamp.
func (cs ClientState) IsExpired(latestTimestamp, now time.Time) bool {
	return !latestTimestamp.Add(cs.GetTrustingPeriod()).After(now)
}

// ComputeEpoch returns the epoch of slot.
func (cs ClientState) ComputeEpoch(slot uint64) uint64 {
	return slot / cs.SlotsPerEpoch
}

// SyncCommitteePeriod returns the sync committee period of slot.
func (cs ClientState) SyncCommitteePeriod(slot uint64) uint64 {
	return cs.ComputeEpoch(slot) / cs.EpochsPerSyncCommitteePeriod
}

// TimestampAtSlot returns the unix time in seconds at which slot starts.
func (cs ClientState) TimestampAtSlot(slot uint64) uint64 {
	return cs.GenesisTime + slot*cs.SecondsPerSlot
}

// SyncCommitteeDomain returns the domain of sync committee signatures produced at signatureSlot.
// The fork version is the one of the slot preceding the signature, which the signed
// header belongs to.
func (cs ClientState) SyncCommitteeDomain(signatureSlot uint64) merkle.Value {
	slot := signatureSlot
	if slot > 0 {
		slot--
	}

	forkVersion := cs.ForkParameters.ForkVersion(cs.ComputeEpoch(slot))
	return ComputeDomain(DomainSyncCommittee, forkVersion, cs.GenesisValidatorsRoot)
}

func (cs ClientState) status(now time.Time, clientStore storetypes.KVStore, cdc codec.BinaryCodec) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	consState, found := GetConsensusState(clientStore, cdc, cs.LatestHeight)
	if !found {
		return exported.Expired
	}

	if cs.IsExpired(consState.GetTime(), now) {
		return exported.Expired
	}

	return exported.Active
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return errorsmod.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}
	if err := cs.ForkParameters.Validate(); err != nil {
		return err
	}
	if cs.SecondsPerSlot == 0 || cs.SlotsPerEpoch == 0 || cs.EpochsPerSyncCommitteePeriod == 0 {
		return errorsmod.Wrapf(ErrInvalidSlotParameters, "seconds per slot (%d), slots per epoch (%d) and epochs per period (%d) must be positive",
			cs.SecondsPerSlot, cs.SlotsPerEpoch, cs.EpochsPerSyncCommitteePeriod)
	}
	if cs.SyncCommitteeSize != SyncCommitteeSizeMinimal && cs.SyncCommitteeSize != SyncCommitteeSizeMainnet {
		return errorsmod.Wrapf(ErrInvalidSyncCommittee, "sync committee size must be %d or %d, got %d",
			SyncCommitteeSizeMinimal, SyncCommitteeSizeMainnet, cs.SyncCommitteeSize)
	}
	if cs.MinSyncCommitteeParticipants == 0 || cs.MinSyncCommitteeParticipants > cs.SyncCommitteeSize {
		return errorsmod.Wrapf(ErrInvalidSyncCommittee, "min sync committee participants must be within [1, %d], got %d",
			cs.SyncCommitteeSize, cs.MinSyncCommitteeParticipants)
	}
	if cs.TrustingPeriod == 0 || cs.TrustingPeriod > maxDuration {
		return errorsmod.Wrap(ErrInvalidSlotParameters, "trusting period must be greater than zero")
	}
	if cs.MaxClockDrift == 0 || cs.MaxClockDrift > maxDuration {
		return errorsmod.Wrap(ErrInvalidSlotParameters, "max clock drift must be greater than zero")
	}
	if cs.LatestHeight.RevisionNumber != 0 || cs.LatestHeight.RevisionHeight == 0 {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidHeight, "latest height must be a non-zero block number with revision 0, got %s", cs.LatestHeight)
	}
	if !cs.FrozenHeight.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, "client cannot be created frozen")
	}
	if cs.IBCContractAddress == (common.Address{}) {
		return errorsmod.Wrap(ErrInvalidContractAddress, "IBC contract address cannot be empty")
	}

	return nil
}

func (cs ClientState) initialize(cdc codec.BinaryCodec, clientStore storetypes.KVStore, consensusState *ConsensusState) error {
	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}
	if consensusState.Slot != cs.LatestSlot {
		return errorsmod.Wrapf(clienttypes.ErrInvalidConsensus, "consensus state slot %d does not match latest slot %d", consensusState.Slot, cs.LatestSlot)
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, consensusState, cs.LatestHeight)

	return nil
}

// CommitmentSlot returns the storage slot under which the IBC contract commits key.
func (cs ClientState) CommitmentSlot(key []byte) common.Hash {
	return commitmenttypes.CommitmentStorageSlot(new(uint256.Int).SetBytes32(cs.IBCCommitmentSlot[:]), key)
}

// verifyMembership verifies that the IBC contract stores keccak256(value) for the key
// carried by path.
func (cs ClientState) verifyMembership(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	storageProof, slot, consensusState, err := cs.proofArguments(clientStore, cdc, height, proof, path)
	if err != nil {
		return err
	}

	return commitmenttypes.VerifyStorageMembership(consensusState.StorageRoot, slot, crypto.Keccak256Hash(value), storageProof)
}

// verifyNonMembership verifies that the IBC contract stores nothing for the key carried by path.
func (cs ClientState) verifyNonMembership(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	proof []byte,
	path exported.Path,
) error {
	storageProof, slot, consensusState, err := cs.proofArguments(clientStore, cdc, height, proof, path)
	if err != nil {
		return err
	}

	return commitmenttypes.VerifyStorageNonMembership(consensusState.StorageRoot, slot, storageProof)
}

func (cs ClientState) proofArguments(
	clientStore storetypes.KVStore,
	cdc codec.BinaryCodec,
	height exported.Height,
	proof []byte,
	path exported.Path,
) (commitmenttypes.StorageProof, common.Hash, *ConsensusState, error) {
	if cs.LatestHeight.LT(height) {
		return commitmenttypes.StorageProof{}, common.Hash{}, nil, errorsmod.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%s < %s), please ensure the client has been updated", cs.LatestHeight, height,
		)
	}

	var storageProof commitmenttypes.StorageProof
	if err := cdc.Unmarshal(proof, &storageProof); err != nil {
		return commitmenttypes.StorageProof{}, common.Hash{}, nil, errorsmod.Wrap(commitmenttypes.ErrInvalidStorageProof, "failed to unmarshal proof into storage proof")
	}

	merklePath, ok := path.(commitmenttypes.MerklePath)
	if !ok {
		return commitmenttypes.StorageProof{}, common.Hash{}, nil, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "expected %T, got %T", commitmenttypes.MerklePath{}, path)
	}
	if len(merklePath.KeyPath) != 1 || len(merklePath.KeyPath[0]) == 0 {
		return commitmenttypes.StorageProof{}, common.Hash{}, nil, errorsmod.Wrapf(ErrInvalidCommitmentPath, "expected a single non-empty key, got %d keys", len(merklePath.KeyPath))
	}

	consensusState, found := GetConsensusState(clientStore, cdc, height)
	if !found {
		return commitmenttypes.StorageProof{}, common.Hash{}, nil, errorsmod.Wrap(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client")
	}

	return storageProof, cs.CommitmentSlot(merklePath.KeyPath[0]), consensusState, nil
}

// maxDuration bounds stored periods so that they convert to time.Duration without overflow.
const maxDuration = uint64(1<<63 - 1)
