package rollup

import (
	"math/big"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var (
	_ exported.ClientState    = (*ClientState)(nil)
	_ exported.ClientReferrer = (*ClientState)(nil)
)

// ClientState of a rollup client. Heights are L2 block numbers with revision 0.
// MaxClockDrift is in nanoseconds.
type ClientState struct {
	ChainId    string //nolint:revive
	L1ClientId string //nolint:revive
	// RollupContractAddress is the address of the contract on L1 which commits the L2 block hashes.
	RollupContractAddress common.Address
	// L2BlockHashesSlot is the storage slot of the mapping from L2 block number to block hash.
	L2BlockHashesSlot  common.Hash
	IBCContractAddress common.Address
	IBCCommitmentSlot  common.Hash
	MaxClockDrift      uint64
	LatestHeight       clienttypes.Height
	FrozenHeight       clienttypes.Height
}

// ClientType is rollup.
func (ClientState) ClientType() string {
	return exported.Rollup
}

// GetLatestHeight returns the latest L2 block number.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// ReferencedClients returns the L1 client.
func (cs ClientState) ReferencedClients() []string {
	return []string{cs.L1ClientId}
}

// GetMaxClockDrift returns the max clock drift as a duration.
func (cs ClientState) GetMaxClockDrift() time.Duration {
	return time.Duration(cs.MaxClockDrift)
}

// L2BlockHashSlot returns the storage slot of the rollup contract holding the hash of
// the L2 block with the provided number.
func (cs ClientState) L2BlockHashSlot(number *big.Int) common.Hash {
	return commitmenttypes.MappingStorageSlot(common.BigToHash(number), new(uint256.Int).SetBytes32(cs.L2BlockHashesSlot[:]))
}

// CommitmentSlot returns the storage slot under which the IBC contract commits key.
func (cs ClientState) CommitmentSlot(key []byte) common.Hash {
	return commitmenttypes.CommitmentStorageSlot(new(uint256.Int).SetBytes32(cs.IBCCommitmentSlot[:]), key)
}

// status reports Frozen or Active. A rollup client has no trusting period of its own,
// the status of the L1 client it references is accounted for by the caller.
func (cs ClientState) status(clientStore storetypes.KVStore, cdc codec.BinaryCodec) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	if _, found := GetConsensusState(clientStore, cdc, cs.LatestHeight); !found {
		return exported.Expired
	}

	return exported.Active
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return errorsmod.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}
	if err := host.ClientIdentifierValidator(cs.L1ClientId); err != nil {
		return errorsmod.Wrapf(ErrInvalidL1Client, "invalid L1 client identifier: %s", err)
	}
	if cs.RollupContractAddress == (common.Address{}) {
		return errorsmod.Wrap(ErrInvalidContractAddress, "rollup contract address cannot be empty")
	}
	if cs.IBCContractAddress == (common.Address{}) {
		return errorsmod.Wrap(ErrInvalidContractAddress, "IBC contract address cannot be empty")
	}
	if cs.MaxClockDrift == 0 || cs.MaxClockDrift > maxDuration {
		return errorsmod.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}
	if cs.LatestHeight.RevisionNumber != 0 || cs.LatestHeight.RevisionHeight == 0 {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidHeight, "latest height must be a non-zero block number with revision 0, got %s", cs.LatestHeight)
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

	return commitmenttypes.VerifyStorageMembership(consensusState.IBCStorageRoot, slot, crypto.Keccak256Hash(value), storageProof)
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

	return commitmenttypes.VerifyStorageNonMembership(consensusState.IBCStorageRoot, slot, storageProof)
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

const maxDuration = uint64(1<<63 - 1)
