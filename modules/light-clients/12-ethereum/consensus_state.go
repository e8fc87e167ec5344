package ethereum

import (
	"math"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState is the state of the beacon chain at a finalized slot. Sync committees are
// kept as their SSZ roots. NextSyncCommittee is zero until an update reveals it.
type ConsensusState struct {
	Slot uint64
	// StateRoot is the finalized execution state root.
	StateRoot common.Hash
	// StorageRoot is the storage root of the IBC contract.
	StorageRoot common.Hash
	// Timestamp of the execution block in unix nanoseconds.
	Timestamp            uint64
	CurrentSyncCommittee common.Hash
	NextSyncCommittee    common.Hash
}

// ClientType returns Ethereum
func (ConsensusState) ClientType() string {
	return exported.Ethereum
}

// GetRoot returns the storage root of the IBC contract.
func (cs ConsensusState) GetRoot() exported.Root {
	return commitmenttypes.NewMerkleRoot(cs.StorageRoot.Bytes())
}

// GetStateRoot returns the execution state root. Clients anchored on this chain prove their
// contracts against it.
func (cs ConsensusState) GetStateRoot() common.Hash {
	return cs.StateRoot
}

// GetTimestamp returns block time in nanoseconds of the header that created consensus state
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetTime returns the block time of the header that created consensus state.
func (cs ConsensusState) GetTime() time.Time {
	return time.Unix(0, int64(cs.Timestamp)).UTC()
}

// ValidateBasic defines a basic validation for the ethereum consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if cs.StateRoot == (common.Hash{}) {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "state root cannot be empty")
	}
	if cs.StorageRoot == (common.Hash{}) {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "storage root cannot be empty")
	}
	if cs.CurrentSyncCommittee == (common.Hash{}) {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "current sync committee cannot be empty")
	}
	if cs.Timestamp == 0 || cs.Timestamp > math.MaxInt64 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}

	return nil
}

// matches reports whether both consensus states commit to the same finalized execution block.
// Sync committees are not compared as they are derived from the trusted state.
func (cs ConsensusState) matches(other *ConsensusState) bool {
	return cs.Slot == other.Slot &&
		cs.StateRoot == other.StateRoot &&
		cs.StorageRoot == other.StorageRoot &&
		cs.Timestamp == other.Timestamp
}
