package rollup

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

// ConsensusState is the state of an L2 block proven through the L1 client.
type ConsensusState struct {
	// Timestamp of the L2 block in unix nanoseconds.
	Timestamp      uint64
	StateRoot      common.Hash
	IBCStorageRoot common.Hash
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(timestamp time.Time, stateRoot, ibcStorageRoot common.Hash) *ConsensusState {
	return &ConsensusState{
		Timestamp:      uint64(timestamp.UnixNano()),
		StateRoot:      stateRoot,
		IBCStorageRoot: ibcStorageRoot,
	}
}

// ClientType returns Rollup
func (ConsensusState) ClientType() string {
	return exported.Rollup
}

// GetRoot returns the storage root of the IBC contract.
func (cs ConsensusState) GetRoot() exported.Root {
	return commitmenttypes.NewMerkleRoot(cs.IBCStorageRoot.Bytes())
}

// GetStateRoot returns the L2 state root.
func (cs ConsensusState) GetStateRoot() common.Hash {
	return cs.StateRoot
}

// GetTimestamp returns block time in nanoseconds of the header that created consensus state
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// ValidateBasic defines a basic validation for the rollup consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if cs.StateRoot == (common.Hash{}) {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "state root cannot be empty")
	}
	if cs.IBCStorageRoot == (common.Hash{}) {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "IBC storage root cannot be empty")
	}
	if cs.Timestamp == 0 || cs.Timestamp > math.MaxInt64 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}

	return nil
}

// GetTime returns the block time of the L2 block.
func (cs ConsensusState) GetTime() time.Time {
	return time.Unix(0, int64(cs.Timestamp)).UTC()
}

func (cs ConsensusState) matches(other *ConsensusState) bool {
	return cs == *other
}
