package cometbls

import (
	"bytes"
	"math"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/cometbft/cometbft/crypto/tmhash"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState defines the consensus state of a cometbls chain at a trusted height.
type ConsensusState struct {
	// Timestamp of the block in unix nanoseconds.
	Timestamp          uint64
	Root               commitmenttypes.MerkleRoot
	NextValidatorsHash []byte
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(timestamp time.Time, root commitmenttypes.MerkleRoot, nextValsHash []byte) *ConsensusState {
	return &ConsensusState{
		Timestamp:          uint64(timestamp.UnixNano()),
		Root:               root,
		NextValidatorsHash: nextValsHash,
	}
}

// ClientType returns CometBLS
func (ConsensusState) ClientType() string {
	return exported.CometBLS
}

// GetRoot returns the app hash.
func (cs ConsensusState) GetRoot() exported.Root {
	return cs.Root
}

// GetTimestamp returns block time in nanoseconds of the header that created consensus state
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetTime returns the block time of the header that created consensus state.
func (cs ConsensusState) GetTime() time.Time {
	return time.Unix(0, int64(cs.Timestamp)).UTC()
}

// ValidateBasic defines a basic validation for the cometbls consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Root.Empty() {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "root cannot be empty")
	}
	if len(cs.NextValidatorsHash) != tmhash.Size {
		return errorsmod.Wrapf(clienttypes.ErrInvalidConsensus, "next validators hash must be %d bytes, got %d", tmhash.Size, len(cs.NextValidatorsHash))
	}
	if cs.Timestamp == 0 || cs.Timestamp > math.MaxInt64 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	return nil
}

// Equal reports whether both consensus states commit to the same block.
func (cs ConsensusState) Equal(other *ConsensusState) bool {
	return other != nil &&
		cs.Timestamp == other.Timestamp &&
		bytes.Equal(cs.Root.GetHash(), other.Root.GetHash()) &&
		bytes.Equal(cs.NextValidatorsHash, other.NextValidatorsHash)
}
