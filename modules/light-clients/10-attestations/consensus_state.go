package attestations

import (
	"math"
	"time"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState records the attested block time of a height. Attested clients carry no
// commitment root: membership is answered from stored attestations instead.
type ConsensusState struct {
	// Timestamp of the block in unix nanoseconds.
	Timestamp uint64
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(timestamp time.Time) *ConsensusState {
	return &ConsensusState{Timestamp: uint64(timestamp.UnixNano())}
}

// ClientType returns Attestations.
func (ConsensusState) ClientType() string {
	return exported.Attestations
}

// GetRoot returns an empty root.
func (ConsensusState) GetRoot() exported.Root {
	return commitmenttypes.MerkleRoot{}
}

// GetTimestamp returns the attested block time in nanoseconds.
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// ValidateBasic defines a basic validation for the attestations consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 || cs.Timestamp > math.MaxInt64 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}

	return nil
}
