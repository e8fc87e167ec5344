package mock

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState of the mock light client.
type ConsensusState struct {
	Timestamp uint64
	Root      []byte
}

func (*ConsensusState) ClientType() string {
	return ModuleName
}

func (cs *ConsensusState) GetRoot() exported.Root {
	return commitmenttypes.NewMerkleRoot(cs.Root)
}

func (cs *ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

func (cs *ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp cannot be zero")
	}

	return nil
}
