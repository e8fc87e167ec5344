package rollup

import (
	"math"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

// Header proves an L2 block header through a consensus state of the L1 client.
type Header struct {
	// L1Height is the height of the consensus state of the L1 client the proofs are against.
	L1Height clienttypes.Height
	// L1AccountProof proves the rollup contract account under the L1 state root.
	L1AccountProof commitmenttypes.AccountProof
	// L2HeaderProof proves the hash of L2Header in the storage of the rollup contract.
	L2HeaderProof commitmenttypes.StorageProof
	L2Header      *types.Header `rlp:"nil"`
	// L2IBCAccountProof proves the IBC contract account under the state root of L2Header.
	L2IBCAccountProof commitmenttypes.AccountProof
	L2IBCStorageRoot  common.Hash
}

// ClientType defines that the Header is a rollup consensus algorithm
func (Header) ClientType() string {
	return exported.Rollup
}

// GetHeight returns the L2 block number with revision 0.
func (h Header) GetHeight() clienttypes.Height {
	return clienttypes.NewHeight(0, h.L2Header.Number.Uint64())
}

// GetTime returns the time of the L2 block.
func (h Header) GetTime() time.Time {
	return time.Unix(int64(h.L2Header.Time), 0).UTC()
}

// ValidateBasic performs the checks which do not require the client state.
func (h Header) ValidateBasic() error {
	if h.L1Height.IsZero() {
		return errorsmod.Wrap(ErrInvalidHeader, "L1 height cannot be zero")
	}
	if h.L2Header == nil {
		return errorsmod.Wrap(ErrInvalidHeader, "L2 header cannot be nil")
	}
	if h.L2Header.Number == nil || h.L2Header.Number.Sign() <= 0 || !h.L2Header.Number.IsUint64() {
		return errorsmod.Wrap(ErrInvalidHeader, "L2 block number must be a positive 64 bit integer")
	}
	if h.L2Header.Time == 0 || h.L2Header.Time > math.MaxInt64/uint64(time.Second) {
		return errorsmod.Wrapf(ErrInvalidHeader, "invalid L2 block time %d", h.L2Header.Time)
	}
	if len(h.L1AccountProof.Proof) == 0 || len(h.L2HeaderProof.Proof) == 0 || len(h.L2IBCAccountProof.Proof) == 0 {
		return errorsmod.Wrap(ErrInvalidHeader, "proofs cannot be empty")
	}

	return nil
}

// ConsensusState returns the consensus state created by the header.
func (h Header) ConsensusState() *ConsensusState {
	return NewConsensusState(h.GetTime(), h.L2Header.Root, h.L2IBCStorageRoot)
}
