package ethereum

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/beacon/merkle"
	beacontypes "github.com/ethereum/go-ethereum/beacon/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

// maxExtraDataBytes is the SSZ limit of the execution extra data.
const maxExtraDataBytes = 32

// ExecutionPayloadHeader is the Deneb execution payload header.
type ExecutionPayloadHeader struct {
	ParentHash       common.Hash
	FeeRecipient     common.Address
	StateRoot        common.Hash
	ReceiptsRoot     common.Hash
	LogsBloom        types.Bloom
	PrevRandao       common.Hash
	BlockNumber      uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	ExtraData        []byte
	BaseFeePerGas    *uint256.Int
	BlockHash        common.Hash
	TransactionsRoot common.Hash
	WithdrawalsRoot  common.Hash
	BlobGasUsed      uint64
	ExcessBlobGas    uint64
}

// LightClientHeader is a beacon header together with its execution payload header.
type LightClientHeader struct {
	Beacon          beacontypes.Header
	Execution       ExecutionPayloadHeader
	ExecutionBranch merkle.Values
}

// LightClientUpdate proves finality of FinalizedHeader through a sync committee signature
// over AttestedHeader.
type LightClientUpdate struct {
	AttestedHeader          LightClientHeader
	NextSyncCommittee       *SyncCommittee `rlp:"nil"`
	NextSyncCommitteeBranch merkle.Values
	FinalizedHeader         LightClientHeader
	FinalityBranch          merkle.Values
	SyncAggregate           SyncAggregate
	SignatureSlot           uint64
}

// TrustedSyncCommittee is the sync committee signing the update. It must match the current
// or, if IsNext is set, the next sync committee of the consensus state at TrustedHeight.
type TrustedSyncCommittee struct {
	TrustedHeight clienttypes.Height
	SyncCommittee SyncCommittee
	IsNext        bool
}

// AccountUpdate proves the storage root of the IBC contract under the finalized execution
// state root.
type AccountUpdate struct {
	AccountProof commitmenttypes.AccountProof
	StorageRoot  common.Hash
}

// Header defines the ethereum client consensus Header.
type Header struct {
	TrustedSyncCommittee TrustedSyncCommittee
	ConsensusUpdate      LightClientUpdate
	AccountUpdate        AccountUpdate
}

// ClientType defines that the Header is an ethereum consensus algorithm
func (Header) ClientType() string {
	return exported.Ethereum
}

// GetHeight returns the height of the finalized execution block.
func (h Header) GetHeight() clienttypes.Height {
	return clienttypes.NewHeight(0, h.ConsensusUpdate.FinalizedHeader.Execution.BlockNumber)
}

// GetTime returns the time of the finalized execution block.
func (h Header) GetTime() time.Time {
	return time.Unix(int64(h.ConsensusUpdate.FinalizedHeader.Execution.Timestamp), 0).UTC()
}

// ValidateBasic performs the checks which do not require the client state.
func (h Header) ValidateBasic() error {
	if h.TrustedSyncCommittee.TrustedHeight.IsZero() {
		return errorsmod.Wrap(ErrInvalidHeader, "trusted height cannot be zero")
	}
	if err := h.ConsensusUpdate.ValidateBasic(); err != nil {
		return err
	}
	if h.ConsensusUpdate.FinalizedHeader.Execution.BlockNumber == 0 {
		return errorsmod.Wrap(ErrInvalidHeader, "finalized execution block number cannot be zero")
	}
	if len(h.AccountUpdate.AccountProof.Proof) == 0 {
		return errorsmod.Wrap(ErrInvalidHeader, "account proof cannot be empty")
	}

	return nil
}

// ValidateBasic performs the structural checks of the update.
func (u LightClientUpdate) ValidateBasic() error {
	if err := u.SyncAggregate.ValidateBasic(); err != nil {
		return err
	}
	if err := u.AttestedHeader.ValidateBasic(); err != nil {
		return errorsmod.Wrap(err, "attested header")
	}
	if err := u.FinalizedHeader.ValidateBasic(); err != nil {
		return errorsmod.Wrap(err, "finalized header")
	}
	if u.NextSyncCommittee == nil && len(u.NextSyncCommitteeBranch) != 0 {
		return errorsmod.Wrap(ErrInvalidHeader, "next sync committee branch without next sync committee")
	}
	if u.NextSyncCommittee != nil {
		if err := u.NextSyncCommittee.ValidateBasic(); err != nil {
			return errorsmod.Wrap(err, "next sync committee")
		}
	}
	if !(u.SignatureSlot > u.AttestedHeader.Beacon.Slot && u.AttestedHeader.Beacon.Slot >= u.FinalizedHeader.Beacon.Slot) {
		return errorsmod.Wrapf(ErrInvalidSlot, "expected signature slot %d > attested slot %d >= finalized slot %d",
			u.SignatureSlot, u.AttestedHeader.Beacon.Slot, u.FinalizedHeader.Beacon.Slot)
	}

	return nil
}

// ValidateBasic checks the size limits of the execution payload header.
func (h LightClientHeader) ValidateBasic() error {
	if len(h.Execution.ExtraData) > maxExtraDataBytes {
		return errorsmod.Wrapf(ErrInvalidHeader, "extra data exceeds %d bytes", maxExtraDataBytes)
	}
	if len(h.ExecutionBranch) == 0 {
		return errorsmod.Wrap(ErrInvalidHeader, "execution branch cannot be empty")
	}

	return nil
}

// ConsensusState returns the execution layer part of the consensus state created by the header.
// Sync committees are filled in by UpdateState.
func (h Header) ConsensusState() *ConsensusState {
	finalized := h.ConsensusUpdate.FinalizedHeader
	return &ConsensusState{
		Slot:        finalized.Beacon.Slot,
		StateRoot:   finalized.Execution.StateRoot,
		StorageRoot: h.AccountUpdate.StorageRoot,
		Timestamp:   uint64(h.GetTime().UnixNano()),
	}
}
