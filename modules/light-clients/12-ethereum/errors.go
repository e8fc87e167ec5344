package ethereum

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// IBC ethereum client sentinel errors
var (
	ErrInvalidChainID                 = errorsmod.Register(ModuleName, 2, "invalid chain-id")
	ErrInvalidForkParameters          = errorsmod.Register(ModuleName, 3, "invalid fork parameters")
	ErrInvalidSlotParameters          = errorsmod.Register(ModuleName, 4, "invalid slot parameters")
	ErrInvalidSyncCommittee           = errorsmod.Register(ModuleName, 5, "invalid sync committee")
	ErrInvalidSyncAggregate           = errorsmod.Register(ModuleName, 6, "invalid sync aggregate")
	ErrInvalidContractAddress         = errorsmod.Register(ModuleName, 7, "invalid contract address")
	ErrInvalidHeader                  = errorsmod.Register(ModuleName, 8, "invalid header")
	ErrInvalidSlot                    = errorsmod.Register(ModuleName, 9, "invalid slot")
	ErrInvalidSignaturePeriod         = errorsmod.Register(ModuleName, 10, "signature slot is outside of the trusted sync committee period")
	ErrInvalidTimestamp               = errorsmod.Register(ModuleName, 11, "execution timestamp does not match the slot")
	ErrTrustingPeriodExpired          = errorsmod.Register(ModuleName, 12, "time since latest trusted state has passed the trusting period")
	ErrHeaderFromFuture               = errorsmod.Register(ModuleName, 13, "header timestamp exceeds the allowed clock drift")
	ErrInsufficientParticipants       = errorsmod.Register(ModuleName, 14, "insufficient sync committee participants")
	ErrInvalidFinalityBranch          = errorsmod.Register(ModuleName, 15, "invalid finality branch")
	ErrInvalidNextSyncCommitteeBranch = errorsmod.Register(ModuleName, 16, "invalid next sync committee branch")
	ErrInvalidExecutionBranch         = errorsmod.Register(ModuleName, 17, "invalid execution branch")
	ErrTrustedSyncCommitteeMismatch   = errorsmod.Register(ModuleName, 18, "sync committee does not match the trusted consensus state")
	ErrNextSyncCommitteeUnknown       = errorsmod.Register(ModuleName, 19, "next sync committee of the trusted consensus state is unknown")
	ErrInvalidNextSyncCommitteePeriod = errorsmod.Register(ModuleName, 20, "next sync committee must be attested in the finalized period")
	ErrStorageRootMismatch            = errorsmod.Register(ModuleName, 21, "storage root does not match the account proof")
	ErrInvalidCommitmentPath          = errorsmod.Register(ModuleName, 22, "invalid commitment path")

	ErrDifferentSlotInFinalizedHeaderMisbehaviour           = errorsmod.Register(ModuleName, 23, "finalized headers of the misbehaviour have different slots")
	ErrSameFinalizedHeaderInFinalizedHeaderMisbehaviour     = errorsmod.Register(ModuleName, 24, "finalized headers of the misbehaviour are identical")
	ErrNoNextSyncCommitteeInNextSyncCommitteeMisbehaviour   = errorsmod.Register(ModuleName, 25, "both updates of the misbehaviour must carry a next sync committee")
	ErrDifferentPeriodInNextSyncCommitteeMisbehaviour       = errorsmod.Register(ModuleName, 26, "updates of the misbehaviour attest different periods")
	ErrSameNextSyncCommitteeInNextSyncCommitteeMisbehaviour = errorsmod.Register(ModuleName, 27, "next sync committees of the misbehaviour are identical")
)

func init() {
	clienttypes.RegisterErrorClass(clienttypes.Structural,
		ErrInvalidForkParameters, ErrInvalidSlotParameters, ErrInvalidSyncCommittee, ErrInvalidSyncAggregate,
		ErrInvalidContractAddress, ErrInvalidHeader, ErrInvalidCommitmentPath,
		ErrDifferentSlotInFinalizedHeaderMisbehaviour, ErrSameFinalizedHeaderInFinalizedHeaderMisbehaviour,
		ErrNoNextSyncCommitteeInNextSyncCommitteeMisbehaviour, ErrDifferentPeriodInNextSyncCommitteeMisbehaviour,
		ErrSameNextSyncCommitteeInNextSyncCommitteeMisbehaviour,
	)
	clienttypes.RegisterErrorClass(clienttypes.Temporal,
		ErrInvalidSlot, ErrInvalidSignaturePeriod, ErrInvalidTimestamp, ErrTrustingPeriodExpired, ErrHeaderFromFuture,
	)
	clienttypes.RegisterErrorClass(clienttypes.Cryptographic,
		ErrInsufficientParticipants, ErrInvalidFinalityBranch, ErrInvalidNextSyncCommitteeBranch, ErrInvalidExecutionBranch,
	)
	clienttypes.RegisterErrorClass(clienttypes.Consistency,
		ErrInvalidChainID, ErrTrustedSyncCommitteeMismatch, ErrNextSyncCommitteeUnknown,
		ErrInvalidNextSyncCommitteePeriod, ErrStorageRootMismatch,
	)
}
