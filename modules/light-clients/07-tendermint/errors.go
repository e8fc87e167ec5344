package tendermint

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// IBC tendermint client sentinel errors
var (
	ErrInvalidChainID          = errorsmod.Register(ModuleName, 2, "invalid chain-id")
	ErrInvalidTrustingPeriod   = errorsmod.Register(ModuleName, 3, "invalid trusting period")
	ErrInvalidUnbondingPeriod  = errorsmod.Register(ModuleName, 4, "invalid unbonding period")
	ErrInvalidHeaderHeight     = errorsmod.Register(ModuleName, 5, "invalid header height")
	ErrInvalidHeader           = errorsmod.Register(ModuleName, 6, "invalid header")
	ErrInvalidMaxClockDrift    = errorsmod.Register(ModuleName, 7, "invalid max clock drift")
	ErrTrustingPeriodExpired   = errorsmod.Register(ModuleName, 11, "time since latest trusted state has passed the trusting period")
	ErrInvalidProofSpecs       = errorsmod.Register(ModuleName, 13, "invalid proof specs")
	ErrInvalidValidatorSet     = errorsmod.Register(ModuleName, 14, "invalid validator set")
	ErrInvalidTrustLevel       = errorsmod.Register(ModuleName, 15, "invalid trust level")
	ErrUntrustedHeaderNotNewer = errorsmod.Register(ModuleName, 16, "untrusted header is not newer than the trusted state")
	ErrHeaderFromFuture        = errorsmod.Register(ModuleName, 17, "header timestamp exceeds the allowed clock drift")
	ErrInvalidCommit           = errorsmod.Register(ModuleName, 18, "invalid commit")
	ErrInvalidMisbehaviour     = errorsmod.Register(ModuleName, 19, "invalid misbehaviour")
)

func init() {
	clienttypes.RegisterErrorClass(clienttypes.Structural,
		ErrInvalidTrustingPeriod, ErrInvalidUnbondingPeriod, ErrInvalidHeader, ErrInvalidMaxClockDrift,
		ErrInvalidProofSpecs, ErrInvalidTrustLevel, ErrInvalidCommit,
	)
	clienttypes.RegisterErrorClass(clienttypes.Temporal,
		ErrInvalidHeaderHeight, ErrTrustingPeriodExpired, ErrUntrustedHeaderNotNewer, ErrHeaderFromFuture,
	)
	clienttypes.RegisterErrorClass(clienttypes.Consistency,
		ErrInvalidChainID, ErrInvalidValidatorSet, ErrInvalidMisbehaviour,
	)
}
