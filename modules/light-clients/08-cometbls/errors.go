package cometbls

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// IBC cometbls client sentinel errors
var (
	ErrInvalidChainID          = errorsmod.Register(ModuleName, 2, "invalid chain-id")
	ErrInvalidTrustingPeriod   = errorsmod.Register(ModuleName, 3, "invalid trusting period")
	ErrInvalidMaxClockDrift    = errorsmod.Register(ModuleName, 4, "invalid max clock drift")
	ErrInvalidHeaderHeight     = errorsmod.Register(ModuleName, 5, "invalid header height")
	ErrInvalidHeader           = errorsmod.Register(ModuleName, 6, "invalid header")
	ErrInvalidValidatorSet     = errorsmod.Register(ModuleName, 7, "invalid validator set")
	ErrInvalidCommit           = errorsmod.Register(ModuleName, 8, "invalid commit")
	ErrUntrustedHeaderNotNewer = errorsmod.Register(ModuleName, 9, "untrusted header is not newer than the trusted state")
	ErrTrustingPeriodExpired   = errorsmod.Register(ModuleName, 10, "time since latest trusted state has passed the trusting period")
	ErrHeaderFromFuture        = errorsmod.Register(ModuleName, 11, "header timestamp exceeds the allowed clock drift")
	ErrInvalidZKP              = errorsmod.Register(ModuleName, 12, "invalid zero-knowledge proof")
	ErrInvalidVerifyingKey     = errorsmod.Register(ModuleName, 13, "invalid verifying key")
	ErrInvalidContractAddress  = errorsmod.Register(ModuleName, 14, "invalid contract address")
	ErrInvalidProofSpecs       = errorsmod.Register(ModuleName, 15, "invalid proof specs")
)

func init() {
	clienttypes.RegisterErrorClass(clienttypes.Structural,
		ErrInvalidTrustingPeriod, ErrInvalidMaxClockDrift, ErrInvalidHeader, ErrInvalidCommit,
		ErrInvalidVerifyingKey, ErrInvalidContractAddress, ErrInvalidProofSpecs,
	)
	clienttypes.RegisterErrorClass(clienttypes.Temporal,
		ErrInvalidHeaderHeight, ErrUntrustedHeaderNotNewer, ErrTrustingPeriodExpired, ErrHeaderFromFuture,
	)
	clienttypes.RegisterErrorClass(clienttypes.Cryptographic, ErrInvalidZKP)
	clienttypes.RegisterErrorClass(clienttypes.Consistency, ErrInvalidChainID, ErrInvalidValidatorSet)
}
