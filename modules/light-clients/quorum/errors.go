package quorum

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// SubModuleName is the error codespace.
const SubModuleName = "quorum"

var (
	ErrMultipleMessagesProvided    = errorsmod.Register(SubModuleName, 2, "multiple different messages provided")
	ErrMultipleSignaturesProvided  = errorsmod.Register(SubModuleName, 3, "multiple different signatures provided")
	ErrMessageNotSet               = errorsmod.Register(SubModuleName, 4, "message not set")
	ErrSignatureNotSet             = errorsmod.Register(SubModuleName, 5, "signature not set")
	ErrNoPublicKeys                = errorsmod.Register(SubModuleName, 6, "no public keys collected")
	ErrSignatureVerificationFailed = errorsmod.Register(SubModuleName, 7, "signature verification failed")
	ErrInsufficientVotingPower     = errorsmod.Register(SubModuleName, 8, "insufficient voting power")
	ErrInvalidPubKeyType           = errorsmod.Register(SubModuleName, 9, "invalid public key type")
	ErrInvalidPubKey               = errorsmod.Register(SubModuleName, 10, "invalid public key")
	ErrDuplicateValidator          = errorsmod.Register(SubModuleName, 11, "duplicate validator")
	ErrInvalidVotingPower          = errorsmod.Register(SubModuleName, 12, "invalid voting power")
	ErrInvalidThreshold            = errorsmod.Register(SubModuleName, 13, "invalid threshold")
	ErrStrategyFinished            = errorsmod.Register(SubModuleName, 14, "strategy already finished")
)

func init() {
	clienttypes.RegisterErrorClass(clienttypes.Structural,
		ErrMessageNotSet, ErrSignatureNotSet, ErrNoPublicKeys, ErrInvalidThreshold, ErrStrategyFinished, ErrInvalidVotingPower,
	)
	clienttypes.RegisterErrorClass(clienttypes.Cryptographic,
		ErrMultipleMessagesProvided, ErrMultipleSignaturesProvided, ErrSignatureVerificationFailed,
		ErrInsufficientVotingPower, ErrInvalidPubKeyType, ErrInvalidPubKey, ErrDuplicateValidator,
	)
}
