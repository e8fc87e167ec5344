package types

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// SubModuleName is the error codespace
const SubModuleName string = "commitment"

// IBC connection sentinel errors
var (
	ErrInvalidProof         = errorsmod.Register(SubModuleName, 2, "invalid proof")
	ErrInvalidPrefix        = errorsmod.Register(SubModuleName, 3, "invalid prefix")
	ErrInvalidMerkleProof   = errorsmod.Register(SubModuleName, 4, "invalid merkle proof")
	ErrProofMismatch        = errorsmod.Register(SubModuleName, 5, "proof does not commit to the expected root")
	ErrInvalidProofSpecs    = errorsmod.Register(SubModuleName, 6, "invalid proof specs")
	ErrInvalidAccountProof  = errorsmod.Register(SubModuleName, 7, "invalid account proof")
	ErrInvalidStorageProof  = errorsmod.Register(SubModuleName, 8, "invalid storage proof")
	ErrStorageValueMismatch = errorsmod.Register(SubModuleName, 9, "proven storage value does not match")
	ErrInvalidPath          = errorsmod.Register(SubModuleName, 10, "invalid commitment path")
)

func init() {
	clienttypes.RegisterErrorClass(clienttypes.Structural,
		ErrInvalidProof, ErrInvalidPrefix, ErrInvalidMerkleProof, ErrInvalidProofSpecs, ErrInvalidPath,
	)
	clienttypes.RegisterErrorClass(clienttypes.Cryptographic,
		ErrProofMismatch, ErrInvalidAccountProof, ErrInvalidStorageProof, ErrStorageValueMismatch,
	)
}
