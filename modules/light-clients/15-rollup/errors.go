package rollup

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// IBC rollup client sentinel errors
var (
	ErrInvalidChainID         = errorsmod.Register(ModuleName, 2, "invalid chain-id")
	ErrInvalidL1Client        = errorsmod.Register(ModuleName, 3, "invalid L1 client")
	ErrInvalidContractAddress = errorsmod.Register(ModuleName, 4, "invalid contract address")
	ErrInvalidHeader          = errorsmod.Register(ModuleName, 5, "invalid header")
	ErrInvalidL2HeaderProof   = errorsmod.Register(ModuleName, 6, "L2 header is not committed by the rollup contract")
	ErrStorageRootMismatch    = errorsmod.Register(ModuleName, 7, "storage root does not match the account proof")
	ErrHeaderFromFuture       = errorsmod.Register(ModuleName, 8, "header timestamp exceeds the allowed clock drift")
	ErrInvalidCommitmentPath  = errorsmod.Register(ModuleName, 9, "invalid commitment path")
	ErrInvalidMaxClockDrift   = errorsmod.Register(ModuleName, 10, "invalid max clock drift")
)

func init() {
	clienttypes.RegisterErrorClass(clienttypes.Structural,
		ErrInvalidL1Client, ErrInvalidContractAddress, ErrInvalidHeader, ErrInvalidCommitmentPath, ErrInvalidMaxClockDrift,
	)
	clienttypes.RegisterErrorClass(clienttypes.Temporal, ErrHeaderFromFuture)
	clienttypes.RegisterErrorClass(clienttypes.Cryptographic, ErrInvalidL2HeaderProof)
	clienttypes.RegisterErrorClass(clienttypes.Consistency, ErrInvalidChainID, ErrStorageRootMismatch)
}
