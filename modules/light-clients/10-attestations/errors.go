package attestations

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

var (
	ErrInvalidAttestation     = errorsmod.Register(ModuleName, 2, "invalid attestation")
	ErrInvalidAttestationData = errorsmod.Register(ModuleName, 3, "invalid attestation data")
	ErrInvalidSignature       = errorsmod.Register(ModuleName, 4, "invalid signature")
	ErrDuplicateSigner        = errorsmod.Register(ModuleName, 5, "duplicate signer")
	ErrUnknownSigner          = errorsmod.Register(ModuleName, 6, "signer is not an attestor")
	ErrInvalidQuorum          = errorsmod.Register(ModuleName, 7, "attestor quorum not met")
	ErrAttestationExists      = errorsmod.Register(ModuleName, 8, "attestation already stored")
	ErrAttestationNotFound    = errorsmod.Register(ModuleName, 9, "attestation not found")
	ErrAttestationMismatch    = errorsmod.Register(ModuleName, 10, "attested value does not match the claim")
	ErrInvalidPath            = errorsmod.Register(ModuleName, 11, "invalid path")
	ErrInvalidAttestors       = errorsmod.Register(ModuleName, 12, "invalid attestor set")
)

func init() {
	clienttypes.RegisterErrorClass(clienttypes.Structural,
		ErrInvalidAttestation, ErrInvalidAttestationData, ErrInvalidSignature, ErrAttestationNotFound,
		ErrInvalidPath, ErrInvalidAttestors,
	)
	clienttypes.RegisterErrorClass(clienttypes.Cryptographic, ErrDuplicateSigner, ErrUnknownSigner, ErrInvalidQuorum)
	clienttypes.RegisterErrorClass(clienttypes.Consistency, ErrAttestationExists, ErrAttestationMismatch)
}
