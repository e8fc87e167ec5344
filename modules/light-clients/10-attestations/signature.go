package attestations

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureLength is the expected length of an ECDSA signature (r||s||v)
	SignatureLength = crypto.SignatureLength
	// recoveryIDIndex is the byte position of the recovery ID (v) in the signature
	recoveryIDIndex = crypto.RecoveryIDOffset
)

// verifySignatures checks that signatures over digest were produced by at least
// MinRequiredSigs distinct attestors. Any signature from an unknown signer rejects the set.
func (cs ClientState) verifySignatures(digest [32]byte, signatures [][]byte) error {
	if len(signatures) == 0 {
		return errorsmod.Wrap(ErrInvalidSignature, "signatures cannot be empty")
	}

	attestorSet := make(map[common.Address]bool, len(cs.AttestorAddresses))
	for _, addr := range cs.AttestorAddresses {
		attestorSet[addr] = true
	}

	seenSigners := make(map[common.Address]bool, len(signatures))

	for i, sig := range signatures {
		if len(sig) != SignatureLength {
			return errorsmod.Wrapf(ErrInvalidSignature, "signature %d has invalid length: expected %d, got %d", i, SignatureLength, len(sig))
		}

		recoveredPubKey, err := crypto.SigToPub(digest[:], normalizeSignature(sig))
		if err != nil {
			return errorsmod.Wrapf(ErrInvalidSignature, "failed to recover public key from signature %d: %v", i, err)
		}

		recoveredAddr := crypto.PubkeyToAddress(*recoveredPubKey)

		if seenSigners[recoveredAddr] {
			return errorsmod.Wrapf(ErrDuplicateSigner, "duplicate signer: %s", recoveredAddr.Hex())
		}
		seenSigners[recoveredAddr] = true

		if !attestorSet[recoveredAddr] {
			return errorsmod.Wrapf(ErrUnknownSigner, "signer %s is not in attestor set", recoveredAddr.Hex())
		}
	}

	if uint64(len(signatures)) < cs.MinRequiredSigs {
		return errorsmod.Wrapf(ErrInvalidQuorum, "quorum not met: required %d, got %d", cs.MinRequiredSigs, len(signatures))
	}

	return nil
}

// normalizeSignature converts the recovery ID (v) from the Ethereum format (27/28) to the
// raw format (0/1) expected by crypto.SigToPub.
func normalizeSignature(sig []byte) []byte {
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)

	switch normalized[recoveryIDIndex] {
	case 27:
		normalized[recoveryIDIndex] = 0
	case 28:
		normalized[recoveryIDIndex] = 1
	}

	return normalized
}
