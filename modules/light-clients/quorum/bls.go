package quorum

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

const (
	// BLSPubKeySize is the size of a compressed G1 public key.
	BLSPubKeySize = bls12381.SizeOfG1AffineCompressed
	// BLSSignatureSize is the size of a compressed G2 signature.
	BLSSignatureSize = bls12381.SizeOfG2AffineCompressed
)

// DSTEthereum is the domain separation tag of the proof of possession BLS scheme used by
// the beacon chain.
var DSTEthereum = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

var negG1Generator bls12381.G1Affine

func init() {
	_, _, g1, _ := bls12381.Generators()
	negG1Generator.Neg(&g1)
}

var _ Strategy = (*AggregateBLSQuorum)(nil)

// AggregateBLSQuorum verifies a single aggregate signature produced by every participant
// over one message. Message and signature are assigned at most once: a second, different
// value is rejected.
type AggregateBLSQuorum struct {
	dst []byte

	message   []byte
	signature []byte
	pubKeys   []bls12381.G1Affine

	seen        map[string]bool
	signedPower sdkmath.Int
	finished    bool
}

// NewAggregateBLSQuorum returns a strategy hashing messages to G2 with dst.
func NewAggregateBLSQuorum(dst []byte) *AggregateBLSQuorum {
	return &AggregateBLSQuorum{
		dst:         dst,
		seen:        make(map[string]bool),
		signedPower: sdkmath.ZeroInt(),
	}
}

// FilterCommit implements Strategy. Absent and nil votes are discarded.
func (*AggregateBLSQuorum) FilterCommit(commitSig CommitSig) (Vote, bool) {
	return filterCommit(commitSig)
}

// ProcessSignature implements Strategy. The public key of validator is collected for
// aggregation.
func (q *AggregateBLSQuorum) ProcessSignature(validator Validator, message, signature []byte) error {
	if q.finished {
		return ErrStrategyFinished
	}
	if validator.KeyType != KeyTypeBLS12381 {
		return errorsmod.Wrapf(ErrInvalidPubKeyType, "expected %s key, got %q", KeyTypeBLS12381, validator.KeyType)
	}

	if len(message) != 0 {
		if q.message != nil && !bytes.Equal(q.message, message) {
			return errorsmod.Wrap(ErrMultipleMessagesProvided, "all participants must sign the same message")
		}
		q.message = bytes.Clone(message)
	}

	if len(signature) != 0 {
		if q.signature != nil && !bytes.Equal(q.signature, signature) {
			return errorsmod.Wrap(ErrMultipleSignaturesProvided, "a single aggregate signature is expected")
		}
		q.signature = bytes.Clone(signature)
	}

	if q.seen[string(validator.PubKey)] {
		return errorsmod.Wrapf(ErrDuplicateValidator, "public key %X collected twice", validator.PubKey)
	}

	pubKey, err := decodePubKey(validator.PubKey)
	if err != nil {
		return err
	}

	q.seen[string(validator.PubKey)] = true
	q.pubKeys = append(q.pubKeys, pubKey)
	q.signedPower = q.signedPower.Add(sdkmath.NewIntFromUint64(validator.VotingPower))

	return nil
}

// Finish implements Strategy. It checks e(G1, signature) == e(aggregate public key, H(message)).
func (q *AggregateBLSQuorum) Finish() error {
	if q.finished {
		return ErrStrategyFinished
	}
	q.finished = true

	if q.message == nil {
		return ErrMessageNotSet
	}
	if q.signature == nil {
		return ErrSignatureNotSet
	}
	if len(q.pubKeys) == 0 {
		return ErrNoPublicKeys
	}

	aggregate := AggregatePubKeys(q.pubKeys)
	if aggregate.IsInfinity() {
		return errorsmod.Wrap(ErrSignatureVerificationFailed, "aggregate public key is the point at infinity")
	}

	var signature bls12381.G2Affine
	if _, err := signature.SetBytes(q.signature); err != nil {
		return errorsmod.Wrapf(ErrSignatureVerificationFailed, "invalid signature encoding: %s", err)
	}

	hashed, err := bls12381.HashToG2(q.message, q.dst)
	if err != nil {
		return errorsmod.Wrapf(ErrSignatureVerificationFailed, "cannot hash message to curve: %s", err)
	}

	// e(-G1, sig) · e(pk, H(m)) == 1
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{negG1Generator, aggregate},
		[]bls12381.G2Affine{signature, hashed},
	)
	if err != nil {
		return errorsmod.Wrapf(ErrSignatureVerificationFailed, "pairing check: %s", err)
	}
	if !ok {
		return ErrSignatureVerificationFailed
	}

	return nil
}

// SignedPower returns the voting power of the collected public keys.
func (q *AggregateBLSQuorum) SignedPower() sdkmath.Int {
	return q.signedPower
}

// AggregatePubKeys sums the provided public keys.
func AggregatePubKeys(pubKeys []bls12381.G1Affine) bls12381.G1Affine {
	var acc bls12381.G1Jac
	for i := range pubKeys {
		acc.AddMixed(&pubKeys[i])
	}

	var aggregate bls12381.G1Affine
	aggregate.FromJacobian(&acc)
	return aggregate
}

// AggregatePubKeyBytes decodes and sums compressed public keys, returning the compressed
// aggregate.
func AggregatePubKeyBytes(pubKeys [][]byte) ([]byte, error) {
	decoded := make([]bls12381.G1Affine, len(pubKeys))
	for i, bz := range pubKeys {
		pubKey, err := decodePubKey(bz)
		if err != nil {
			return nil, err
		}
		decoded[i] = pubKey
	}

	aggregate := AggregatePubKeys(decoded)
	bz := aggregate.Bytes()
	return bz[:], nil
}

func decodePubKey(bz []byte) (bls12381.G1Affine, error) {
	var pubKey bls12381.G1Affine
	if len(bz) != BLSPubKeySize {
		return pubKey, errorsmod.Wrapf(ErrInvalidPubKey, "BLS public key must be %d bytes, got %d", BLSPubKeySize, len(bz))
	}

	// SetBytes checks that the point is on the curve and in the prime order subgroup
	if _, err := pubKey.SetBytes(bz); err != nil {
		return pubKey, errorsmod.Wrapf(ErrInvalidPubKey, "%X: %s", bz, err)
	}
	if pubKey.IsInfinity() {
		return pubKey, errorsmod.Wrap(ErrInvalidPubKey, "public key is the point at infinity")
	}

	return pubKey, nil
}
