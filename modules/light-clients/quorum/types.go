package quorum

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	cmttypes "github.com/cometbft/cometbft/types"
)

// BlockIDFlag indicates which block a validator voted for. The values match the
// CometBFT encoding.
type BlockIDFlag uint8

const (
	// BlockIDFlagAbsent means no vote was received from the validator.
	BlockIDFlagAbsent BlockIDFlag = BlockIDFlag(cmttypes.BlockIDFlagAbsent)
	// BlockIDFlagCommit means the validator voted for the committed block.
	BlockIDFlagCommit BlockIDFlag = BlockIDFlag(cmttypes.BlockIDFlagCommit)
	// BlockIDFlagNil means the validator voted for nil.
	BlockIDFlagNil BlockIDFlag = BlockIDFlag(cmttypes.BlockIDFlagNil)
)

// Key types accepted by the strategies.
const (
	KeyTypeEd25519   = "ed25519"
	KeyTypeSecp256k1 = "secp256k1"
	KeyTypeBLS12381  = "bls12_381"
)

// CommitSig is one entry of a commit, one per validator of the signing set.
type CommitSig struct {
	BlockIDFlag      BlockIDFlag
	ValidatorAddress []byte
	// Timestamp is the unix time in nanoseconds claimed by the validator.
	Timestamp uint64
	Signature []byte
}

// NewCommitSigFromComet converts a CometBFT commit signature.
func NewCommitSigFromComet(commitSig cmttypes.CommitSig) CommitSig {
	var timestamp uint64
	if !commitSig.Timestamp.IsZero() && commitSig.Timestamp.UnixNano() > 0 {
		timestamp = uint64(commitSig.Timestamp.UnixNano())
	}

	return CommitSig{
		BlockIDFlag:      BlockIDFlag(commitSig.BlockIDFlag),
		ValidatorAddress: commitSig.ValidatorAddress,
		Timestamp:        timestamp,
		Signature:        commitSig.Signature,
	}
}

// Vote is a commit entry which carries a signature.
type Vote struct {
	ValidatorAddress []byte
	Timestamp        uint64
	Signature        []byte
}

// Validator is a member of the signing set.
type Validator struct {
	Address     []byte
	KeyType     string
	PubKey      []byte
	VotingPower uint64
}

// Strategy verifies the signatures of one commit.
type Strategy interface {
	// FilterCommit returns the vote carried by commitSig, or false when the entry holds no
	// vote for the committed block.
	FilterCommit(commitSig CommitSig) (Vote, bool)

	// ProcessSignature records the signature over message produced by validator.
	ProcessSignature(validator Validator, message, signature []byte) error

	// Finish performs the cryptographic check over every processed signature.
	Finish() error
}

// Fraction is a threshold expressed as Numerator/Denominator of the total voting power.
type Fraction struct {
	Numerator   uint64
	Denominator uint64
}

// TwoThirds is the default quorum threshold.
var TwoThirds = Fraction{Numerator: 2, Denominator: 3}

// Validate checks that the fraction lies in (0, 1].
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errorsmod.Wrap(ErrInvalidThreshold, "denominator cannot be zero")
	}
	if f.Numerator == 0 || f.Numerator > f.Denominator {
		return errorsmod.Wrapf(ErrInvalidThreshold, "threshold must be within (0, 1], got %d/%d", f.Numerator, f.Denominator)
	}

	return nil
}

// RequiredPower returns ⌈total·Numerator/Denominator⌉.
func (f Fraction) RequiredPower(total sdkmath.Int) sdkmath.Int {
	numerator := total.Mul(sdkmath.NewIntFromUint64(f.Numerator))
	denominator := sdkmath.NewIntFromUint64(f.Denominator)

	return numerator.Add(denominator).SubRaw(1).Quo(denominator)
}

// MeetsThreshold reports whether signed reaches ⌈total·Numerator/Denominator⌉. Reaching
// the threshold exactly is sufficient.
func (f Fraction) MeetsThreshold(signed, total sdkmath.Int) bool {
	return signed.GTE(f.RequiredPower(total))
}

// filterCommit keeps the entries voting for the committed block.
func filterCommit(commitSig CommitSig) (Vote, bool) {
	if commitSig.BlockIDFlag != BlockIDFlagCommit || len(commitSig.Signature) == 0 {
		return Vote{}, false
	}

	return Vote{
		ValidatorAddress: commitSig.ValidatorAddress,
		Timestamp:        commitSig.Timestamp,
		Signature:        commitSig.Signature,
	}, true
}
