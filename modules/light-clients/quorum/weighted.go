package quorum

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/crypto/secp256k1"
)

var _ Strategy = (*WeightedVoteQuorum)(nil)

type weightedVote struct {
	pubKey    crypto.PubKey
	power     uint64
	message   []byte
	signature []byte
}

// WeightedVoteQuorum sums the voting power of the validators whose individual signature
// verifies and requires it to reach the threshold of the total voting power.
type WeightedVoteQuorum struct {
	totalPower sdkmath.Int
	threshold  Fraction

	seen        map[string]bool
	votes       []weightedVote
	signedPower sdkmath.Int
	finished    bool
}

// NewWeightedVoteQuorum returns a strategy requiring threshold of totalPower.
func NewWeightedVoteQuorum(totalPower uint64, threshold Fraction) (*WeightedVoteQuorum, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}
	if totalPower == 0 {
		return nil, errorsmod.Wrap(ErrInvalidVotingPower, "total voting power cannot be zero")
	}

	return &WeightedVoteQuorum{
		totalPower:  sdkmath.NewIntFromUint64(totalPower),
		threshold:   threshold,
		seen:        make(map[string]bool),
		signedPower: sdkmath.ZeroInt(),
	}, nil
}

// FilterCommit implements Strategy. Absent and nil votes are discarded.
func (*WeightedVoteQuorum) FilterCommit(commitSig CommitSig) (Vote, bool) {
	return filterCommit(commitSig)
}

// ProcessSignature implements Strategy. Signatures are only checked by Finish.
func (q *WeightedVoteQuorum) ProcessSignature(validator Validator, message, signature []byte) error {
	if q.finished {
		return ErrStrategyFinished
	}
	if validator.VotingPower == 0 {
		return errorsmod.Wrapf(ErrInvalidVotingPower, "validator %X has no voting power", validator.Address)
	}

	pubKey, err := weightedPubKey(validator)
	if err != nil {
		return err
	}

	id := string(pubKey.Address())
	if q.seen[id] {
		return errorsmod.Wrapf(ErrDuplicateValidator, "validator %X signed twice", pubKey.Address())
	}
	q.seen[id] = true

	q.votes = append(q.votes, weightedVote{
		pubKey:    pubKey,
		power:     validator.VotingPower,
		message:   message,
		signature: signature,
	})

	return nil
}

// Finish implements Strategy.
func (q *WeightedVoteQuorum) Finish() error {
	if q.finished {
		return ErrStrategyFinished
	}
	q.finished = true

	for _, vote := range q.votes {
		if vote.pubKey.VerifySignature(vote.message, vote.signature) {
			q.signedPower = q.signedPower.Add(sdkmath.NewIntFromUint64(vote.power))
		}
	}

	if !q.threshold.MeetsThreshold(q.signedPower, q.totalPower) {
		return errorsmod.Wrapf(ErrInsufficientVotingPower, "signed %s, required %s of %s",
			q.signedPower, q.threshold.RequiredPower(q.totalPower), q.totalPower)
	}

	return nil
}

// SignedPower returns the voting power of the verified signatures. It is only meaningful
// after Finish.
func (q *WeightedVoteQuorum) SignedPower() sdkmath.Int {
	return q.signedPower
}

func weightedPubKey(validator Validator) (crypto.PubKey, error) {
	switch validator.KeyType {
	case KeyTypeEd25519:
		if len(validator.PubKey) != ed25519.PubKeySize {
			return nil, errorsmod.Wrapf(ErrInvalidPubKey, "ed25519 public key must be %d bytes, got %d", ed25519.PubKeySize, len(validator.PubKey))
		}
		return ed25519.PubKey(validator.PubKey), nil
	case KeyTypeSecp256k1:
		if len(validator.PubKey) != secp256k1.PubKeySize {
			return nil, errorsmod.Wrapf(ErrInvalidPubKey, "secp256k1 public key must be %d bytes, got %d", secp256k1.PubKeySize, len(validator.PubKey))
		}
		return secp256k1.PubKey(validator.PubKey), nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidPubKeyType, "unsupported key type %q", validator.KeyType)
	}
}
