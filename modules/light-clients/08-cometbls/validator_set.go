package cometbls

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/cometbft/cometbft/crypto/merkle"
	"github.com/cometbft/cometbft/crypto/tmhash"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// Validator is a BLS12-381 validator. PubKey is a compressed G1 point.
type Validator struct {
	PubKey      []byte
	VotingPower uint64
}

// Address returns the truncated hash of the public key.
func (v Validator) Address() []byte {
	return tmhash.SumTruncated(v.PubKey)
}

func (v Validator) quorumValidator() quorum.Validator {
	return quorum.Validator{
		Address:     v.Address(),
		KeyType:     quorum.KeyTypeBLS12381,
		PubKey:      v.PubKey,
		VotingPower: v.VotingPower,
	}
}

// ValidatorSet is an ordered list of validators. The position of a validator is the index
// of its entry in a commit.
type ValidatorSet struct {
	Validators []Validator
}

// NewValidatorSet returns the set of the provided validators in the provided order.
func NewValidatorSet(validators ...Validator) *ValidatorSet {
	return &ValidatorSet{Validators: validators}
}

// Size returns the number of validators.
func (vals *ValidatorSet) Size() int {
	if vals == nil {
		return 0
	}
	return len(vals.Validators)
}

// TotalVotingPower returns the sum of the voting powers.
func (vals *ValidatorSet) TotalVotingPower() uint64 {
	var total uint64
	for _, val := range vals.Validators {
		total += val.VotingPower
	}
	return total
}

// Hash returns the merkle root of the encoded validators.
func (vals *ValidatorSet) Hash() []byte {
	leaves := make([][]byte, len(vals.Validators))
	for i, val := range vals.Validators {
		bz, err := rlp.EncodeToBytes(val)
		if err != nil {
			panic(err)
		}
		leaves[i] = bz
	}
	return merkle.HashFromByteSlices(leaves)
}

// ValidateBasic checks that the set is not empty, that every key is well sized, unique
// and carries voting power, and that the total power does not overflow.
func (vals *ValidatorSet) ValidateBasic() error {
	if vals.Size() == 0 {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "validator set cannot be empty")
	}

	seen := make(map[string]bool, len(vals.Validators))
	var total uint64
	for i, val := range vals.Validators {
		if len(val.PubKey) != quorum.BLSPubKeySize {
			return errorsmod.Wrapf(ErrInvalidValidatorSet, "validator %d: public key must be %d bytes, got %d", i, quorum.BLSPubKeySize, len(val.PubKey))
		}
		if val.VotingPower == 0 {
			return errorsmod.Wrapf(ErrInvalidValidatorSet, "validator %d has no voting power", i)
		}
		if seen[string(val.PubKey)] {
			return errorsmod.Wrapf(ErrInvalidValidatorSet, "validator %d: duplicate public key %X", i, val.PubKey)
		}
		seen[string(val.PubKey)] = true

		if total > math.MaxInt64-val.VotingPower {
			return errorsmod.Wrap(ErrInvalidValidatorSet, "total voting power overflows")
		}
		total += val.VotingPower
	}

	return nil
}

// GetByIndex returns the validator at idx.
func (vals *ValidatorSet) GetByIndex(idx int) (Validator, bool) {
	if idx < 0 || idx >= vals.Size() {
		return Validator{}, false
	}
	return vals.Validators[idx], true
}
