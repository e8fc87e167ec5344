package tendermint

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"

	cmttypes "github.com/cometbft/cometbft/types"

	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// verifyCommitLight checks that vals committed to the block of commit with at least two
// thirds of their voting power. Signatures are matched to validators by index.
func verifyCommitLight(chainID string, vals *cmttypes.ValidatorSet, commit *cmttypes.Commit) error {
	if vals == nil || vals.IsNilOrEmpty() {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "validator set cannot be empty")
	}
	if commit == nil {
		return errorsmod.Wrap(ErrInvalidCommit, "commit cannot be nil")
	}
	if vals.Size() != len(commit.Signatures) {
		return errorsmod.Wrapf(ErrInvalidCommit, "validator set size (%d) does not match commit size (%d)", vals.Size(), len(commit.Signatures))
	}

	strategy, err := quorum.NewWeightedVoteQuorum(uint64(vals.TotalVotingPower()), quorum.TwoThirds)
	if err != nil {
		return err
	}

	for idx, commitSig := range commit.Signatures {
		vote, ok := strategy.FilterCommit(quorum.NewCommitSigFromComet(commitSig))
		if !ok {
			continue
		}

		val := vals.Validators[idx]
		if !bytes.Equal(val.Address, vote.ValidatorAddress) {
			return errorsmod.Wrapf(ErrInvalidCommit, "wrong validator address at index %d, expected %X, got %X", idx, val.Address, vote.ValidatorAddress)
		}

		if err := strategy.ProcessSignature(toQuorumValidator(val), commit.VoteSignBytes(chainID, int32(idx)), vote.Signature); err != nil {
			return err
		}
	}

	return strategy.Finish()
}

// verifyCommitLightTrusting checks that the members of trustedVals which signed commit hold at
// least trustLevel of the trusted voting power. Signatures are matched to validators by address.
func verifyCommitLightTrusting(chainID string, trustedVals *cmttypes.ValidatorSet, commit *cmttypes.Commit, trustLevel Fraction) error {
	if trustedVals == nil || trustedVals.IsNilOrEmpty() {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "trusted validator set cannot be empty")
	}
	if commit == nil {
		return errorsmod.Wrap(ErrInvalidCommit, "commit cannot be nil")
	}

	strategy, err := quorum.NewWeightedVoteQuorum(uint64(trustedVals.TotalVotingPower()), trustLevel.ToQuorum())
	if err != nil {
		return err
	}

	for idx, commitSig := range commit.Signatures {
		vote, ok := strategy.FilterCommit(quorum.NewCommitSigFromComet(commitSig))
		if !ok {
			continue
		}

		_, val := trustedVals.GetByAddress(vote.ValidatorAddress)
		if val == nil {
			continue
		}

		if err := strategy.ProcessSignature(toQuorumValidator(val), commit.VoteSignBytes(chainID, int32(idx)), vote.Signature); err != nil {
			return err
		}
	}

	return strategy.Finish()
}

func toQuorumValidator(val *cmttypes.Validator) quorum.Validator {
	return quorum.Validator{
		Address:     val.Address,
		KeyType:     val.PubKey.Type(),
		PubKey:      val.PubKey.Bytes(),
		VotingPower: uint64(val.VotingPower),
	}
}
