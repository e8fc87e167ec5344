package ibctesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cometbft/cometbft/crypto/tmhash"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	cometbls "github.com/cosmos/ibc-lightclients/modules/light-clients/08-cometbls"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// CometBLSValidators is a cometbls validator set together with the keys of its members,
// in set order.
type CometBLSValidators struct {
	ValSet *cometbls.ValidatorSet
	Keys   []*BLSKey
}

// NewCometBLSValidators deterministically generates one BLS validator per power. Different
// seeds produce disjoint validator sets.
func NewCometBLSValidators(seed uint64, powers ...uint64) CometBLSValidators {
	validators := make([]cometbls.Validator, len(powers))
	keys := make([]*BLSKey, len(powers))

	for i, power := range powers {
		keys[i] = NewBLSKey(seed<<16 | uint64(i))
		validators[i] = cometbls.Validator{
			PubKey:      keys[i].PubKeyBytes(),
			VotingPower: power,
		}
	}

	return CometBLSValidators{
		ValSet: cometbls.NewValidatorSet(validators...),
		Keys:   keys,
	}
}

// CometBLSHeaderConfig holds the fields of a cometbls header which vary between tests.
type CometBLSHeaderConfig struct {
	ChainID       string
	Height        uint64
	Time          time.Time
	AppHash       []byte
	TrustedHeight clienttypes.Height

	Vals        CometBLSValidators
	NextVals    *cometbls.ValidatorSet
	TrustedVals *cometbls.ValidatorSet

	// Signers lists the indices of the signing members of Vals, defaults to all of them.
	Signers []int

	Prover *Groth16Prover
}

// CreateCometBLSHeader creates a header whose commit carries the aggregate signature of the
// configured signers and whose proof attests the validator set transition.
func CreateCometBLSHeader(tb testing.TB, cfg CometBLSHeaderConfig) *cometbls.Header {
	tb.Helper()

	valSet := cfg.Vals.ValSet
	require.NotNil(tb, valSet)
	require.NotNil(tb, cfg.Prover)

	nextVals := cfg.NextVals
	if nextVals == nil {
		nextVals = valSet
	}
	trustedVals := cfg.TrustedVals
	if trustedVals == nil {
		trustedVals = valSet
	}
	signers := cfg.Signers
	if signers == nil {
		signers = make([]int, valSet.Size())
		for i := range signers {
			signers[i] = i
		}
	}

	lightHeader := cometbls.LightHeader{
		ChainId:            cfg.ChainID,
		Height:             cfg.Height,
		Time:               uint64(cfg.Time.UnixNano()),
		ValidatorsHash:     valSet.Hash(),
		NextValidatorsHash: nextVals.Hash(),
		AppHash:            cfg.AppHash,
	}
	if lightHeader.AppHash == nil {
		lightHeader.AppHash = tmhash.Sum([]byte("app_hash"))
	}

	blockHash := lightHeader.Hash()
	commit := MakeCometBLSCommit(cfg.ChainID, cfg.Height, blockHash, cfg.Vals, signers)

	return &cometbls.Header{
		SignedHeader: cometbls.SignedHeader{
			Header: lightHeader,
			Commit: commit,
		},
		TrustedHeight:       cfg.TrustedHeight,
		TrustedValidators:   cloneValidatorSet(trustedVals),
		UntrustedValidators: cloneValidatorSet(valSet),
		ZeroKnowledgeProof: cfg.Prover.Prove(
			cometbls.ZKPublicInputs(trustedVals.Hash(), lightHeader.ValidatorsHash, blockHash),
		),
	}
}

// MakeCometBLSCommit creates a commit of vals for blockHash in which the members at the
// signers indices sign and the others are absent.
func MakeCometBLSCommit(chainID string, height uint64, blockHash []byte, vals CometBLSValidators, signers []int) cometbls.Commit {
	const round = 1

	signing := make(map[int]bool, len(signers))
	keys := make([]*BLSKey, 0, len(signers))
	for _, idx := range signers {
		signing[idx] = true
		keys = append(keys, vals.Keys[idx])
	}

	var aggregate []byte
	if len(keys) > 0 {
		aggregate = AggregateSign(keys, cometbls.VoteSignBytes(chainID, height, round, blockHash), cometbls.SignatureDST)
	}

	commitSigs := make([]cometbls.CommitSig, vals.ValSet.Size())
	for i, val := range vals.ValSet.Validators {
		if !signing[i] {
			commitSigs[i] = cometbls.CommitSig{BlockIDFlag: uint8(quorum.BlockIDFlagAbsent)}
			continue
		}

		commitSigs[i] = cometbls.CommitSig{
			BlockIDFlag:      uint8(quorum.BlockIDFlagCommit),
			ValidatorAddress: val.Address(),
			Signature:        aggregate,
		}
	}

	return cometbls.Commit{
		Height:     height,
		Round:      round,
		BlockHash:  blockHash,
		Signatures: commitSigs,
	}
}

func cloneValidatorSet(vals *cometbls.ValidatorSet) cometbls.ValidatorSet {
	return cometbls.ValidatorSet{Validators: append([]cometbls.Validator(nil), vals.Validators...)}
}
