package ibctesting

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtprotoversion "github.com/cometbft/cometbft/proto/tendermint/version"
	cmttypes "github.com/cometbft/cometbft/types"
	cmtversion "github.com/cometbft/cometbft/version"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
)

// TendermintValidators is a validator set together with the private keys of its members,
// indexed by validator address.
type TendermintValidators struct {
	ValSet  *cmttypes.ValidatorSet
	Signers map[string]crypto.PrivKey
}

// NewTendermintValidators deterministically generates one ed25519 validator per power.
// Different seeds produce disjoint validator sets.
func NewTendermintValidators(seed string, powers ...int64) TendermintValidators {
	validators := make([]*cmttypes.Validator, 0, len(powers))
	signers := make(map[string]crypto.PrivKey, len(powers))

	for i, power := range powers {
		privKey := ed25519.GenPrivKeyFromSecret([]byte(fmt.Sprintf("%s/%d", seed, i)))
		validator := cmttypes.NewValidator(privKey.PubKey(), power)
		validators = append(validators, validator)
		signers[string(validator.Address)] = privKey
	}

	return TendermintValidators{
		ValSet:  cmttypes.NewValidatorSet(validators),
		Signers: signers,
	}
}

// Subset returns the signers of the validators at the provided indices of the sorted set.
func (v TendermintValidators) Subset(indices ...int) map[string]crypto.PrivKey {
	signers := make(map[string]crypto.PrivKey, len(indices))
	for _, idx := range indices {
		address := v.ValSet.Validators[idx].Address
		signers[string(address)] = v.Signers[string(address)]
	}
	return signers
}

// TMHeaderConfig holds the fields of a tendermint header which vary between tests.
type TMHeaderConfig struct {
	ChainID       string
	Height        int64
	Time          time.Time
	AppHash       []byte
	TrustedHeight clienttypes.Height

	Vals        TendermintValidators
	NextVals    *cmttypes.ValidatorSet
	TrustedVals *cmttypes.ValidatorSet

	// Signers defaults to every member of Vals.
	Signers map[string]crypto.PrivKey
}

// CreateTMClientHeader creates a TM header to update the TM client. Args are passed in to allow
// caller flexibility to use params that differ from the chain.
func CreateTMClientHeader(tb testing.TB, cfg TMHeaderConfig) *ibctm.Header {
	tb.Helper()

	valSet := cfg.Vals.ValSet
	require.NotNil(tb, valSet)

	nextVals := cfg.NextVals
	if nextVals == nil {
		nextVals = valSet
	}
	signers := cfg.Signers
	if signers == nil {
		signers = cfg.Vals.Signers
	}

	tmHeader := cmttypes.Header{
		Version:            cmtprotoversion.Consensus{Block: cmtversion.BlockProtocol, App: 2},
		ChainID:            cfg.ChainID,
		Height:             cfg.Height,
		Time:               cfg.Time,
		LastBlockID:        MakeBlockID(make([]byte, tmhash.Size), 10_000, make([]byte, tmhash.Size)),
		LastCommitHash:     tmhash.Sum([]byte("last_commit_hash")),
		DataHash:           tmhash.Sum([]byte("data_hash")),
		ValidatorsHash:     valSet.Hash(),
		NextValidatorsHash: nextVals.Hash(),
		ConsensusHash:      tmhash.Sum([]byte("consensus_hash")),
		AppHash:            cfg.AppHash,
		LastResultsHash:    tmhash.Sum([]byte("last_results_hash")),
		EvidenceHash:       tmhash.Sum([]byte("evidence_hash")),
		ProposerAddress:    valSet.GetProposer().Address,
	}

	blockID := MakeBlockID(tmHeader.Hash(), 3, tmhash.Sum([]byte("part_set")))
	commit := MakeCommit(tb, cfg.ChainID, cfg.Height, blockID, cfg.Time, valSet, signers)

	// The trusted fields may be nil. They may be filled before relaying messages to a client.
	// The relayer is responsible for querying client and injecting appropriate trusted fields.
	return &ibctm.Header{
		SignedHeader: &cmttypes.SignedHeader{
			Header: &tmHeader,
			Commit: commit,
		},
		ValidatorSet:      valSet,
		TrustedHeight:     cfg.TrustedHeight,
		TrustedValidators: cfg.TrustedVals,
	}
}

// MakeCommit creates a commit of valSet for blockID in which the members present in signers
// sign and the others are absent.
func MakeCommit(
	tb testing.TB, chainID string, height int64, blockID cmttypes.BlockID, timestamp time.Time,
	valSet *cmttypes.ValidatorSet, signers map[string]crypto.PrivKey,
) *cmttypes.Commit {
	tb.Helper()

	commitSigs := make([]cmttypes.CommitSig, valSet.Size())
	for i, val := range valSet.Validators {
		if _, ok := signers[string(val.Address)]; !ok {
			commitSigs[i] = cmttypes.NewCommitSigAbsent()
			continue
		}

		commitSigs[i] = cmttypes.CommitSig{
			BlockIDFlag:      cmttypes.BlockIDFlagCommit,
			ValidatorAddress: val.Address,
			Timestamp:        timestamp,
		}
	}

	commit := &cmttypes.Commit{
		Height:     height,
		Round:      1,
		BlockID:    blockID,
		Signatures: commitSigs,
	}

	for i, commitSig := range commit.Signatures {
		if commitSig.BlockIDFlag != cmttypes.BlockIDFlagCommit {
			continue
		}

		signature, err := signers[string(commitSig.ValidatorAddress)].Sign(commit.VoteSignBytes(chainID, int32(i)))
		require.NoError(tb, err)
		commit.Signatures[i].Signature = signature
	}

	return commit
}

// MakeBlockID copied unimported test functions from tmtypes to use them here
func MakeBlockID(hash []byte, partSetSize uint32, partSetHash []byte) cmttypes.BlockID {
	return cmttypes.BlockID{
		Hash: hash,
		PartSetHeader: cmttypes.PartSetHeader{
			Total: partSetSize,
			Hash:  partSetHash,
		},
	}
}
