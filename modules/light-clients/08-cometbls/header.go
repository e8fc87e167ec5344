package cometbls

import (
	"bytes"
	"math"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/cometbft/cometbft/crypto/merkle"
	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/cometbft/cometbft/libs/protoio"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"

	"github.com/cosmos/gogoproto/proto"
	gogotypes "github.com/cosmos/gogoproto/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// SignatureDST is the domain separation tag validators hash votes to G2 with.
var SignatureDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_")

var _ exported.ClientMessage = (*Header)(nil)

// LightHeader holds the fields of a block header the light client tracks. Time is in
// unix nanoseconds.
type LightHeader struct {
	ChainId            string //nolint:revive
	Height             uint64
	Time               uint64
	ValidatorsHash     []byte
	NextValidatorsHash []byte
	AppHash            []byte
}

// Hash returns the merkle root of the protobuf encoded header fields.
func (h LightHeader) Hash() []byte {
	return merkle.HashFromByteSlices([][]byte{
		cdcEncode(&gogotypes.StringValue{Value: h.ChainId}),
		cdcEncode(&gogotypes.UInt64Value{Value: h.Height}),
		cdcEncode(&gogotypes.UInt64Value{Value: h.Time}),
		cdcEncode(&gogotypes.BytesValue{Value: h.ValidatorsHash}),
		cdcEncode(&gogotypes.BytesValue{Value: h.NextValidatorsHash}),
		cdcEncode(&gogotypes.BytesValue{Value: h.AppHash}),
	})
}

func cdcEncode(msg proto.Message) []byte {
	bz, err := proto.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return bz
}

// CommitSig is the vote of the validator at the same index of the signing set. Committing
// validators all carry the aggregate signature of the commit.
type CommitSig struct {
	BlockIDFlag      uint8
	ValidatorAddress []byte
	Signature        []byte
}

// Commit is the aggregate precommit for the block of BlockHash.
type Commit struct {
	Height     uint64
	Round      uint32
	BlockHash  []byte
	Signatures []CommitSig
}

// VoteSignBytes returns the canonical precommit for the block of blockHash. The vote carries
// no timestamp so that every validator signs the same message.
func VoteSignBytes(chainID string, height uint64, round uint32, blockHash []byte) []byte {
	vote := cmtproto.CanonicalVote{
		Type:    cmtproto.PrecommitType,
		Height:  int64(height),
		Round:   int64(round),
		BlockID: &cmtproto.CanonicalBlockID{Hash: blockHash},
		ChainID: chainID,
	}

	bz, err := protoio.MarshalDelimited(&vote)
	if err != nil {
		panic(err)
	}
	return bz
}

// SignedHeader is a header together with the commit of its block.
type SignedHeader struct {
	Header LightHeader
	Commit Commit
}

// Header is the client message updating a cometbls client. TrustedValidators must hash to
// the next validators hash of the consensus state at TrustedHeight.
type Header struct {
	SignedHeader        SignedHeader
	TrustedHeight       clienttypes.Height
	TrustedValidators   ValidatorSet
	UntrustedValidators ValidatorSet
	ZeroKnowledgeProof  []byte
}

// ClientType is cometbls.
func (Header) ClientType() string {
	return exported.CometBLS
}

// GetHeight returns the height of the header, the revision number is parsed from the chain-id.
func (h Header) GetHeight() clienttypes.Height {
	revision := clienttypes.ParseChainID(h.SignedHeader.Header.ChainId)
	return clienttypes.NewHeight(revision, h.SignedHeader.Header.Height)
}

// GetTime returns the block time of the header.
func (h Header) GetTime() time.Time {
	return time.Unix(0, int64(h.SignedHeader.Header.Time)).UTC()
}

// ConsensusState returns the consensus state the header commits to.
func (h Header) ConsensusState() *ConsensusState {
	return &ConsensusState{
		Timestamp:          h.SignedHeader.Header.Time,
		Root:               commitmenttypes.NewMerkleRoot(h.SignedHeader.Header.AppHash),
		NextValidatorsHash: h.SignedHeader.Header.NextValidatorsHash,
	}
}

// ValidateBasic checks the well-formedness of the header. No signature or proof is verified.
func (h Header) ValidateBasic() error {
	lightHeader := h.SignedHeader.Header
	commit := h.SignedHeader.Commit

	if lightHeader.ChainId == "" {
		return errorsmod.Wrap(ErrInvalidHeader, "chain-id cannot be empty")
	}
	if lightHeader.Height == 0 || lightHeader.Height > math.MaxInt64 {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "header height %d out of range", lightHeader.Height)
	}
	if lightHeader.Time == 0 || lightHeader.Time > math.MaxInt64 {
		return errorsmod.Wrap(ErrInvalidHeader, "header time must be a positive Unix time")
	}
	if len(lightHeader.ValidatorsHash) != tmhash.Size || len(lightHeader.NextValidatorsHash) != tmhash.Size {
		return errorsmod.Wrapf(ErrInvalidHeader, "validator hashes must be %d bytes", tmhash.Size)
	}
	if len(lightHeader.AppHash) == 0 {
		return errorsmod.Wrap(ErrInvalidHeader, "app hash cannot be empty")
	}

	if h.TrustedHeight.IsZero() {
		return errorsmod.Wrap(ErrInvalidHeaderHeight, "trusted height cannot be zero")
	}
	if h.TrustedHeight.GTE(h.GetHeight()) {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "TrustedHeight %s must be less than header height %s", h.TrustedHeight, h.GetHeight())
	}

	if commit.Height != lightHeader.Height {
		return errorsmod.Wrapf(ErrInvalidCommit, "commit height %d does not match header height %d", commit.Height, lightHeader.Height)
	}
	if !bytes.Equal(commit.BlockHash, lightHeader.Hash()) {
		return errorsmod.Wrapf(ErrInvalidCommit, "commit signs block %X, header hash is %X", commit.BlockHash, lightHeader.Hash())
	}

	if err := h.TrustedValidators.ValidateBasic(); err != nil {
		return errorsmod.Wrap(err, "trusted validators")
	}
	if err := h.UntrustedValidators.ValidateBasic(); err != nil {
		return errorsmod.Wrap(err, "untrusted validators")
	}
	if !bytes.Equal(h.UntrustedValidators.Hash(), lightHeader.ValidatorsHash) {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "untrusted validators do not hash to the header validators hash")
	}
	if len(commit.Signatures) != h.UntrustedValidators.Size() {
		return errorsmod.Wrapf(ErrInvalidCommit, "validator set size (%d) does not match commit size (%d)", h.UntrustedValidators.Size(), len(commit.Signatures))
	}

	if len(h.ZeroKnowledgeProof) != ZKProofSize {
		return errorsmod.Wrapf(ErrInvalidZKP, "proof must be %d bytes, got %d", ZKProofSize, len(h.ZeroKnowledgeProof))
	}

	return nil
}

func (commitSig CommitSig) toQuorum() quorum.CommitSig {
	return quorum.CommitSig{
		BlockIDFlag:      quorum.BlockIDFlag(commitSig.BlockIDFlag),
		ValidatorAddress: commitSig.ValidatorAddress,
		Signature:        commitSig.Signature,
	}
}
