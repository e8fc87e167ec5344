package cometbls

import (
	"bytes"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// VerifyClientMessage checks if the clientMessage is of type Header or Misbehaviour and verifies the message
func (cs *ClientState) VerifyClientMessage(now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec, clientMsg exported.ClientMessage) error {
	switch msg := clientMsg.(type) {
	case *Header:
		return cs.verifyHeader(now, vctx, cdc, msg)
	case *Misbehaviour:
		return cs.verifyMisbehaviour(now, vctx, msg)
	default:
		return clienttypes.ErrInvalidClientType
	}
}

// verifyHeader checks the header against the consensus state at its trusted height. A header
// matching the consensus state already stored at its height is accepted without further checks.
func (cs *ClientState) verifyHeader(now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec, header *Header) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}

	if header.SignedHeader.Header.ChainId != cs.ChainId {
		return errorsmod.Wrapf(ErrInvalidChainID, "header chain-id %s does not match client chain-id %s", header.SignedHeader.Header.ChainId, cs.ChainId)
	}

	if existing, found := GetConsensusState(vctx.ClientStore(), cdc, header.GetHeight()); found && existing.Equal(header.ConsensusState()) {
		return nil
	}

	trustedConsState, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, header.TrustedHeight)
	if err != nil {
		return errorsmod.Wrapf(err, "could not get consensus state from clientstore at TrustedHeight: %s", header.TrustedHeight)
	}

	return cs.checkHeader(now, trustedConsState, header)
}

// checkHeader runs the temporal, continuity and cryptographic checks of header against
// the trusted consensus state.
func (cs *ClientState) checkHeader(now time.Time, trustedConsState *ConsensusState, header *Header) error {
	lightHeader := header.SignedHeader.Header

	if header.GetHeight().RevisionNumber != header.TrustedHeight.RevisionNumber {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "header revision %d does not match trusted revision %d",
			header.GetHeight().RevisionNumber, header.TrustedHeight.RevisionNumber)
	}
	if !header.GetTime().After(trustedConsState.GetTime()) {
		return errorsmod.Wrapf(ErrUntrustedHeaderNotNewer, "header time %s is not after trusted time %s", header.GetTime(), trustedConsState.GetTime())
	}

	if cs.IsExpired(trustedConsState.GetTime(), now) {
		return errorsmod.Wrapf(ErrTrustingPeriodExpired, "trusted state at %s expired at %s, now %s",
			trustedConsState.GetTime(), trustedConsState.GetTime().Add(cs.GetTrustingPeriod()), now)
	}
	if header.GetTime().After(now.Add(cs.GetMaxClockDrift())) {
		return errorsmod.Wrapf(ErrHeaderFromFuture, "header time %s is after now %s plus max clock drift %s", header.GetTime(), now, cs.GetMaxClockDrift())
	}

	if !bytes.Equal(header.TrustedValidators.Hash(), trustedConsState.NextValidatorsHash) {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "trusted validators do not hash to the next validators hash of the trusted consensus state")
	}
	if header.TrustedHeight.Increment().EQ(header.GetHeight()) && !bytes.Equal(lightHeader.ValidatorsHash, trustedConsState.NextValidatorsHash) {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "adjacent header validators hash must equal the trusted next validators hash")
	}

	if err := verifyCommit(cs.ChainId, &header.UntrustedValidators, header.SignedHeader.Commit); err != nil {
		return errorsmod.Wrap(err, "untrusted validators did not commit to the header")
	}

	inputs := ZKPublicInputs(header.TrustedValidators.Hash(), lightHeader.ValidatorsHash, lightHeader.Hash())
	return verifyZKP(cs.ZKVerifyingKey, header.ZeroKnowledgeProof, inputs)
}

// verifyCommit checks that validators holding at least two thirds of the voting power of
// vals signed commit with one aggregate signature.
func verifyCommit(chainID string, vals *ValidatorSet, commit Commit) error {
	if vals.Size() != len(commit.Signatures) {
		return errorsmod.Wrapf(ErrInvalidCommit, "validator set size (%d) does not match commit size (%d)", vals.Size(), len(commit.Signatures))
	}

	strategy := quorum.NewAggregateBLSQuorum(SignatureDST)
	signBytes := VoteSignBytes(chainID, commit.Height, commit.Round, commit.BlockHash)

	for idx, commitSig := range commit.Signatures {
		vote, ok := strategy.FilterCommit(commitSig.toQuorum())
		if !ok {
			continue
		}

		val, _ := vals.GetByIndex(idx)
		if !bytes.Equal(val.Address(), vote.ValidatorAddress) {
			return errorsmod.Wrapf(ErrInvalidCommit, "wrong validator address at index %d, expected %X, got %X", idx, val.Address(), vote.ValidatorAddress)
		}

		if err := strategy.ProcessSignature(val.quorumValidator(), signBytes, vote.Signature); err != nil {
			return err
		}
	}

	totalPower := sdkmath.NewIntFromUint64(vals.TotalVotingPower())
	if !quorum.TwoThirds.MeetsThreshold(strategy.SignedPower(), totalPower) {
		return errorsmod.Wrapf(quorum.ErrInsufficientVotingPower, "signed %s, required %s of %s",
			strategy.SignedPower(), quorum.TwoThirds.RequiredPower(totalPower), totalPower)
	}

	return strategy.Finish()
}

// verifyMisbehaviour checks both headers against their trusted consensus states.
func (cs *ClientState) verifyMisbehaviour(now time.Time, vctx clienttypes.VerificationContext, misbehaviour *Misbehaviour) error {
	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}

	if misbehaviour.Header1.SignedHeader.Header.ChainId != cs.ChainId {
		return errorsmod.Wrapf(ErrInvalidChainID, "misbehaviour chain-id %s does not match client chain-id %s", misbehaviour.Header1.SignedHeader.Header.ChainId, cs.ChainId)
	}

	for i, header := range []*Header{misbehaviour.Header1, misbehaviour.Header2} {
		trustedConsState, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, header.TrustedHeight)
		if err != nil {
			return errorsmod.Wrapf(err, "could not get trusted consensus state for Header%d at TrustedHeight: %s", i+1, header.TrustedHeight)
		}

		if err := cs.checkHeader(now, trustedConsState, header); err != nil {
			return errorsmod.Wrapf(err, "verifying Header%d in Misbehaviour failed", i+1)
		}
	}

	return nil
}

// CheckForMisbehaviour detects a header conflicting with a stored consensus state and two
// headers committing to different blocks at the same height.
func (ClientState) CheckForMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, msg exported.ClientMessage) bool {
	switch msg := msg.(type) {
	case *Header:
		if existing, found := GetConsensusState(clientStore, cdc, msg.GetHeight()); found {
			return !existing.Equal(msg.ConsensusState())
		}
	case *Misbehaviour:
		return msg.Header1.GetHeight().EQ(msg.Header2.GetHeight()) &&
			!bytes.Equal(msg.Header1.SignedHeader.Header.Hash(), msg.Header2.SignedHeader.Header.Hash())
	}

	return false
}

// UpdateStateOnMisbehaviour freezes the client at the height of the evidence.
func (cs ClientState) UpdateStateOnMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	switch msg := clientMsg.(type) {
	case *Header:
		cs.FrozenHeight = msg.GetHeight()
	case *Misbehaviour:
		cs.FrozenHeight = msg.Header1.GetHeight()
	default:
		panic(errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "unexpected client message %T", clientMsg))
	}

	setClientState(clientStore, cdc, &cs)
}

// UpdateState stores the consensus state of a verified header and ratchets the latest height.
// A header at an already stored height leaves the state untouched.
func (cs ClientState) UpdateState(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		return []exported.Height{}
	}

	height := header.GetHeight()
	if _, found := GetConsensusState(clientStore, cdc, height); found {
		return []exported.Height{height}
	}

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, header.ConsensusState(), height)

	return []exported.Height{height}
}
