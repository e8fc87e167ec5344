package tendermint

import (
	"bytes"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// VerifyClientMessage checks if the clientMessage is of type Header or Misbehaviour and verifies the message
func (cs *ClientState) VerifyClientMessage(
	now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec,
	clientMsg exported.ClientMessage,
) error {
	switch msg := clientMsg.(type) {
	case *Header:
		return cs.verifyHeader(now, vctx, cdc, msg)
	case *Misbehaviour:
		return cs.verifyMisbehaviour(now, vctx, msg)
	default:
		return clienttypes.ErrInvalidClientType
	}
}

// verifyHeader returns an error if:
// - the client or header provided are not parseable to tendermint types
// - the header is invalid
// - header height is less than or equal to the trusted header height
// - header revision is not equal to trusted header revision
// - header valset commit verification fails
// - header timestamp is past the trusting period in relation to the consensus state
// - header timestamp is less than or equal to the consensus state timestamp
//
// A header matching the consensus state already stored at its height is accepted
// without further checks.
func (cs *ClientState) verifyHeader(
	now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec,
	header *Header,
) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}

	if header.Header.ChainID != cs.ChainId {
		return errorsmod.Wrapf(ErrInvalidChainID, "header chain-id %s does not match client chain-id %s", header.Header.ChainID, cs.ChainId)
	}

	// a header for an already trusted height is a duplicate update
	if existing, found := GetConsensusState(vctx.ClientStore(), cdc, header.GetHeight()); found && existing.Equal(header.ConsensusState()) {
		return nil
	}

	// Retrieve trusted consensus states for each Header in misbehaviour
	trustedConsState, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, header.TrustedHeight)
	if err != nil {
		return errorsmod.Wrapf(err, "could not get consensus state from clientstore at TrustedHeight: %s", header.TrustedHeight)
	}

	// UpdateClient only accepts updates with a header at the same revision
	// as the trusted consensus state
	if header.GetHeight().GetRevisionNumber() != header.TrustedHeight.RevisionNumber {
		return errorsmod.Wrapf(
			ErrInvalidHeaderHeight,
			"header height revision %d does not match trusted header revision %d",
			header.GetHeight().GetRevisionNumber(), header.TrustedHeight.RevisionNumber,
		)
	}

	if !header.GetHeight().GT(header.TrustedHeight) {
		return errorsmod.Wrapf(ErrUntrustedHeaderNotNewer, "header height %s must be greater than trusted height %s", header.GetHeight(), header.TrustedHeight)
	}
	if !header.GetTime().After(trustedConsState.GetTime()) {
		return errorsmod.Wrapf(ErrUntrustedHeaderNotNewer, "header time %s must be after trusted time %s", header.GetTime(), trustedConsState.GetTime())
	}

	if cs.IsExpired(trustedConsState.GetTime(), now) {
		return errorsmod.Wrapf(ErrTrustingPeriodExpired, "trusted state at %s expired (trusting period %s, now %s)",
			trustedConsState.GetTime(), cs.GetTrustingPeriod(), now)
	}
	if maxTime := now.Add(cs.GetMaxClockDrift()); header.GetTime().After(maxTime) {
		return errorsmod.Wrapf(ErrHeaderFromFuture, "header time %s is after %s (now %s + max clock drift %s)",
			header.GetTime(), maxTime, now, cs.GetMaxClockDrift())
	}

	if header.GetHeight().GetRevisionHeight() == header.TrustedHeight.RevisionHeight+1 {
		// adjacent headers chain through the next validators hash
		if !bytes.Equal(header.Header.ValidatorsHash, trustedConsState.NextValidatorsHash) {
			return errorsmod.Wrapf(ErrInvalidValidatorSet, "expected validators hash %X of adjacent header to equal trusted next validators hash %X",
				header.Header.ValidatorsHash, trustedConsState.NextValidatorsHash)
		}
	} else {
		if err := checkTrustedHeader(header, trustedConsState); err != nil {
			return err
		}
		if err := verifyCommitLightTrusting(cs.ChainId, header.TrustedValidators, header.Commit, cs.TrustLevel); err != nil {
			return errorsmod.Wrap(err, "trusted validators did not sign the header with the trust level")
		}
	}

	if err := verifyCommitLight(cs.ChainId, header.ValidatorSet, header.Commit); err != nil {
		return errorsmod.Wrap(err, "validator set did not commit to header")
	}

	return nil
}

// UpdateState may be used to either create a consensus state for:
// - a future height greater than the latest client state height
// - a past height that was skipped during bisection
// If we are updating to a past height, a consensus state is created for that height to be persisted in client store
// If we are updating to a future height, the consensus state is created and the client state is updated to reflect
// the new latest height
// A list containing the updated consensus height is returned.
// UpdateState must only be used to update within a single revision, thus header revision number and trusted height's revision
// number must be the same. To update to a new revision, use a separate upgrade path
// UpdateState will prune the oldest consensus state if it is expired.
// If the provided clientMsg is not of type of Header then the handler will noop and empty slice is returned.
func (cs ClientState) UpdateState(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		// clientMessage is invalid Misbehaviour, no update necessary
		return []exported.Height{}
	}

	height, ok := header.GetHeight().(clienttypes.Height)
	if !ok {
		panic(fmt.Errorf("cannot convert %T to %T", header.GetHeight(), clienttypes.Height{}))
	}

	// check for duplicate update
	if _, found := GetConsensusState(clientStore, cdc, height); found {
		// perform no-op
		return []exported.Height{height}
	}

	cs.pruneOldestConsensusState(clientStore, cdc, header.GetTime())

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, header.ConsensusState(), height)
	SetIterationKey(clientStore, height)

	return []exported.Height{height}
}

// pruneOldestConsensusState will retrieve the earliest consensus state for this clientID and check if it is expired
// relative to the time of the header being applied. If it is, that consensus state will be pruned from store along
// with its iteration key. The consensus state at the latest height is never pruned.
func (cs ClientState) pruneOldestConsensusState(clientStore storetypes.KVStore, cdc codec.BinaryCodec, now time.Time) {
	var pruneHeight exported.Height

	pruneCb := func(height exported.Height) bool {
		consState, found := GetConsensusState(clientStore, cdc, height)
		// this error should never occur
		if !found {
			panic(errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "failed to retrieve consensus state at height: %s", height))
		}

		if cs.IsExpired(consState.GetTime(), now) && !height.EQ(cs.LatestHeight) {
			pruneHeight = height
		}

		return true
	}

	IterateConsensusStateAscending(clientStore, pruneCb)

	if pruneHeight != nil {
		deleteConsensusState(clientStore, pruneHeight)
		deleteIterationKey(clientStore, pruneHeight)
	}
}

// CheckForMisbehaviour detects duplicate height misbehaviour and BFT time violation misbehaviour
// in a submitted Header message and verifies the correctness of a submitted Misbehaviour ClientMessage
func (ClientState) CheckForMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, msg exported.ClientMessage) bool {
	switch msg := msg.(type) {
	case *Header:
		tmHeader := msg
		consState := tmHeader.ConsensusState()

		// Check if the Client store already has a consensus state for the header's height
		// If the consensus state exists, and it matches the header then we return early
		// since header has already been submitted in a previous UpdateClient.
		if existingConsState, found := GetConsensusState(clientStore, cdc, tmHeader.GetHeight()); found {
			// This header has already been submitted and the necessary state is already stored
			// in client store, thus we can return early without further validation.
			if existingConsState.Equal(consState) {
				return false
			}

			// A consensus state already exists for this height, but it does not match the provided header.
			// The assumption is that Header has already been validated. Thus we can return true as misbehaviour is present
			return true
		}

		// Check that consensus state timestamps are monotonic
		prevCons, prevOk := GetPreviousConsensusState(clientStore, cdc, tmHeader.GetHeight())
		nextCons, nextOk := GetNextConsensusState(clientStore, cdc, tmHeader.GetHeight())
		// if previous consensus state exists, check consensus state time is greater than previous consensus state time
		// if previous consensus state is not before current consensus state return true
		if prevOk && prevCons.Timestamp >= consState.Timestamp {
			return true
		}
		// if next consensus state exists, check consensus state time is less than next consensus state time
		// if next consensus state is not after current consensus state return true
		if nextOk && nextCons.Timestamp <= consState.Timestamp {
			return true
		}
	case *Misbehaviour:
		// if heights are equal check that this is valid misbehaviour of a fork
		// otherwise if heights are unequal check that this is valid misbehavior of BFT time violation
		if msg.Header1.GetHeight().EQ(msg.Header2.GetHeight()) {
			// Ensure that Commit Hashes are different
			if !bytes.Equal(msg.Header1.Commit.BlockID.Hash, msg.Header2.Commit.BlockID.Hash) {
				return true
			}
		} else if !msg.Header1.GetTime().After(msg.Header2.GetTime()) {
			// Header1 is at greater height than Header2, therefore Header1 time must be less than or equal to
			// Header2 time in order to be valid misbehaviour (violation of monotonic time).
			return true
		}
	}

	return false
}

// UpdateStateOnMisbehaviour updates state upon misbehaviour, freezing the ClientState at the
// height of the evidence. This method should only be called when misbehaviour is detected
// as it does not perform any misbehaviour checks.
func (cs ClientState) UpdateStateOnMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	var evidenceHeight exported.Height
	switch msg := clientMsg.(type) {
	case *Header:
		evidenceHeight = msg.GetHeight()
	case *Misbehaviour:
		evidenceHeight = msg.Header1.GetHeight()
	default:
		panic(errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "unexpected client message %T", clientMsg))
	}

	frozenHeight, ok := evidenceHeight.(clienttypes.Height)
	if !ok {
		panic(fmt.Errorf("cannot convert %T to %T", evidenceHeight, clienttypes.Height{}))
	}

	cs.FrozenHeight = frozenHeight
	setClientState(clientStore, cdc, &cs)
}

// checkTrustedHeader checks that consensus state matches trusted fields of Header
func checkTrustedHeader(header *Header, consState *ConsensusState) error {
	if header.TrustedValidators == nil || header.TrustedValidators.IsNilOrEmpty() {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "trusted validators cannot be empty")
	}

	// assert that trustedVals is NextValidators of last trusted header
	// to do this, we check that trustedVals.Hash() == consState.NextValidatorsHash
	tvalHash := header.TrustedValidators.Hash()
	if !bytes.Equal(consState.NextValidatorsHash, tvalHash) {
		return errorsmod.Wrapf(
			ErrInvalidValidatorSet,
			"trusted validators %s, does not hash to latest trusted validators. Expected: %X, got: %X",
			header.TrustedValidators, consState.NextValidatorsHash, tvalHash,
		)
	}
	return nil
}
