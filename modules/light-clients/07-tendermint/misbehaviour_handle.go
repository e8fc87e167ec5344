package tendermint

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

// verifyMisbehaviour determines whether or not two conflicting
// headers at the same height would have convinced the light client.
//
// NOTE: consensusState1 is the trusted consensus state that corresponds to the TrustedHeight
// of misbehaviour.Header1
// Similarly, consensusState2 is the trusted consensus state that corresponds
// to misbehaviour.Header2
// Misbehaviour sets frozen height to the height of Header1
func (cs *ClientState) verifyMisbehaviour(now time.Time, vctx clienttypes.VerificationContext, misbehaviour *Misbehaviour) error {
	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}

	if misbehaviour.Header1.Header.ChainID != cs.ChainId {
		return errorsmod.Wrapf(ErrInvalidChainID, "misbehaviour chain-id %s does not match client chain-id %s", misbehaviour.Header1.Header.ChainID, cs.ChainId)
	}

	// Regardless of the type of misbehaviour, ensure that both headers are valid and would have been accepted by light-client

	// Retrieve trusted consensus states for each Header in misbehaviour
	tmConsensusState1, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, misbehaviour.Header1.TrustedHeight)
	if err != nil {
		return errorsmod.Wrapf(err, "could not get trusted consensus state from clientStore for Header1 at TrustedHeight: %s", misbehaviour.Header1.TrustedHeight)
	}

	tmConsensusState2, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, misbehaviour.Header2.TrustedHeight)
	if err != nil {
		return errorsmod.Wrapf(err, "could not get trusted consensus state from clientStore for Header2 at TrustedHeight: %s", misbehaviour.Header2.TrustedHeight)
	}

	// Check the validity of the two conflicting headers against their respective
	// trusted consensus states
	// NOTE: header height and commitment root assertions are checked in
	// misbehaviour.ValidateBasic by the client keeper and msg.ValidateBasic
	// by the base application.
	if err := checkMisbehaviourHeader(cs, tmConsensusState1, misbehaviour.Header1, now); err != nil {
		return errorsmod.Wrap(err, "verifying Header1 in Misbehaviour failed")
	}
	if err := checkMisbehaviourHeader(cs, tmConsensusState2, misbehaviour.Header2, now); err != nil {
		return errorsmod.Wrap(err, "verifying Header2 in Misbehaviour failed")
	}

	return nil
}

// checkMisbehaviourHeader checks that a Header in Misbehaviour is valid misbehaviour given
// a trusted ConsensusState
func checkMisbehaviourHeader(
	clientState *ClientState, consState *ConsensusState, header *Header, currentTimestamp time.Time,
) error {
	// check the trusted fields for the header against ConsensusState
	if err := checkTrustedHeader(header, consState); err != nil {
		return err
	}

	// assert that the age of the trusted consensus state is not older than the trusting period
	if currentTimestamp.Sub(consState.GetTime()) >= clientState.GetTrustingPeriod() {
		return errorsmod.Wrapf(
			ErrTrustingPeriodExpired,
			"current timestamp minus the latest consensus state timestamp is greater than or equal to the trusting period (%d >= %d)",
			currentTimestamp.Sub(consState.GetTime()), clientState.GetTrustingPeriod(),
		)
	}

	// - ValidatorSet must have TrustLevel similarity with trusted FromValidatorSet
	if err := verifyCommitLightTrusting(clientState.ChainId, header.TrustedValidators, header.Commit, clientState.TrustLevel); err != nil {
		return errorsmod.Wrap(err, "validator set in header has too much change from trusted validator set")
	}

	// - ValidatorSet of the header must have committed to it
	if err := verifyCommitLight(clientState.ChainId, header.ValidatorSet, header.Commit); err != nil {
		return errorsmod.Wrap(err, "validator set did not commit to header")
	}

	return nil
}
