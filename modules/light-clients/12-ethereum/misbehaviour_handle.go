package ethereum

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// verifyMisbehaviour runs the structural checks of the misbehaviour before verifying both
// updates against the same trusted sync committee.
func (cs *ClientState) verifyMisbehaviour(
	now time.Time,
	vctx clienttypes.VerificationContext,
	misbehaviour exported.ClientMessage,
	trusted TrustedSyncCommittee,
	update1, update2 LightClientUpdate,
) error {
	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}
	if m, ok := misbehaviour.(*MisbehaviourNextSyncCommittee); ok {
		if err := m.validatePeriod(*cs); err != nil {
			return err
		}
	}

	trustedConsState, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, trusted.TrustedHeight)
	if err != nil {
		return errorsmod.Wrapf(err, "could not get trusted consensus state from clientStore for misbehaviour at TrustedHeight: %s", trusted.TrustedHeight)
	}

	if err := cs.verifyUpdate(now, trustedConsState, trusted, update1); err != nil {
		return errorsmod.Wrap(err, "verifying update 1 in misbehaviour failed")
	}
	if err := cs.verifyUpdate(now, trustedConsState, trusted, update2); err != nil {
		return errorsmod.Wrap(err, "verifying update 2 in misbehaviour failed")
	}

	return nil
}
