package ethereum

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

var (
	_ exported.ClientMessage = (*MisbehaviourFinalizedHeader)(nil)
	_ exported.ClientMessage = (*MisbehaviourNextSyncCommittee)(nil)
)

// MisbehaviourFinalizedHeader is two updates finalizing different headers at the same slot.
type MisbehaviourFinalizedHeader struct {
	ClientId             string //nolint:revive
	TrustedSyncCommittee TrustedSyncCommittee
	ConsensusUpdate1     LightClientUpdate
	ConsensusUpdate2     LightClientUpdate
}

// MisbehaviourNextSyncCommittee is two updates of the same period revealing different next
// sync committees.
type MisbehaviourNextSyncCommittee struct {
	ClientId             string //nolint:revive
	TrustedSyncCommittee TrustedSyncCommittee
	ConsensusUpdate1     LightClientUpdate
	ConsensusUpdate2     LightClientUpdate
}

// ClientType is ethereum.
func (MisbehaviourFinalizedHeader) ClientType() string {
	return exported.Ethereum
}

// GetHeight returns the execution block number finalized by the first update.
func (m MisbehaviourFinalizedHeader) GetHeight() clienttypes.Height {
	return clienttypes.NewHeight(0, m.ConsensusUpdate1.FinalizedHeader.Execution.BlockNumber)
}

// ValidateBasic checks that both updates finalize the same slot with different contents.
func (m MisbehaviourFinalizedHeader) ValidateBasic() error {
	if err := validateMisbehaviourUpdates(m.ClientId, m.TrustedSyncCommittee, m.ConsensusUpdate1, m.ConsensusUpdate2); err != nil {
		return err
	}

	finalized1, finalized2 := m.ConsensusUpdate1.FinalizedHeader, m.ConsensusUpdate2.FinalizedHeader
	if finalized1.Beacon.Slot != finalized2.Beacon.Slot {
		return errorsmod.Wrapf(ErrDifferentSlotInFinalizedHeaderMisbehaviour, "%d != %d", finalized1.Beacon.Slot, finalized2.Beacon.Slot)
	}
	if finalized1.Beacon.Hash() == finalized2.Beacon.Hash() && finalized1.Execution.HashTreeRoot() == finalized2.Execution.HashTreeRoot() {
		return errorsmod.Wrapf(ErrSameFinalizedHeaderInFinalizedHeaderMisbehaviour, "slot %d", finalized1.Beacon.Slot)
	}

	return nil
}

// ClientType is ethereum.
func (MisbehaviourNextSyncCommittee) ClientType() string {
	return exported.Ethereum
}

// GetHeight returns the execution block number finalized by the first update.
func (m MisbehaviourNextSyncCommittee) GetHeight() clienttypes.Height {
	return clienttypes.NewHeight(0, m.ConsensusUpdate1.FinalizedHeader.Execution.BlockNumber)
}

// ValidateBasic checks that both updates carry different next sync committees. The committee
// sizes and key encodings are checked by the updates' ValidateBasic before the roots are
// compared. Whether they belong to the same period depends on the client parameters and is
// checked on verification.
func (m MisbehaviourNextSyncCommittee) ValidateBasic() error {
	if err := validateMisbehaviourUpdates(m.ClientId, m.TrustedSyncCommittee, m.ConsensusUpdate1, m.ConsensusUpdate2); err != nil {
		return err
	}

	next1, next2 := m.ConsensusUpdate1.NextSyncCommittee, m.ConsensusUpdate2.NextSyncCommittee
	if next1 == nil || next2 == nil {
		return ErrNoNextSyncCommitteeInNextSyncCommitteeMisbehaviour
	}
	if next1.HashTreeRoot() == next2.HashTreeRoot() {
		return ErrSameNextSyncCommitteeInNextSyncCommitteeMisbehaviour
	}

	return nil
}

// validatePeriod checks that both updates finalize headers of the same sync committee period.
func (m MisbehaviourNextSyncCommittee) validatePeriod(cs ClientState) error {
	period1 := cs.SyncCommitteePeriod(m.ConsensusUpdate1.FinalizedHeader.Beacon.Slot)
	period2 := cs.SyncCommitteePeriod(m.ConsensusUpdate2.FinalizedHeader.Beacon.Slot)
	if period1 != period2 {
		return errorsmod.Wrapf(ErrDifferentPeriodInNextSyncCommitteeMisbehaviour, "%d != %d", period1, period2)
	}

	return nil
}

func validateMisbehaviourUpdates(clientID string, trusted TrustedSyncCommittee, update1, update2 LightClientUpdate) error {
	if err := host.ClientIdentifierValidator(clientID); err != nil {
		return errorsmod.Wrap(err, "misbehaviour client ID is invalid")
	}
	if trusted.TrustedHeight.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, "trusted height cannot be zero")
	}
	if err := update1.ValidateBasic(); err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, errorsmod.Wrap(err, "update 1 failed validation").Error())
	}
	if err := update2.ValidateBasic(); err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, errorsmod.Wrap(err, "update 2 failed validation").Error())
	}

	return nil
}
