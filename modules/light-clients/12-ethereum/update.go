package ethereum

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/ethereum/go-ethereum/beacon/merkle"
	"github.com/ethereum/go-ethereum/beacon/params"
	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
)

// VerifyClientMessage checks if the clientMessage is a Header or one of the misbehaviour types and verifies it.
func (cs *ClientState) VerifyClientMessage(now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec, clientMsg exported.ClientMessage) error {
	switch msg := clientMsg.(type) {
	case *Header:
		return cs.verifyHeader(now, vctx, cdc, msg)
	case *MisbehaviourFinalizedHeader:
		return cs.verifyMisbehaviour(now, vctx, msg, msg.TrustedSyncCommittee, msg.ConsensusUpdate1, msg.ConsensusUpdate2)
	case *MisbehaviourNextSyncCommittee:
		return cs.verifyMisbehaviour(now, vctx, msg, msg.TrustedSyncCommittee, msg.ConsensusUpdate1, msg.ConsensusUpdate2)
	default:
		return clienttypes.ErrInvalidClientType
	}
}

// verifyHeader checks the update of header against the consensus state at its trusted height
// and the account proof of the IBC contract against the finalized execution state root.
// A header matching the consensus state already stored at its height is accepted as is.
func (cs *ClientState) verifyHeader(now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec, header *Header) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}

	if existing, found := GetConsensusState(vctx.ClientStore(), cdc, header.GetHeight()); found && existing.matches(header.ConsensusState()) {
		return nil
	}

	trustedHeight := header.TrustedSyncCommittee.TrustedHeight
	trustedConsState, err := clienttypes.GetSelfConsensusState[*ConsensusState](vctx, trustedHeight)
	if err != nil {
		return errorsmod.Wrapf(err, "could not get consensus state from clientstore at TrustedHeight: %s", trustedHeight)
	}

	update := header.ConsensusUpdate
	if update.FinalizedHeader.Beacon.Slot <= trustedConsState.Slot {
		return errorsmod.Wrapf(ErrInvalidSlot, "finalized slot %d is not after trusted slot %d", update.FinalizedHeader.Beacon.Slot, trustedConsState.Slot)
	}
	if header.GetTime().After(now.Add(cs.GetMaxClockDrift())) {
		return errorsmod.Wrapf(ErrHeaderFromFuture, "header time %s is after now %s plus max clock drift %s", header.GetTime(), now, cs.GetMaxClockDrift())
	}

	if err := cs.verifyUpdate(now, trustedConsState, header.TrustedSyncCommittee, update); err != nil {
		return err
	}

	storageRoot, err := commitmenttypes.VerifyAccountStorageRoot(update.FinalizedHeader.Execution.StateRoot, cs.IBCContractAddress, header.AccountUpdate.AccountProof)
	if err != nil {
		return err
	}
	if storageRoot != header.AccountUpdate.StorageRoot {
		return errorsmod.Wrapf(ErrStorageRootMismatch, "proven storage root %s, header claims %s", storageRoot, header.AccountUpdate.StorageRoot)
	}

	return nil
}

// verifyUpdate checks a light client update signed by the trusted sync committee.
func (cs ClientState) verifyUpdate(now time.Time, trustedConsState *ConsensusState, trusted TrustedSyncCommittee, update LightClientUpdate) error {
	if cs.IsExpired(trustedConsState.GetTime(), now) {
		return errorsmod.Wrapf(ErrTrustingPeriodExpired, "trusted state at %s expired at %s, now %s",
			trustedConsState.GetTime(), trustedConsState.GetTime().Add(cs.GetTrustingPeriod()), now)
	}

	expectedCommittee := trustedConsState.CurrentSyncCommittee
	expectedPeriod := cs.SyncCommitteePeriod(trustedConsState.Slot)
	if trusted.IsNext {
		if trustedConsState.NextSyncCommittee == (common.Hash{}) {
			return errorsmod.Wrapf(ErrNextSyncCommitteeUnknown, "trusted height %s", trusted.TrustedHeight)
		}
		expectedCommittee = trustedConsState.NextSyncCommittee
		expectedPeriod++
	}

	committee := trusted.SyncCommittee
	if err := committee.Validate(cs.SyncCommitteeSize); err != nil {
		return err
	}
	if root := committee.HashTreeRoot(); root != expectedCommittee {
		return errorsmod.Wrapf(ErrTrustedSyncCommitteeMismatch, "sync committee root %s, expected %s", root, expectedCommittee)
	}

	if period := cs.SyncCommitteePeriod(update.SignatureSlot); period != expectedPeriod {
		return errorsmod.Wrapf(ErrInvalidSignaturePeriod, "signature slot %d is in period %d, the trusted sync committee signs period %d",
			update.SignatureSlot, period, expectedPeriod)
	}

	finalized := update.FinalizedHeader
	if expected := cs.TimestampAtSlot(finalized.Beacon.Slot); finalized.Execution.Timestamp != expected {
		return errorsmod.Wrapf(ErrInvalidTimestamp, "finalized execution timestamp %d, slot %d starts at %d",
			finalized.Execution.Timestamp, finalized.Beacon.Slot, expected)
	}

	participation, err := update.SyncAggregate.Participation(cs.SyncCommitteeSize)
	if err != nil {
		return err
	}
	participants := participation.Count()
	if participants < cs.MinSyncCommitteeParticipants {
		return errorsmod.Wrapf(ErrInsufficientParticipants, "%d participants, at least %d required", participants, cs.MinSyncCommitteeParticipants)
	}
	if participants*3 < cs.SyncCommitteeSize*2 {
		return errorsmod.Wrapf(ErrInsufficientParticipants, "%d of %d participants is not a supermajority", participants, cs.SyncCommitteeSize)
	}

	if err := verifyExecutionBranch(update.AttestedHeader); err != nil {
		return errorsmod.Wrap(err, "attested header")
	}
	if err := verifyExecutionBranch(finalized); err != nil {
		return errorsmod.Wrap(err, "finalized header")
	}

	attestedStateRoot := update.AttestedHeader.Beacon.StateRoot
	if err := merkle.VerifyProof(attestedStateRoot, params.StateIndexFinalBlock, update.FinalityBranch, merkle.Value(finalized.Beacon.Hash())); err != nil {
		return errorsmod.Wrap(ErrInvalidFinalityBranch, err.Error())
	}

	if next := update.NextSyncCommittee; next != nil {
		if err := next.Validate(cs.SyncCommitteeSize); err != nil {
			return errorsmod.Wrap(err, "next sync committee")
		}
		if cs.SyncCommitteePeriod(update.AttestedHeader.Beacon.Slot) != cs.SyncCommitteePeriod(finalized.Beacon.Slot) {
			return errorsmod.Wrapf(ErrInvalidNextSyncCommitteePeriod, "attested slot %d and finalized slot %d are in different periods",
				update.AttestedHeader.Beacon.Slot, finalized.Beacon.Slot)
		}
		if err := merkle.VerifyProof(attestedStateRoot, params.StateIndexNextSyncCommittee, update.NextSyncCommitteeBranch, merkle.Value(next.HashTreeRoot())); err != nil {
			return errorsmod.Wrap(ErrInvalidNextSyncCommitteeBranch, err.Error())
		}
	}

	return cs.verifySyncAggregate(committee, participation, update)
}

// verifySyncAggregate checks the aggregate signature of the participants over the signing
// root of the attested header. A validator may sit in a sync committee more than once, so
// participants are aggregated before being handed to the strategy.
func (cs ClientState) verifySyncAggregate(committee SyncCommittee, participation ParticipationBits, update LightClientUpdate) error {
	pubKeys := make([][]byte, 0, participation.Count())
	for i := uint64(0); i < cs.SyncCommitteeSize; i++ {
		if participation.BitAt(i) {
			pubKeys = append(pubKeys, committee.PubKeys[i])
		}
	}

	aggregate, err := quorum.AggregatePubKeyBytes(pubKeys)
	if err != nil {
		return err
	}

	signingRoot := ComputeSigningRoot(update.AttestedHeader.Beacon.Hash(), cs.SyncCommitteeDomain(update.SignatureSlot))

	strategy := quorum.NewAggregateBLSQuorum(quorum.DSTEthereum)
	validator := quorum.Validator{
		KeyType:     quorum.KeyTypeBLS12381,
		PubKey:      aggregate,
		VotingPower: uint64(len(pubKeys)),
	}
	if err := strategy.ProcessSignature(validator, signingRoot.Bytes(), update.SyncAggregate.SyncCommitteeSignature); err != nil {
		return err
	}

	return strategy.Finish()
}

func verifyExecutionBranch(header LightClientHeader) error {
	if err := merkle.VerifyProof(header.Beacon.BodyRoot, params.BodyIndexExecPayload, header.ExecutionBranch, merkle.Value(header.Execution.HashTreeRoot())); err != nil {
		return errorsmod.Wrap(ErrInvalidExecutionBranch, err.Error())
	}

	return nil
}

// CheckForMisbehaviour detects duplicate height misbehaviour and conflicting next sync
// committees within a period. Misbehaviour messages have already been verified.
func (cs ClientState) CheckForMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, msg exported.ClientMessage) bool {
	switch msg := msg.(type) {
	case *Header:
		if existing, found := GetConsensusState(clientStore, cdc, msg.GetHeight()); found && !existing.matches(msg.ConsensusState()) {
			return true
		}

		next := msg.ConsensusUpdate.NextSyncCommittee
		if next == nil {
			return false
		}

		trusted, found := GetConsensusState(clientStore, cdc, msg.TrustedSyncCommittee.TrustedHeight)
		if !found || trusted.NextSyncCommittee == (common.Hash{}) {
			return false
		}

		finalizedPeriod := cs.SyncCommitteePeriod(msg.ConsensusUpdate.FinalizedHeader.Beacon.Slot)
		return finalizedPeriod == cs.SyncCommitteePeriod(trusted.Slot) && next.HashTreeRoot() != trusted.NextSyncCommittee
	case *MisbehaviourFinalizedHeader, *MisbehaviourNextSyncCommittee:
		return true
	}

	return false
}

// UpdateStateOnMisbehaviour freezes the client at the height of the evidence.
func (cs ClientState) UpdateStateOnMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	var frozenHeight clienttypes.Height
	switch msg := clientMsg.(type) {
	case *Header:
		frozenHeight = msg.GetHeight()
	case *MisbehaviourFinalizedHeader:
		frozenHeight = msg.GetHeight()
	case *MisbehaviourNextSyncCommittee:
		frozenHeight = msg.GetHeight()
	default:
		panic(fmt.Errorf("unexpected client message type %T", clientMsg))
	}

	cs.FrozenHeight = frozenHeight
	setClientState(clientStore, cdc, &cs)
}

// UpdateState stores the consensus state of the finalized header and rotates the sync
// committees when the finalized slot enters the next period. A header whose consensus
// state is already stored leaves the state untouched.
func (cs ClientState) UpdateState(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		panic(fmt.Errorf("expected type %T, got %T", &Header{}, clientMsg))
	}

	height := header.GetHeight()
	if _, found := GetConsensusState(clientStore, cdc, height); found {
		return []exported.Height{height}
	}

	trusted, found := GetConsensusState(clientStore, cdc, header.TrustedSyncCommittee.TrustedHeight)
	if !found {
		panic(errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "trusted height %s", header.TrustedSyncCommittee.TrustedHeight))
	}

	update := header.ConsensusUpdate
	var next common.Hash
	if update.NextSyncCommittee != nil {
		next = update.NextSyncCommittee.HashTreeRoot()
	}

	consensusState := header.ConsensusState()
	trustedPeriod := cs.SyncCommitteePeriod(trusted.Slot)
	switch cs.SyncCommitteePeriod(update.FinalizedHeader.Beacon.Slot) {
	case trustedPeriod:
		consensusState.CurrentSyncCommittee = trusted.CurrentSyncCommittee
		consensusState.NextSyncCommittee = trusted.NextSyncCommittee
		if next != (common.Hash{}) {
			consensusState.NextSyncCommittee = next
		}
	case trustedPeriod + 1:
		consensusState.CurrentSyncCommittee = trusted.NextSyncCommittee
		consensusState.NextSyncCommittee = next
	default:
		panic(errorsmod.Wrapf(ErrInvalidSignaturePeriod, "finalized slot %d is more than one period after trusted slot %d",
			update.FinalizedHeader.Beacon.Slot, trusted.Slot))
	}

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
		cs.LatestSlot = consensusState.Slot
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, consensusState, height)

	return []exported.Height{height}
}
