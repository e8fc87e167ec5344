package rollup

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// L1ConsensusState is what a rollup client needs from a consensus state of its L1 client.
type L1ConsensusState interface {
	GetStateRoot() common.Hash
}

// VerifyClientMessage checks that clientMsg is a Header and verifies it.
func (cs *ClientState) VerifyClientMessage(now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec, clientMsg exported.ClientMessage) error {
	header, ok := clientMsg.(*Header)
	if !ok {
		return errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "expected type %T, got %T", &Header{}, clientMsg)
	}

	return cs.verifyHeader(now, vctx, cdc, header)
}

// verifyHeader proves the L2 block hash under the rollup contract storage of the L1 state
// and the IBC contract account under the state root of the L2 block.
// A header matching the consensus state already stored at its height is accepted as is.
func (cs *ClientState) verifyHeader(now time.Time, vctx clienttypes.VerificationContext, cdc codec.BinaryCodec, header *Header) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}

	if existing, found := GetConsensusState(vctx.ClientStore(), cdc, header.GetHeight()); found && existing.matches(header.ConsensusState()) {
		return nil
	}

	if header.GetTime().After(now.Add(cs.GetMaxClockDrift())) {
		return errorsmod.Wrapf(ErrHeaderFromFuture, "header time %s is after now %s plus max clock drift %s", header.GetTime(), now, cs.GetMaxClockDrift())
	}

	l1ConsState, err := clienttypes.GetConsensusState[L1ConsensusState](vctx, cs.L1ClientId, header.L1Height)
	if err != nil {
		return errorsmod.Wrapf(err, "could not get consensus state of L1 client %s at height %s", cs.L1ClientId, header.L1Height)
	}

	rollupStorageRoot, err := commitmenttypes.VerifyAccountStorageRoot(l1ConsState.GetStateRoot(), cs.RollupContractAddress, header.L1AccountProof)
	if err != nil {
		return errorsmod.Wrap(err, "rollup contract account")
	}

	slot := cs.L2BlockHashSlot(header.L2Header.Number)
	if err := commitmenttypes.VerifyStorageMembership(rollupStorageRoot, slot, header.L2Header.Hash(), header.L2HeaderProof); err != nil {
		return errorsmod.Wrapf(ErrInvalidL2HeaderProof, "L2 block %s: %s", header.L2Header.Number, err)
	}

	ibcStorageRoot, err := commitmenttypes.VerifyAccountStorageRoot(header.L2Header.Root, cs.IBCContractAddress, header.L2IBCAccountProof)
	if err != nil {
		return errorsmod.Wrap(err, "IBC contract account")
	}
	if ibcStorageRoot != header.L2IBCStorageRoot {
		return errorsmod.Wrapf(ErrStorageRootMismatch, "proven storage root %s, header claims %s", ibcStorageRoot, header.L2IBCStorageRoot)
	}

	return nil
}

// CheckForMisbehaviour reports a verified header conflicting with the consensus state
// stored at its height. Both are committed by the rollup contract, so the L1 client
// itself has accepted conflicting states.
func (ClientState) CheckForMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, msg exported.ClientMessage) bool {
	header, ok := msg.(*Header)
	if !ok {
		return false
	}

	existing, found := GetConsensusState(clientStore, cdc, header.GetHeight())
	return found && !existing.matches(header.ConsensusState())
}

// UpdateStateOnMisbehaviour freezes the client at the height of the conflicting header.
func (cs ClientState) UpdateStateOnMisbehaviour(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) {
	header, ok := clientMsg.(*Header)
	if !ok {
		panic(fmt.Errorf("expected type %T, got %T", &Header{}, clientMsg))
	}

	cs.FrozenHeight = header.GetHeight()
	setClientState(clientStore, cdc, &cs)
}

// UpdateState stores the consensus state of the L2 block and advances the latest height.
// A header whose consensus state is already stored leaves the state untouched.
func (cs ClientState) UpdateState(cdc codec.BinaryCodec, clientStore storetypes.KVStore, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		panic(fmt.Errorf("expected type %T, got %T", &Header{}, clientMsg))
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
