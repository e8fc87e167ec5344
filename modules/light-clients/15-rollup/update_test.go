package rollup_test

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
	rollup "github.com/cosmos/ibc-lightclients/modules/light-clients/15-rollup"
	ibctesting "github.com/cosmos/ibc-lightclients/testing"
)

func (s *RollupTestSuite) TestVerifyHeader() {
	var (
		header *rollup.Header
		now    time.Time
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success", func() {}, nil,
		},
		{
			"success: header time within max clock drift", func() {
				now = header.GetTime().Add(-maxClockDrift)
			}, nil,
		},
		{
			"success: header matches the stored consensus state", func() {
				header = s.header(trustedBlock)
				header.L2IBCStorageRoot = s.storage.Root()
				s.storeProvider.ClientStore(clientID).Set(host.ConsensusStateKey(height), clienttypes.MustMarshalConsensusState(s.cdc, header.ConsensusState()))
				header.L2HeaderProof = commitmenttypes.StorageProof{Proof: [][]byte{{0x01}}}
			}, nil,
		},
		{
			"nil L2 header", func() {
				header.L2Header = nil
			}, rollup.ErrInvalidHeader,
		},
		{
			"header from the future", func() {
				now = header.GetTime().Add(-maxClockDrift - time.Second)
			}, rollup.ErrHeaderFromFuture,
		},
		{
			"L1 consensus state not found", func() {
				header.L1Height = clienttypes.NewHeight(0, 1)
			}, clienttypes.ErrConsensusStateNotFound,
		},
		{
			"L1 client consensus state has no state root", func() {
				s.storeProvider.ClientStore(l1ClientID).Set(host.ConsensusStateKey(l1Height), clienttypes.MustMarshalConsensusState(s.cdc, &mock.ConsensusState{Timestamp: 1}))
			}, ibcerrors.ErrInvalidType,
		},
		{
			"L1 client references the rollup client itself", func() {
				clientState := s.clientState()
				clientState.L1ClientId = clientID
				s.storeProvider.ClientStore(clientID).Set(host.ClientStateKey(), clienttypes.MustMarshalClientState(s.cdc, clientState))
			}, clienttypes.ErrInvalidClientReference,
		},
		{
			"L1 state root does not hold the rollup contract", func() {
				s.setL1ConsensusState(l1Height, common.HexToHash("0xbad"))
			}, commitmenttypes.ErrInvalidAccountProof,
		},
		{
			"L2 block hash not committed", func() {
				header.L2Header.GasUsed++
			}, rollup.ErrInvalidL2HeaderProof,
		},
		{
			"L2 header proof for another block", func() {
				other, _ := s.rollupHeader(trustedBlock+2, s.storage)
				header.L2HeaderProof = other.L2HeaderProof
			}, rollup.ErrInvalidL2HeaderProof,
		},
		{
			"IBC storage root mismatch", func() {
				header.L2IBCStorageRoot = common.HexToHash("0x05")
			}, rollup.ErrStorageRootMismatch,
		},
		{
			"IBC account proof against another state", func() {
				other, _ := s.rollupHeader(trustedBlock+1, nil)
				header.L2IBCAccountProof = other.L2IBCAccountProof
			}, commitmenttypes.ErrInvalidAccountProof,
		},
		{
			"empty proofs", func() {
				header.L1AccountProof = commitmenttypes.AccountProof{}
			}, rollup.ErrInvalidHeader,
		},
		{
			"client frozen", func() {
				clientState := s.clientState()
				clientState.FrozenHeight = height
				s.storeProvider.ClientStore(clientID).Set(host.ClientStateKey(), clienttypes.MustMarshalClientState(s.cdc, clientState))
			}, clienttypes.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			header = s.header(trustedBlock + 1)
			now = s.now

			tc.malleate()

			err := s.module.VerifyClientMessage(now, clientID, header)
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *RollupTestSuite) TestVerifyInvalidClientMessage() {
	s.initClient()

	err := s.module.VerifyClientMessage(s.now, clientID, &mock.Header{})
	s.Require().ErrorIs(err, clienttypes.ErrInvalidClientType)

	err = s.module.VerifyClientMessage(s.now, "15-rollup-9", s.header(trustedBlock+1))
	s.Require().ErrorIs(err, clienttypes.ErrClientNotFound)
}

func (s *RollupTestSuite) TestUpdateState() {
	s.initClient()

	header := s.header(trustedBlock + 10)
	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, header))
	s.Require().False(s.module.CheckForMisbehaviour(clientID, header))

	heights := s.module.UpdateState(clientID, header)
	newHeight := clienttypes.NewHeight(0, trustedBlock+10)
	s.Require().Equal([]exported.Height{newHeight}, heights)

	s.Require().Equal(newHeight, s.clientState().LatestHeight)
	consensusState := s.consensusState(newHeight)
	s.Require().Equal(header.L2Header.Root, consensusState.StateRoot)
	s.Require().Equal(s.storage.Root(), consensusState.IBCStorageRoot)
	s.Require().Equal(header.GetTime(), consensusState.GetTime())

	// an older block is stored without moving the latest height back
	older := s.header(trustedBlock + 5)
	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, older))
	s.module.UpdateState(clientID, older)
	s.Require().Equal(newHeight, s.clientState().LatestHeight)
	s.consensusState(clienttypes.NewHeight(0, trustedBlock+5))

	// resubmission is idempotent
	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, header))
	s.Require().False(s.module.CheckForMisbehaviour(clientID, header))
	s.Require().Equal([]exported.Height{newHeight}, s.module.UpdateState(clientID, header))
	s.Require().Equal(newHeight, s.clientState().LatestHeight)
}

func (s *RollupTestSuite) TestUpdateStatePanics() {
	s.initClient()

	s.Require().Panics(func() { s.module.UpdateState(clientID, &mock.Header{}) })
	s.Require().Panics(func() { s.module.UpdateState("15-rollup-9", s.header(trustedBlock+1)) })
}

func (s *RollupTestSuite) TestConflictingHeaderFreezesClient() {
	s.initClient()

	header := s.header(trustedBlock + 1)
	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, header))
	s.module.UpdateState(clientID, header)

	// the rollup contract now commits a different block at the same number
	conflicting, l1StateRoot := ibctesting.CreateRollupHeader(ibctesting.RollupHeaderConfig{
		ClientState: s.newClientState(),
		L1Height:    clienttypes.NewHeight(0, l1Height.RevisionHeight+1),
		Number:      trustedBlock + 1,
		Time:        header.L2Header.Time + 1,
		Storage:     s.storage,
	})
	s.setL1ConsensusState(conflicting.L1Height, l1StateRoot)
	s.Require().NotEqual(header.L2Header.Hash(), conflicting.L2Header.Hash())

	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, conflicting))
	s.Require().True(s.module.CheckForMisbehaviour(clientID, conflicting))

	s.module.UpdateStateOnMisbehaviour(clientID, conflicting)
	s.Require().Equal(conflicting.GetHeight(), s.clientState().FrozenHeight)
	s.Require().Equal(exported.Frozen, s.module.Status(s.now, clientID))

	err := s.module.VerifyClientMessage(s.now, clientID, s.header(trustedBlock+2))
	s.Require().ErrorIs(err, clienttypes.ErrClientFrozen)
}

func (s *RollupTestSuite) TestL2BlockHashSlot() {
	clientState := s.newClientState()

	// keccak256(abi.encode(number, slot))
	expected := crypto.Keccak256Hash(common.BigToHash(big.NewInt(7)).Bytes(), blockHashesSlot.Bytes())
	s.Require().Equal(expected, clientState.L2BlockHashSlot(big.NewInt(7)))
	s.Require().NotEqual(expected, clientState.L2BlockHashSlot(big.NewInt(8)))
}
