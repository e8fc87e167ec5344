package ethereum_test

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
	ethereum "github.com/cosmos/ibc-lightclients/modules/light-clients/12-ethereum"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
	ibctesting "github.com/cosmos/ibc-lightclients/testing"
)

// signers returns the indices of the first n members of a committee.
func signers(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func (s *EthereumTestSuite) TestVerifyHeader() {
	var (
		header exported.ClientMessage
		now    time.Time
	)

	otherCommittee := ibctesting.NewSyncCommitteeKeys(3, ethereum.SyncCommitteeSizeMinimal)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: finalized header in the trusted period", func() {}, nil,
		},
		{
			"success: header revealing the next sync committee", func() {
				cfg := s.headerConfig(110, 1010)
				cfg.NextSyncCommittee = ibctesting.NewSyncCommittee(s.nextCommittee)
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, nil,
		},
		{
			"success: header signed by the next sync committee", func() {
				s.initClient(s.nextCommittee)

				cfg := s.headerConfig(130, 1030)
				cfg.Committee = s.nextCommittee
				cfg.IsNext = true
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, nil,
		},
		{
			"success: exactly two thirds of the committee participate", func() {
				cfg := s.headerConfig(110, 1010)
				cfg.Signers = signers(22)
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, nil,
		},
		{
			"success: duplicate of a trusted header after the trusting period", func() {
				s.update(s.header(110, 1010))
				header = s.header(110, 1010)
				now = s.slotTime(trustedSlot).Add(trustingPeriod * 2)
			}, nil,
		},
		{
			"unsupported client message", func() {
				header = &mock.Header{}
			}, clienttypes.ErrInvalidClientType,
		},
		{
			"empty header", func() {
				header = &ethereum.Header{}
			}, ethereum.ErrInvalidHeader,
		},
		{
			"trusted consensus state not found", func() {
				cfg := s.headerConfig(110, 1010)
				cfg.TrustedHeight = clienttypes.NewHeight(0, trustedBlock-1)
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, clienttypes.ErrConsensusStateNotFound,
		},
		{
			"finalized slot not after the trusted slot", func() {
				header = s.header(trustedSlot, trustedBlock+1)
			}, ethereum.ErrInvalidSlot,
		},
		{
			"header from the future", func() {
				now = s.slotTime(110).Add(-maxClockDrift - time.Second)
			}, ethereum.ErrHeaderFromFuture,
		},
		{
			"trusting period expired", func() {
				now = s.slotTime(trustedSlot).Add(trustingPeriod)
			}, ethereum.ErrTrustingPeriodExpired,
		},
		{
			"next sync committee of the trusted state unknown", func() {
				cfg := s.headerConfig(130, 1030)
				cfg.Committee = s.nextCommittee
				cfg.IsNext = true
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, ethereum.ErrNextSyncCommitteeUnknown,
		},
		{
			"sync committee does not match the trusted state", func() {
				cfg := s.headerConfig(110, 1010)
				cfg.Committee = s.nextCommittee
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, ethereum.ErrTrustedSyncCommitteeMismatch,
		},
		{
			"signature slot in the next period signed by the current committee", func() {
				cfg := s.headerConfig(120, 1020)
				cfg.SignatureSlot = 130
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, ethereum.ErrInvalidSignaturePeriod,
		},
		{
			"execution timestamp does not match the finalized slot", func() {
				ethHeader := s.header(110, 1010)
				ethHeader.ConsensusUpdate.FinalizedHeader.Execution.Timestamp++
				header = ethHeader
			}, ethereum.ErrInvalidTimestamp,
		},
		{
			"less than two thirds of the committee participate", func() {
				cfg := s.headerConfig(110, 1010)
				cfg.Signers = signers(21)
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, ethereum.ErrInsufficientParticipants,
		},
		{
			"invalid execution branch", func() {
				ethHeader := s.header(110, 1010)
				ethHeader.ConsensusUpdate.FinalizedHeader.ExecutionBranch[0][0] ^= 1
				header = ethHeader
			}, ethereum.ErrInvalidExecutionBranch,
		},
		{
			"invalid finality branch", func() {
				ethHeader := s.header(110, 1010)
				ethHeader.ConsensusUpdate.FinalityBranch[0][0] ^= 1
				header = ethHeader
			}, ethereum.ErrInvalidFinalityBranch,
		},
		{
			"invalid next sync committee branch", func() {
				cfg := s.headerConfig(110, 1010)
				cfg.NextSyncCommittee = ibctesting.NewSyncCommittee(s.nextCommittee)
				ethHeader := ibctesting.CreateEthereumHeader(s.T(), cfg)
				ethHeader.ConsensusUpdate.NextSyncCommitteeBranch[0][0] ^= 1
				header = ethHeader
			}, ethereum.ErrInvalidNextSyncCommitteeBranch,
		},
		{
			"next sync committee attested after the finalized period", func() {
				s.initClient(s.nextCommittee)

				cfg := s.headerConfig(120, 1020)
				cfg.Committee = s.nextCommittee
				cfg.IsNext = true
				cfg.AttestedSlot = 128
				cfg.SignatureSlot = 129
				cfg.NextSyncCommittee = ibctesting.NewSyncCommittee(otherCommittee)
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, ethereum.ErrInvalidNextSyncCommitteePeriod,
		},
		{
			"signed by another committee", func() {
				ethHeader := s.header(110, 1010)
				ethHeader.ConsensusUpdate.SyncAggregate = ibctesting.SignSyncAggregate(s.newClientState(), ethHeader.ConsensusUpdate, otherCommittee, signers(32))
				header = ethHeader
			}, quorum.ErrSignatureVerificationFailed,
		},
		{
			"signed under the domain of another chain", func() {
				cfg := s.headerConfig(110, 1010)
				cfg.ClientState.GenesisValidatorsRoot = common.HexToHash("0x01")
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, quorum.ErrSignatureVerificationFailed,
		},
		{
			"storage root does not match the account proof", func() {
				ethHeader := s.header(110, 1010)
				ethHeader.AccountUpdate.StorageRoot = common.HexToHash("0xbeef")
				header = ethHeader
			}, ethereum.ErrStorageRootMismatch,
		},
		{
			"account proof of another state", func() {
				other := ibctesting.NewStateTrie()
				other.SetAccount(contractAddress, s.storage.Root())

				ethHeader := s.header(110, 1010)
				ethHeader.AccountUpdate.AccountProof = other.Prove(contractAddress)
				header = ethHeader
			}, commitmenttypes.ErrInvalidAccountProof,
		},
		{
			"client is frozen", func() {
				s.module.UpdateStateOnMisbehaviour(clientID, s.header(110, 1010))
			}, clienttypes.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient(nil)

			now = s.now
			header = s.header(110, 1010)

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

func (s *EthereumTestSuite) TestUpdateState() {
	var (
		header *ethereum.Header
		// next is the next sync committee known to the client on creation
		next []*ibctesting.BLSKey
	)

	committeeRoot := ibctesting.NewSyncCommittee(s.committee).HashTreeRoot()
	nextCommitteeRoot := ibctesting.NewSyncCommittee(s.nextCommittee).HashTreeRoot()
	otherCommittee := ibctesting.NewSyncCommitteeKeys(3, ethereum.SyncCommitteeSizeMinimal)

	testCases := []struct {
		name          string
		malleate      func()
		expCurrent    common.Hash
		expNext       func() common.Hash
		expLatestSlot uint64
	}{
		{
			"finalized header in the trusted period",
			func() {
				header = s.header(110, 1010)
			},
			committeeRoot, func() common.Hash { return common.Hash{} }, 110,
		},
		{
			"known next sync committee is carried over",
			func() {
				next = s.nextCommittee
				header = s.header(110, 1010)
			},
			committeeRoot, func() common.Hash { return nextCommitteeRoot }, 110,
		},
		{
			"revealed next sync committee is stored",
			func() {
				cfg := s.headerConfig(110, 1010)
				cfg.NextSyncCommittee = ibctesting.NewSyncCommittee(s.nextCommittee)
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			},
			committeeRoot, func() common.Hash { return nextCommitteeRoot }, 110,
		},
		{
			"next period rotates the sync committees",
			func() {
				next = s.nextCommittee
				cfg := s.headerConfig(130, 1030)
				cfg.Committee = s.nextCommittee
				cfg.IsNext = true
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			},
			nextCommitteeRoot, func() common.Hash { return common.Hash{} }, 130,
		},
		{
			"next period rotates the sync committees and reveals the following one",
			func() {
				next = s.nextCommittee
				cfg := s.headerConfig(130, 1030)
				cfg.Committee = s.nextCommittee
				cfg.IsNext = true
				cfg.NextSyncCommittee = ibctesting.NewSyncCommittee(otherCommittee)
				header = ibctesting.CreateEthereumHeader(s.T(), cfg)
			},
			nextCommitteeRoot, func() common.Hash { return ibctesting.NewSyncCommittee(otherCommittee).HashTreeRoot() }, 130,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			next = nil

			tc.malleate()
			s.initClient(next)

			s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, header))
			heights := s.module.UpdateState(clientID, header)
			s.Require().Equal([]exported.Height{header.GetHeight()}, heights)

			clientState := s.clientState()
			s.Require().Equal(header.GetHeight(), clientState.LatestHeight)
			s.Require().Equal(tc.expLatestSlot, clientState.LatestSlot)

			consensusState := s.consensusState(header.GetHeight())
			s.Require().Equal(tc.expLatestSlot, consensusState.Slot)
			s.Require().Equal(header.ConsensusUpdate.FinalizedHeader.Execution.StateRoot, consensusState.StateRoot)
			s.Require().Equal(s.storage.Root(), consensusState.StorageRoot)
			s.Require().Equal(uint64(s.slotTime(tc.expLatestSlot).UnixNano()), consensusState.Timestamp)
			s.Require().Equal(tc.expCurrent, consensusState.CurrentSyncCommittee)
			s.Require().Equal(tc.expNext(), consensusState.NextSyncCommittee)
		})
	}
}

func (s *EthereumTestSuite) TestUpdateStateRatchetsLatestHeight() {
	s.initClient(nil)

	s.update(s.header(110, 1010))
	s.update(s.header(105, 1005))

	clientState := s.clientState()
	s.Require().Equal(clienttypes.NewHeight(0, 1010), clientState.LatestHeight)
	s.Require().Equal(uint64(110), clientState.LatestSlot)
	s.Require().Equal(uint64(105), s.consensusState(clienttypes.NewHeight(0, 1005)).Slot)
}

func (s *EthereumTestSuite) TestUpdateStateDuplicateHeader() {
	s.initClient(nil)

	header := s.header(110, 1010)
	s.update(header)
	clientStateBefore := s.clientState()
	consensusStateBefore := s.consensusState(header.GetHeight())

	heights := s.module.UpdateState(clientID, s.header(110, 1010))
	s.Require().Equal([]exported.Height{header.GetHeight()}, heights)
	s.Require().Equal(clientStateBefore, s.clientState())
	s.Require().Equal(consensusStateBefore, s.consensusState(header.GetHeight()))
}

func (s *EthereumTestSuite) TestUpdateStatePanics() {
	s.initClient(nil)

	s.Require().Panics(func() {
		s.module.UpdateState(clientID, &mock.Header{})
	})

	s.Require().Panics(func() {
		cfg := s.headerConfig(110, 1010)
		cfg.TrustedHeight = clienttypes.NewHeight(0, trustedBlock-1)
		s.module.UpdateState(clientID, ibctesting.CreateEthereumHeader(s.T(), cfg))
	})
}

func (s *EthereumTestSuite) TestCheckForMisbehaviour() {
	var clientMsg exported.ClientMessage

	otherCommittee := ibctesting.NewSyncCommitteeKeys(3, ethereum.SyncCommitteeSizeMinimal)

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
	}{
		{
			"header at a new height", func() {}, false,
		},
		{
			"duplicate of a stored header", func() {
				s.update(s.header(110, 1010))
			}, false,
		},
		{
			"header conflicting with a stored consensus state", func() {
				s.update(s.header(110, 1010))

				storage := ibctesting.NewStorageTrie()
				storage.Set(common.HexToHash("0x01"), common.HexToHash("0x02"))
				cfg := s.headerConfig(110, 1010)
				cfg.Storage = storage
				clientMsg = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, true,
		},
		{
			"header revealing the known next sync committee", func() {
				s.initClient(s.nextCommittee)

				cfg := s.headerConfig(110, 1010)
				cfg.NextSyncCommittee = ibctesting.NewSyncCommittee(s.nextCommittee)
				clientMsg = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, false,
		},
		{
			"header revealing a different next sync committee", func() {
				s.initClient(s.nextCommittee)

				cfg := s.headerConfig(110, 1010)
				cfg.NextSyncCommittee = ibctesting.NewSyncCommittee(otherCommittee)
				clientMsg = ibctesting.CreateEthereumHeader(s.T(), cfg)
			}, true,
		},
		{
			"finalized header misbehaviour", func() {
				clientMsg = s.finalizedHeaderMisbehaviour()
			}, true,
		},
		{
			"next sync committee misbehaviour", func() {
				clientMsg = s.nextSyncCommitteeMisbehaviour()
			}, true,
		},
		{
			"unsupported client message", func() {
				clientMsg = &mock.Header{}
			}, false,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient(nil)

			clientMsg = s.header(110, 1010)

			tc.malleate()

			s.Require().Equal(tc.expPass, s.module.CheckForMisbehaviour(clientID, clientMsg))
		})
	}
}

func (s *EthereumTestSuite) TestUpdateStateOnMisbehaviour() {
	testCases := []struct {
		name            string
		clientMsg       func() exported.ClientMessage
		expFrozenHeight clienttypes.Height
	}{
		{
			"conflicting header", func() exported.ClientMessage { return s.header(110, 1010) }, clienttypes.NewHeight(0, 1010),
		},
		{
			"finalized header misbehaviour", func() exported.ClientMessage { return s.finalizedHeaderMisbehaviour() }, clienttypes.NewHeight(0, 1010),
		},
		{
			"next sync committee misbehaviour", func() exported.ClientMessage { return s.nextSyncCommitteeMisbehaviour() }, clienttypes.NewHeight(0, 1010),
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient(nil)

			s.module.UpdateStateOnMisbehaviour(clientID, tc.clientMsg())

			s.Require().Equal(tc.expFrozenHeight, s.clientState().FrozenHeight)
			s.Require().Equal(exported.Frozen, s.module.Status(s.now, clientID))
		})
	}

	s.Require().Panics(func() {
		s.module.UpdateStateOnMisbehaviour(clientID, &mock.Header{})
	})
}
