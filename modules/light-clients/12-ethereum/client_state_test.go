package ethereum_test

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-lightclients/modules/core/23-commitment/types"
	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	ethereum "github.com/cosmos/ibc-lightclients/modules/light-clients/12-ethereum"
)

func (s *EthereumTestSuite) TestValidate() {
	var clientState *ethereum.ClientState

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success", func() {}, nil,
		},
		{
			"success: mainnet sync committee size", func() {
				clientState.SyncCommitteeSize = ethereum.SyncCommitteeSizeMainnet
			}, nil,
		},
		{
			"empty chain id", func() {
				clientState.ChainId = "  "
			}, ethereum.ErrInvalidChainID,
		},
		{
			"forks not ordered by epoch", func() {
				clientState.ForkParameters.Forks[1].Epoch = 0
			}, ethereum.ErrInvalidForkParameters,
		},
		{
			"zero seconds per slot", func() {
				clientState.SecondsPerSlot = 0
			}, ethereum.ErrInvalidSlotParameters,
		},
		{
			"zero slots per epoch", func() {
				clientState.SlotsPerEpoch = 0
			}, ethereum.ErrInvalidSlotParameters,
		},
		{
			"zero epochs per sync committee period", func() {
				clientState.EpochsPerSyncCommitteePeriod = 0
			}, ethereum.ErrInvalidSlotParameters,
		},
		{
			"unsupported sync committee size", func() {
				clientState.SyncCommitteeSize = 64
			}, ethereum.ErrInvalidSyncCommittee,
		},
		{
			"zero min participants", func() {
				clientState.MinSyncCommitteeParticipants = 0
			}, ethereum.ErrInvalidSyncCommittee,
		},
		{
			"min participants exceeds the committee size", func() {
				clientState.MinSyncCommitteeParticipants = ethereum.SyncCommitteeSizeMinimal + 1
			}, ethereum.ErrInvalidSyncCommittee,
		},
		{
			"zero trusting period", func() {
				clientState.TrustingPeriod = 0
			}, ethereum.ErrInvalidSlotParameters,
		},
		{
			"max clock drift overflows a duration", func() {
				clientState.MaxClockDrift = 1 << 63
			}, ethereum.ErrInvalidSlotParameters,
		},
		{
			"latest height with a revision", func() {
				clientState.LatestHeight = clienttypes.NewHeight(1, trustedBlock)
			}, ibcerrors.ErrInvalidHeight,
		},
		{
			"zero latest height", func() {
				clientState.LatestHeight = clienttypes.ZeroHeight()
			}, ibcerrors.ErrInvalidHeight,
		},
		{
			"frozen client", func() {
				clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
			}, clienttypes.ErrInvalidClient,
		},
		{
			"empty contract address", func() {
				clientState.IBCContractAddress = common.Address{}
			}, ethereum.ErrInvalidContractAddress,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			clientState = s.newClientState()

			tc.malleate()

			err := clientState.Validate()

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *EthereumTestSuite) TestInitialize() {
	var (
		clientStateBz    []byte
		consensusStateBz []byte
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
			"client state cannot be unpacked", func() {
				clientStateBz = []byte("invalid")
			}, clienttypes.ErrInvalidClient,
		},
		{
			"invalid client state", func() {
				clientState := s.newClientState()
				clientState.IBCContractAddress = common.Address{}
				clientStateBz = s.marshalInterface(clientState)
			}, ethereum.ErrInvalidContractAddress,
		},
		{
			"consensus state cannot be unpacked", func() {
				consensusStateBz = []byte("invalid")
			}, clienttypes.ErrInvalidConsensus,
		},
		{
			"consensus state without sync committee", func() {
				consensusState := s.newConsensusState(nil)
				consensusState.CurrentSyncCommittee = common.Hash{}
				consensusStateBz = s.marshalInterface(consensusState)
			}, clienttypes.ErrInvalidConsensus,
		},
		{
			"consensus state slot differs from the latest slot", func() {
				consensusState := s.newConsensusState(nil)
				consensusState.Slot++
				consensusStateBz = s.marshalInterface(consensusState)
			}, clienttypes.ErrInvalidConsensus,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()

			clientStateBz = s.marshalInterface(s.newClientState())
			consensusStateBz = s.marshalInterface(s.newConsensusState(nil))

			tc.malleate()

			err := s.module.Initialize(clientID, clientStateBz, consensusStateBz)

			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().Equal(s.newClientState(), s.clientState())
				s.Require().Equal(s.newConsensusState(nil), s.consensusState(height))
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *EthereumTestSuite) TestStatus() {
	var now time.Time

	testCases := []struct {
		name      string
		malleate  func()
		expStatus exported.Status
	}{
		{
			"client is active", func() {}, exported.Active,
		},
		{
			"client is expired", func() {
				now = s.slotTime(trustedSlot).Add(trustingPeriod)
			}, exported.Expired,
		},
		{
			"client is frozen", func() {
				s.module.UpdateStateOnMisbehaviour(clientID, s.header(110, 1010))
			}, exported.Frozen,
		},
		{
			"client does not exist", func() {
				s.SetupTest()
			}, exported.Unknown,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient(nil)

			now = s.now

			tc.malleate()

			s.Require().Equal(tc.expStatus, s.module.Status(now, clientID))
		})
	}
}

func (s *EthereumTestSuite) TestVerifyMembership() {
	var (
		proofHeight exported.Height
		proof       []byte
		path        exported.Path
		value       []byte
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
			"success: proof against an updated consensus state", func() {
				s.update(s.header(110, 1010))
				proofHeight = clienttypes.NewHeight(0, 1010)
			}, nil,
		},
		{
			"value does not match the commitment", func() {
				value = []byte("other commitment")
			}, commitmenttypes.ErrStorageValueMismatch,
		},
		{
			"proof of another key", func() {
				path = commitmenttypes.NewMerklePath(absentKey)
			}, commitmenttypes.ErrStorageValueMismatch,
		},
		{
			"proof height after the latest height", func() {
				proofHeight = clienttypes.NewHeight(0, trustedBlock+1)
			}, ibcerrors.ErrInvalidHeight,
		},
		{
			"consensus state not found", func() {
				proofHeight = clienttypes.NewHeight(0, trustedBlock-1)
			}, clienttypes.ErrConsensusStateNotFound,
		},
		{
			"malformed proof", func() {
				proof = []byte("invalid")
			}, commitmenttypes.ErrInvalidStorageProof,
		},
		{
			"proof against another storage root", func() {
				proof = s.cdc.MustMarshal(commitmenttypes.StorageProof{Proof: [][]byte{{0xc0}}})
			}, commitmenttypes.ErrInvalidStorageProof,
		},
		{
			"path with several keys", func() {
				path = commitmenttypes.NewMerklePath(commitKey, commitKey)
			}, ethereum.ErrInvalidCommitmentPath,
		},
		{
			"path is not a merkle path", func() {
				path = commitmenttypes.NewMerklePrefix(commitKey)
			}, ibcerrors.ErrInvalidType,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient(nil)

			proofHeight = height
			proof = s.cdc.MustMarshal(s.storage.Prove(s.newClientState().CommitmentSlot(commitKey)))
			path = commitmenttypes.NewMerklePath(commitKey)
			value = commitValue

			tc.malleate()

			err := s.module.VerifyMembership(clientID, proofHeight, proof, path, value)

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *EthereumTestSuite) TestVerifyNonMembership() {
	var (
		proof []byte
		path  exported.Path
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
			"key is committed", func() {
				proof = s.cdc.MustMarshal(s.storage.Prove(s.newClientState().CommitmentSlot(commitKey)))
				path = commitmenttypes.NewMerklePath(commitKey)
			}, commitmenttypes.ErrStorageValueMismatch,
		},
		{
			"empty path", func() {
				path = commitmenttypes.NewMerklePath()
			}, ethereum.ErrInvalidCommitmentPath,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient(nil)

			proof = s.cdc.MustMarshal(s.storage.Prove(s.newClientState().CommitmentSlot(absentKey)))
			path = commitmenttypes.NewMerklePath(absentKey)

			tc.malleate()

			err := s.module.VerifyNonMembership(clientID, height, proof, path)

			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *EthereumTestSuite) TestSlotArithmetic() {
	clientState := s.newClientState()

	s.Require().Equal(uint64(12), clientState.ComputeEpoch(100))
	s.Require().Equal(uint64(1), clientState.SyncCommitteePeriod(127))
	s.Require().Equal(uint64(2), clientState.SyncCommitteePeriod(128))
	s.Require().Equal(uint64(genesisTime.Unix())+600, clientState.TimestampAtSlot(100))

	// the header signed at slot 17 belongs to slot 16, the first slot of epoch 2
	s.Require().Equal(ethereum.ComputeDomain(ethereum.DomainSyncCommittee, [4]byte{0x04, 0x00, 0x00, 0x01}, clientState.GenesisValidatorsRoot), clientState.SyncCommitteeDomain(17))
	s.Require().Equal(ethereum.ComputeDomain(ethereum.DomainSyncCommittee, [4]byte{0x01, 0x00, 0x00, 0x01}, clientState.GenesisValidatorsRoot), clientState.SyncCommitteeDomain(16))
	s.Require().NotEqual(clientState.SyncCommitteeDomain(16), clientState.SyncCommitteeDomain(17))
}

func (s *EthereumTestSuite) TestTimestampAtHeight() {
	s.initClient(nil)

	timestamp, err := s.module.TimestampAtHeight(clientID, height)
	s.Require().NoError(err)
	s.Require().Equal(uint64(s.slotTime(trustedSlot).UnixNano()), timestamp)

	_, err = s.module.TimestampAtHeight(clientID, clienttypes.NewHeight(0, 1))
	s.Require().ErrorIs(err, clienttypes.ErrConsensusStateNotFound)

	chainIDResult, err := s.module.CounterpartyChainID(clientID)
	s.Require().NoError(err)
	s.Require().Equal(chainID, chainIDResult)
	s.Require().Equal(height, s.module.LatestHeight(clientID))
}
