package tendermint_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
	ibctesting "github.com/cosmos/ibc-lightclients/testing"
)

func (s *TendermintTestSuite) TestVerifyHeader() {
	var (
		header exported.ClientMessage
		now    time.Time
	)

	adjacentTime := s.headerTime.Add(time.Minute)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: adjacent header", func() {}, nil,
		},
		{
			"success: non-adjacent header", func() {
				header = s.header(7, adjacentTime, height)
			}, nil,
		},
		{
			"success: non-adjacent header with a new validator joining", func() {
				grown := ibctesting.NewTendermintValidators("suite", 10, 10, 10, 5)
				header = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID: chainID, Height: 7, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: grown, TrustedVals: s.vals.ValSet,
				})
			}, nil,
		},
		{
			"success: exactly two thirds of the voting power signed", func() {
				header = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID: chainID, Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, TrustedVals: s.vals.ValSet,
					Signers: s.vals.Subset(0, 1),
				})
			}, nil,
		},
		{
			"success: one invalid signature is not counted", func() {
				tmHeader := s.header(5, adjacentTime, height)
				tmHeader.Commit.Signatures[0].Signature = ibctesting.FlipByte(tmHeader.Commit.Signatures[0].Signature, 0)
				header = tmHeader
			}, nil,
		},
		{
			"success: header time equal to now plus max clock drift", func() {
				header = s.header(5, now.Add(maxClockDrift), height)
			}, nil,
		},
		{
			"success: duplicate of a trusted header after the trusting period", func() {
				s.update(s.header(5, adjacentTime, height))
				header = s.header(5, adjacentTime, height)
				now = s.headerTime.Add(trustingPeriod * 2)
			}, nil,
		},
		{
			"unsupported client message", func() {
				header = &mock.Header{}
			}, clienttypes.ErrInvalidClientType,
		},
		{
			"signed header is nil", func() {
				header = &ibctm.Header{}
			}, clienttypes.ErrInvalidHeader,
		},
		{
			"chain-id does not match", func() {
				header = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID: "osmosis-1", Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, TrustedVals: s.vals.ValSet,
				})
			}, ibctm.ErrInvalidChainID,
		},
		{
			"trusted consensus state not found", func() {
				header = s.header(5, adjacentTime, clienttypes.NewHeight(1, 3))
			}, clienttypes.ErrConsensusStateNotFound,
		},
		{
			"header time is not after the trusted time", func() {
				header = s.header(5, s.headerTime, height)
			}, ibctm.ErrUntrustedHeaderNotNewer,
		},
		{
			"trusted consensus state expired", func() {
				now = s.headerTime.Add(trustingPeriod)
			}, ibctm.ErrTrustingPeriodExpired,
		},
		{
			"header time exceeds max clock drift", func() {
				header = s.header(5, now.Add(maxClockDrift).Add(time.Nanosecond), height)
			}, ibctm.ErrHeaderFromFuture,
		},
		{
			"adjacent header signed by a different validator set", func() {
				other := ibctesting.NewTendermintValidators("other", 10, 10, 10)
				header = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID: chainID, Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: other, TrustedVals: s.vals.ValSet,
				})
			}, ibctm.ErrInvalidValidatorSet,
		},
		{
			"non-adjacent header with untrusted trusted validators", func() {
				other := ibctesting.NewTendermintValidators("other", 10, 10, 10)
				header = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID: chainID, Height: 7, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, TrustedVals: other.ValSet,
				})
			}, ibctm.ErrInvalidValidatorSet,
		},
		{
			"non-adjacent header signed by an unknown validator set", func() {
				other := ibctesting.NewTendermintValidators("other", 10, 10, 10)
				header = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID: chainID, Height: 7, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: other, TrustedVals: s.vals.ValSet,
				})
			}, quorum.ErrInsufficientVotingPower,
		},
		{
			"less than two thirds of the voting power signed", func() {
				header = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID: chainID, Height: 5, Time: adjacentTime, AppHash: s.appHash,
					TrustedHeight: height, Vals: s.vals, TrustedVals: s.vals.ValSet,
					Signers: s.vals.Subset(0),
				})
			}, quorum.ErrInsufficientVotingPower,
		},
		{
			"two invalid signatures leave one third", func() {
				tmHeader := s.header(5, adjacentTime, height)
				for i := 0; i < 2; i++ {
					tmHeader.Commit.Signatures[i].Signature = ibctesting.FlipByte(tmHeader.Commit.Signatures[i].Signature, 0)
				}
				header = tmHeader
			}, quorum.ErrInsufficientVotingPower,
		},
		{
			"commit signature attributed to the wrong validator", func() {
				tmHeader := s.header(5, adjacentTime, height)
				sigs := tmHeader.Commit.Signatures
				sigs[0].ValidatorAddress, sigs[1].ValidatorAddress = sigs[1].ValidatorAddress, sigs[0].ValidatorAddress
				header = tmHeader
			}, ibctm.ErrInvalidCommit,
		},
		{
			"client is frozen", func() {
				s.module.UpdateStateOnMisbehaviour(clientID, s.header(5, adjacentTime, height))
			}, clienttypes.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			now = s.now
			header = s.header(5, adjacentTime, height)

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

func (s *TendermintTestSuite) TestVerifyHeaderGuardOrder() {
	s.initClient()

	// wrong chain-id, unknown trusted height and expired trust: the chain-id is reported
	header := ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
		ChainID: "osmosis-1", Height: 5, Time: s.headerTime.Add(time.Minute), AppHash: s.appHash,
		TrustedHeight: clienttypes.NewHeight(1, 3), Vals: s.vals, TrustedVals: s.vals.ValSet,
	})
	err := s.module.VerifyClientMessage(s.headerTime.Add(trustingPeriod), clientID, header)
	s.Require().ErrorIs(err, ibctm.ErrInvalidChainID)
	s.Require().Equal(clienttypes.Consistency, clienttypes.ClassifyError(err))

	// expired trust is reported before the signatures are verified
	header = s.header(5, s.headerTime.Add(time.Minute), height)
	for i := range header.Commit.Signatures {
		header.Commit.Signatures[i].Signature = ibctesting.FlipByte(header.Commit.Signatures[i].Signature, 0)
	}
	err = s.module.VerifyClientMessage(s.headerTime.Add(trustingPeriod), clientID, header)
	s.Require().ErrorIs(err, ibctm.ErrTrustingPeriodExpired)
	s.Require().Equal(clienttypes.Temporal, clienttypes.ClassifyError(err))
}

func (s *TendermintTestSuite) TestUpdateState() {
	var (
		header        *ibctm.Header
		expLatest     clienttypes.Height
		expConsHeight clienttypes.Height
	)

	testCases := []struct {
		name     string
		malleate func()
	}{
		{
			"success with height later than latest height", func() {
				header = s.header(5, s.headerTime.Add(time.Minute), height)
				expLatest = clienttypes.NewHeight(1, 5)
				expConsHeight = expLatest
			},
		},
		{
			"success with height earlier than latest height", func() {
				s.update(s.header(8, s.headerTime.Add(2*time.Minute), height))

				header = s.header(6, s.headerTime.Add(time.Minute), height)
				expLatest = clienttypes.NewHeight(1, 8)
				expConsHeight = clienttypes.NewHeight(1, 6)
			},
		},
		{
			"success with duplicate header", func() {
				header = s.header(5, s.headerTime.Add(time.Minute), height)
				s.update(header)

				expLatest = clienttypes.NewHeight(1, 5)
				expConsHeight = expLatest
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			tc.malleate()

			s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, header))
			s.Require().False(s.module.CheckForMisbehaviour(clientID, header))

			consensusHeights := s.module.UpdateState(clientID, header)
			s.Require().Equal([]exported.Height{expConsHeight}, consensusHeights)

			s.Require().Equal(expLatest, s.module.LatestHeight(clientID))
			s.Require().True(header.ConsensusState().Equal(s.consensusState(expConsHeight)))

			clientStore := s.storeProvider.ClientStore(clientID)
			s.Require().NotNil(ibctm.GetIterationKey(clientStore, expConsHeight))
		})
	}
}

func (s *TendermintTestSuite) TestLatestHeightNeverDecreases() {
	s.initClient()

	s.update(s.header(9, s.headerTime.Add(3*time.Minute), height))
	s.update(s.header(6, s.headerTime.Add(time.Minute), height))
	s.update(s.header(7, s.headerTime.Add(2*time.Minute), clienttypes.NewHeight(1, 6)))

	s.Require().Equal(clienttypes.NewHeight(1, 9), s.module.LatestHeight(clientID))
	s.Require().Equal(exported.Active, s.module.Status(s.now, clientID))
}

func (s *TendermintTestSuite) TestPruneConsensusState() {
	s.initClient()

	s.update(s.header(5, s.headerTime.Add(time.Minute), height))

	// the consensus state at the initial height expires relative to the next header
	expiredTime := s.headerTime.Add(trustingPeriod).Add(30 * time.Second)
	s.now = expiredTime.Add(time.Second)
	s.update(s.header(6, expiredTime, clienttypes.NewHeight(1, 5)))

	clientStore := s.storeProvider.ClientStore(clientID)
	_, found := ibctm.GetConsensusState(clientStore, s.cdc, height)
	s.Require().False(found)
	s.Require().Nil(ibctm.GetIterationKey(clientStore, height))

	_, found = ibctm.GetConsensusState(clientStore, s.cdc, clienttypes.NewHeight(1, 5))
	s.Require().True(found)
	_, found = ibctm.GetConsensusState(clientStore, s.cdc, clienttypes.NewHeight(1, 6))
	s.Require().True(found)
}

func (s *TendermintTestSuite) TestCheckForMisbehaviour() {
	var clientMessage exported.ClientMessage

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
	}{
		{
			"valid update no misbehaviour", func() {}, false,
		},
		{
			"consensus state already exists, already updated", func() {
				header := s.header(5, s.headerTime.Add(time.Minute), height)
				s.update(header)
				clientMessage = header
			}, false,
		},
		{
			"invalid fork misbehaviour: identical headers", func() {
				header := s.header(5, s.headerTime.Add(time.Minute), height)
				clientMessage = ibctm.NewMisbehaviour(clientID, header, header)
			}, false,
		},
		{
			"invalid time misbehaviour: monotonically increasing time", func() {
				header1 := s.header(6, s.headerTime.Add(2*time.Minute), height)
				header2 := s.header(5, s.headerTime.Add(time.Minute), height)
				clientMessage = ibctm.NewMisbehaviour(clientID, header1, header2)
			}, false,
		},
		{
			"consensus state already exists, app hash mismatch", func() {
				s.update(s.header(5, s.headerTime.Add(time.Minute), height))

				header := s.header(5, s.headerTime.Add(time.Minute), height)
				header.Header.AppHash = []byte("conflicting app hash")
				clientMessage = header
			}, true,
		},
		{
			"previous consensus state exists and header time is before previous consensus state time", func() {
				s.update(s.header(6, s.headerTime.Add(2*time.Minute), height))

				clientMessage = s.header(7, s.headerTime.Add(time.Minute), clienttypes.NewHeight(1, 6))
			}, true,
		},
		{
			"next consensus state exists and header time is after next consensus state time", func() {
				s.update(s.header(7, s.headerTime.Add(time.Minute), height))

				clientMessage = s.header(6, s.headerTime.Add(2*time.Minute), height)
			}, true,
		},
		{
			"valid fork misbehaviour", func() {
				header1 := s.header(5, s.headerTime.Add(time.Minute), height)
				header2 := s.header(5, s.headerTime.Add(2*time.Minute), height)
				clientMessage = ibctm.NewMisbehaviour(clientID, header1, header2)
			}, true,
		},
		{
			"valid time misbehaviour", func() {
				header1 := s.header(6, s.headerTime.Add(time.Minute), height)
				header2 := s.header(5, s.headerTime.Add(2*time.Minute), height)
				clientMessage = ibctm.NewMisbehaviour(clientID, header1, header2)
			}, true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			clientMessage = s.header(5, s.headerTime.Add(time.Minute), height)

			tc.malleate()

			s.Require().Equal(tc.expPass, s.module.CheckForMisbehaviour(clientID, clientMessage))
		})
	}
}

func (s *TendermintTestSuite) TestUpdateStateOnMisbehaviour() {
	s.initClient()

	header := s.header(5, s.headerTime.Add(time.Minute), height)
	s.update(header)

	conflicting := s.header(5, s.headerTime.Add(2*time.Minute), height)
	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, conflicting))
	s.Require().True(s.module.CheckForMisbehaviour(clientID, conflicting))

	s.module.UpdateStateOnMisbehaviour(clientID, conflicting)

	s.Require().Equal(clienttypes.NewHeight(1, 5), s.clientState().FrozenHeight)
	s.Require().Equal(exported.Frozen, s.module.Status(s.now, clientID))

	// frozen is terminal
	err := s.module.VerifyClientMessage(s.now, clientID, s.header(6, s.headerTime.Add(3*time.Minute), clienttypes.NewHeight(1, 5)))
	s.Require().ErrorIs(err, clienttypes.ErrClientFrozen)
}
