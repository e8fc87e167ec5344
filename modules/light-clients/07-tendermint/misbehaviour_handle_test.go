package tendermint_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
	ibctesting "github.com/cosmos/ibc-lightclients/testing"
)

func (s *TendermintTestSuite) TestVerifyMisbehaviour() {
	var (
		misbehaviour exported.ClientMessage
		now          time.Time
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"valid fork misbehaviour", func() {}, nil,
		},
		{
			"valid time misbehaviour", func() {
				misbehaviour = ibctm.NewMisbehaviour(clientID,
					s.header(6, s.headerTime.Add(time.Minute), height),
					s.forkHeader(5, s.headerTime.Add(2*time.Minute), height),
				)
			}, nil,
		},
		{
			"valid misbehaviour with different trusted heights", func() {
				s.update(s.header(5, s.headerTime.Add(time.Minute), height))

				misbehaviour = ibctm.NewMisbehaviour(clientID,
					s.header(6, s.headerTime.Add(2*time.Minute), clienttypes.NewHeight(1, 5)),
					s.forkHeader(6, s.headerTime.Add(2*time.Minute), height),
				)
			}, nil,
		},
		{
			"valid misbehaviour at a height already trusted by the client", func() {
				s.update(s.header(5, s.headerTime.Add(time.Minute), height))
			}, nil,
		},
		{
			"misbehaviour fails ValidateBasic", func() {
				misbehaviour.(*ibctm.Misbehaviour).Header1 = nil
			}, ibctm.ErrInvalidHeader,
		},
		{
			"misbehaviour for another chain", func() {
				header := func(appHash []byte) *ibctm.Header {
					return ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
						ChainID:       "ethermint-1",
						Height:        5,
						Time:          s.headerTime.Add(time.Minute),
						AppHash:       appHash,
						TrustedHeight: height,
						Vals:          s.vals,
						TrustedVals:   s.vals.ValSet,
					})
				}
				misbehaviour = ibctm.NewMisbehaviour(clientID, header(s.appHash), header([]byte("fork app hash")))
			}, ibctm.ErrInvalidChainID,
		},
		{
			"trusted consensus state does not exist", func() {
				misbehaviour.(*ibctm.Misbehaviour).Header1 = s.header(5, s.headerTime.Add(time.Minute), clienttypes.NewHeight(1, 3))
			}, clienttypes.ErrConsensusStateNotFound,
		},
		{
			"trusted consensus state is older than the trusting period", func() {
				now = s.headerTime.Add(trustingPeriod)
			}, ibctm.ErrTrustingPeriodExpired,
		},
		{
			"trusted validators do not hash to the trusted consensus state", func() {
				misbehaviour.(*ibctm.Misbehaviour).Header2.TrustedValidators = ibctesting.NewTendermintValidators("other", 10).ValSet
			}, ibctm.ErrInvalidValidatorSet,
		},
		{
			"header signed by an untrusted validator set", func() {
				otherVals := ibctesting.NewTendermintValidators("other", 10, 10, 10)
				misbehaviour.(*ibctm.Misbehaviour).Header2 = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID:       chainID,
					Height:        5,
					Time:          s.headerTime.Add(time.Minute),
					AppHash:       []byte("fork app hash"),
					TrustedHeight: height,
					Vals:          otherVals,
					TrustedVals:   s.vals.ValSet,
				})
			}, quorum.ErrInsufficientVotingPower,
		},
		{
			"header lacks two thirds of its own validator set", func() {
				misbehaviour.(*ibctm.Misbehaviour).Header1 = ibctesting.CreateTMClientHeader(s.T(), ibctesting.TMHeaderConfig{
					ChainID:       chainID,
					Height:        5,
					Time:          s.headerTime.Add(time.Minute),
					AppHash:       s.appHash,
					TrustedHeight: height,
					Vals:          s.vals,
					TrustedVals:   s.vals.ValSet,
					Signers:       s.vals.Subset(0),
				})
			}, quorum.ErrInsufficientVotingPower,
		},
		{
			"header carries invalid signatures", func() {
				header2 := misbehaviour.(*ibctm.Misbehaviour).Header2
				for i := range header2.Commit.Signatures {
					header2.Commit.Signatures[i].Signature = ibctesting.FlipByte(header2.Commit.Signatures[i].Signature, 0)
				}
			}, quorum.ErrInsufficientVotingPower,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()
			now = s.now

			misbehaviour = ibctm.NewMisbehaviour(clientID,
				s.header(5, s.headerTime.Add(time.Minute), height),
				s.forkHeader(5, s.headerTime.Add(time.Minute), height),
			)

			tc.malleate()

			err := s.module.VerifyClientMessage(now, clientID, misbehaviour)

			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().True(s.module.CheckForMisbehaviour(clientID, misbehaviour))
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TendermintTestSuite) TestSubmitMisbehaviourFreezesClient() {
	s.initClient()

	misbehaviour := ibctm.NewMisbehaviour(clientID,
		s.header(5, s.headerTime.Add(time.Minute), height),
		s.forkHeader(5, s.headerTime.Add(time.Minute), height),
	)

	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, misbehaviour))
	s.Require().True(s.module.CheckForMisbehaviour(clientID, misbehaviour))
	s.module.UpdateStateOnMisbehaviour(clientID, misbehaviour)

	s.Require().Equal(exported.Frozen, s.module.Status(s.now, clientID))
	s.Require().Equal(clienttypes.NewHeight(1, 5), s.clientState().FrozenHeight)

	// a frozen client accepts no further messages
	err := s.module.VerifyClientMessage(s.now, clientID, s.header(6, s.headerTime.Add(2*time.Minute), height))
	s.Require().ErrorIs(err, clienttypes.ErrClientFrozen)

	err = s.module.VerifyClientMessage(s.now, clientID, misbehaviour)
	s.Require().ErrorIs(err, clienttypes.ErrClientFrozen)

	// frozen stays frozen past the trusting period
	s.Require().Equal(exported.Frozen, s.module.Status(s.headerTime.Add(2*trustingPeriod), clientID))
}

func (s *TendermintTestSuite) TestCheckForMisbehaviourRejectsNonEvidence() {
	s.initClient()

	// the same header twice is not a fork
	header := s.header(5, s.headerTime.Add(time.Minute), height)
	same := ibctm.NewMisbehaviour(clientID, header, s.header(5, s.headerTime.Add(time.Minute), height))
	s.Require().False(s.module.CheckForMisbehaviour(clientID, same))

	// headers at different heights with increasing time are consistent
	ordered := ibctm.NewMisbehaviour(clientID,
		s.header(6, s.headerTime.Add(2*time.Minute), height),
		s.header(5, s.headerTime.Add(time.Minute), height),
	)
	s.Require().False(s.module.CheckForMisbehaviour(clientID, ordered))
}
