package cometbls_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	cometbls "github.com/cosmos/ibc-lightclients/modules/light-clients/08-cometbls"
	"github.com/cosmos/ibc-lightclients/modules/light-clients/quorum"
	ibctesting "github.com/cosmos/ibc-lightclients/testing"
)

// forkHeader returns a header signed by s.vals committing to another app hash.
func (s *CometBLSTestSuite) forkHeader(blockHeight uint64, timestamp time.Time, trustedHeight clienttypes.Height) *cometbls.Header {
	return ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
		ChainID:       chainID,
		Height:        blockHeight,
		Time:          timestamp,
		AppHash:       []byte("fork app hash"),
		TrustedHeight: trustedHeight,
		Vals:          s.vals,
		Prover:        s.prover,
	})
}

func (s *CometBLSTestSuite) TestVerifyMisbehaviour() {
	var misbehaviour exported.ClientMessage

	headerTime := s.headerTime.Add(time.Minute)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"valid fork misbehaviour", func() {}, nil,
		},
		{
			"valid misbehaviour with different trusted heights", func() {
				s.update(s.header(5, headerTime, height))

				misbehaviour = cometbls.NewMisbehaviour(clientID,
					s.header(6, headerTime.Add(time.Minute), clienttypes.NewHeight(1, 5)),
					s.forkHeader(6, headerTime.Add(time.Minute), height),
				)
			}, nil,
		},
		{
			"misbehaviour fails ValidateBasic", func() {
				misbehaviour.(*cometbls.Misbehaviour).Header2 = nil
			}, cometbls.ErrInvalidHeader,
		},
		{
			"invalid client identifier", func() {
				misbehaviour.(*cometbls.Misbehaviour).ClientId = ""
			}, host.ErrInvalidID,
		},
		{
			"headers at different heights", func() {
				misbehaviour.(*cometbls.Misbehaviour).Header2 = s.forkHeader(6, headerTime, height)
			}, clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"headers for another chain", func() {
				header := func(appHash []byte) *cometbls.Header {
					return ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
						ChainID: "other-1", Height: 5, Time: headerTime, AppHash: appHash,
						TrustedHeight: height, Vals: s.vals, Prover: s.prover,
					})
				}
				misbehaviour = cometbls.NewMisbehaviour(clientID, header(s.appHash), header([]byte("fork app hash")))
			}, cometbls.ErrInvalidChainID,
		},
		{
			"trusted consensus state of Header2 not found", func() {
				misbehaviour.(*cometbls.Misbehaviour).Header2 = s.forkHeader(5, headerTime, clienttypes.NewHeight(1, 3))
			}, clienttypes.ErrConsensusStateNotFound,
		},
		{
			"Header2 lacks voting power", func() {
				misbehaviour.(*cometbls.Misbehaviour).Header2 = ibctesting.CreateCometBLSHeader(s.T(), ibctesting.CometBLSHeaderConfig{
					ChainID: chainID, Height: 5, Time: headerTime, AppHash: []byte("fork app hash"),
					TrustedHeight: height, Vals: s.vals, Signers: []int{0}, Prover: s.prover,
				})
			}, quorum.ErrInsufficientVotingPower,
		},
		{
			"Header1 carries an invalid proof", func() {
				header1 := misbehaviour.(*cometbls.Misbehaviour).Header1
				header1.ZeroKnowledgeProof = misbehaviour.(*cometbls.Misbehaviour).Header2.ZeroKnowledgeProof
			}, cometbls.ErrInvalidZKP,
		},
		{
			"trusting period elapsed", func() {
				misbehaviour = cometbls.NewMisbehaviour(clientID,
					s.header(5, headerTime, height),
					s.forkHeader(5, headerTime, height),
				)
				s.now = s.headerTime.Add(trustingPeriod)
			}, cometbls.ErrTrustingPeriodExpired,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.initClient()

			misbehaviour = cometbls.NewMisbehaviour(clientID,
				s.header(5, headerTime, height),
				s.forkHeader(5, headerTime, height),
			)

			tc.malleate()

			err := s.module.VerifyClientMessage(s.now, clientID, misbehaviour)

			if tc.expErr == nil {
				s.Require().NoError(err)
				s.Require().True(s.module.CheckForMisbehaviour(clientID, misbehaviour))
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *CometBLSTestSuite) TestSubmitMisbehaviourFreezesClient() {
	s.initClient()

	misbehaviour := cometbls.NewMisbehaviour(clientID,
		s.header(5, s.headerTime.Add(time.Minute), height),
		s.forkHeader(5, s.headerTime.Add(time.Minute), height),
	)

	s.Require().NoError(s.module.VerifyClientMessage(s.now, clientID, misbehaviour))
	s.Require().True(s.module.CheckForMisbehaviour(clientID, misbehaviour))
	s.module.UpdateStateOnMisbehaviour(clientID, misbehaviour)

	s.Require().Equal(exported.Frozen, s.module.Status(s.now, clientID))
	s.Require().Equal(clienttypes.NewHeight(1, 5), s.clientState().FrozenHeight)
	// the latest height is not moved by the evidence
	s.Require().Equal(height, s.clientState().LatestHeight)
}
