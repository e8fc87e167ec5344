package types_test

import (
	"github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	host "github.com/cosmos/ibc-lightclients/modules/core/24-host"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
)

const (
	l1ClientID = "00-mock-0"
	l2ClientID = "00-mock-1"
)

var testHeight = types.NewHeight(0, 10)

func (suite *TypesTestSuite) storeMockClient(clientID string, clientState *mock.ClientState, consensusState *mock.ConsensusState) {
	clientStore := suite.storeProvider.ClientStore(clientID)
	clientStore.Set(host.ClientStateKey(), types.MustMarshalClientState(suite.cdc, clientState))
	clientStore.Set(host.ConsensusStateKey(clientState.LatestHeight), types.MustMarshalConsensusState(suite.cdc, consensusState))
}

func (suite *TypesTestSuite) TestVerificationContextSelfReads() {
	suite.storeMockClient(l1ClientID, mock.NewClientState("l1", testHeight), &mock.ConsensusState{Timestamp: 1, Root: []byte("root")})

	vctx := types.NewVerificationContext(suite.cdc, suite.storeProvider, l1ClientID)
	suite.Require().Equal(l1ClientID, vctx.ClientID())

	clientState, err := types.GetSelfClientState[*mock.ClientState](vctx)
	suite.Require().NoError(err)
	suite.Require().Equal("l1", clientState.ChainId)

	consensusState, err := types.GetSelfConsensusState[*mock.ConsensusState](vctx, testHeight)
	suite.Require().NoError(err)
	suite.Require().Equal([]byte("root"), consensusState.Root)

	_, err = vctx.ReadSelfConsensusState(testHeight.Increment())
	suite.Require().ErrorIs(err, types.ErrConsensusStateNotFound)

	missing := types.NewVerificationContext(suite.cdc, suite.storeProvider, "00-mock-7")
	_, err = missing.ReadSelfClientState()
	suite.Require().ErrorIs(err, types.ErrClientNotFound)
}

func (suite *TypesTestSuite) TestVerificationContextCrossClientReads() {
	suite.storeMockClient(l1ClientID, mock.NewClientState("l1", testHeight), &mock.ConsensusState{Timestamp: 1, Root: []byte("l1 root")})
	suite.storeMockClient(l2ClientID, mock.NewClientState("l2", testHeight, l1ClientID), &mock.ConsensusState{Timestamp: 2})

	vctx := types.NewVerificationContext(suite.cdc, suite.storeProvider, l2ClientID)

	consensusState, err := types.GetConsensusState[exported.ConsensusState](vctx, l1ClientID, testHeight)
	suite.Require().NoError(err)
	suite.Require().Equal([]byte("l1 root"), consensusState.GetRoot().GetHash())

	_, err = vctx.ReadConsensusState(l2ClientID, testHeight)
	suite.Require().ErrorIs(err, types.ErrInvalidClientReference)

	_, err = vctx.ReadConsensusState(l1ClientID, testHeight.Increment())
	suite.Require().ErrorIs(err, types.ErrConsensusStateNotFound)

	// a consensus state which does not provide the requested view
	_, err = types.GetConsensusState[interface{ GetStateRoot() []byte }](vctx, l1ClientID, testHeight)
	suite.Require().Error(err)
}

func (suite *TypesTestSuite) TestVerificationContextCorruptedStore() {
	suite.storeMockClient(l1ClientID, mock.NewClientState("l1", testHeight), &mock.ConsensusState{Timestamp: 1})
	suite.storeProvider.ClientStore(l1ClientID).Set(host.ConsensusStateKey(testHeight), []byte{0x01, 0x02})

	vctx := types.NewVerificationContext(suite.cdc, suite.storeProvider, l1ClientID)
	_, err := vctx.ReadSelfConsensusState(testHeight)
	suite.Require().ErrorIs(err, types.ErrStoreError)
}

func (suite *TypesTestSuite) TestClientStoresAreIsolated() {
	suite.storeProvider.ClientStore(l1ClientID).Set([]byte("key"), []byte("value"))

	suite.Require().Nil(suite.storeProvider.ClientStore(l2ClientID).Get([]byte("key")))
	suite.Require().Equal([]byte("value"), suite.store.Get(host.FullClientKey(l1ClientID, []byte("key"))))
}
