package types_test

import (
	"github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	mock "github.com/cosmos/ibc-lightclients/modules/light-clients/00-mock"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
)

func (suite *TypesTestSuite) TestAddRoute() {
	var (
		clientType string
		router     *types.Router
	)

	testCases := []struct {
		name     string
		malleate func()
		expPanic bool
	}{
		{
			"success",
			func() {
				clientType = exported.Tendermint
			},
			false,
		},
		{
			"failure: route has already been registered",
			func() {
				clientType = exported.Tendermint
				router.AddRoute(exported.Tendermint, ibctm.NewLightClientModule(suite.cdc, suite.storeProvider))
			},
			true,
		},
		{
			"failure: client type is invalid",
			func() {
				clientType = ""
			},
			true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			tmLightClientModule := ibctm.NewLightClientModule(suite.cdc, suite.storeProvider)
			router = types.NewRouter()

			tc.malleate()

			if !tc.expPanic {
				router.AddRoute(clientType, tmLightClientModule)
				suite.Require().True(router.HasRoute(clientType))
			} else {
				suite.Require().Panics(func() {
					router.AddRoute(clientType, tmLightClientModule)
				})
			}
		})
	}
}

func (suite *TypesTestSuite) TestHasGetRoute() {
	router := types.NewRouter().
		AddRoute(mock.ModuleName, mock.NewLightClientModule(suite.cdc, suite.storeProvider)).
		AddRoute(exported.Tendermint, ibctm.NewLightClientModule(suite.cdc, suite.storeProvider))

	suite.Require().True(router.HasRoute(exported.Tendermint))
	suite.Require().False(router.HasRoute(exported.Ethereum))

	module, found := router.GetRoute(mock.ModuleName)
	suite.Require().True(found)
	suite.Require().IsType(&mock.LightClientModule{}, module)

	module, found = router.GetRoute(exported.Rollup)
	suite.Require().False(found)
	suite.Require().Nil(module)

	suite.Require().Equal([]string{mock.ModuleName, exported.Tendermint}, router.Routes())
}
