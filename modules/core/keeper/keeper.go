package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"

	clientkeeper "github.com/cosmos/ibc-lightclients/modules/core/02-client/keeper"
	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/codec"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
	ibctm "github.com/cosmos/ibc-lightclients/modules/light-clients/07-tendermint"
	cometbls "github.com/cosmos/ibc-lightclients/modules/light-clients/08-cometbls"
	attestations "github.com/cosmos/ibc-lightclients/modules/light-clients/10-attestations"
	ethereum "github.com/cosmos/ibc-lightclients/modules/light-clients/12-ethereum"
	rollup "github.com/cosmos/ibc-lightclients/modules/light-clients/15-rollup"
)

// Keeper wires the client keeper with the light client modules shipped with the module.
type Keeper struct {
	ClientKeeper *clientkeeper.Keeper

	attestations attestations.LightClientModule

	cdc codec.BinaryCodec
}

// NewKeeper creates a new ibc Keeper with a route for every light client type. Further
// light client modules can be routed through ClientKeeper.AddRoute.
func NewKeeper(cdc codec.BinaryCodec, store storetypes.KVStore, params clienttypes.Params, logger log.Logger) *Keeper {
	clientKeeper := clientkeeper.NewKeeper(cdc, store, params, logger)
	storeProvider := clientKeeper.GetStoreProvider()

	attestationsModule := attestations.NewLightClientModule(cdc, storeProvider)

	clientKeeper.AddRoute(exported.Tendermint, ibctm.NewLightClientModule(cdc, storeProvider))
	clientKeeper.AddRoute(exported.CometBLS, cometbls.NewLightClientModule(cdc, storeProvider))
	clientKeeper.AddRoute(exported.Attestations, attestationsModule)
	clientKeeper.AddRoute(exported.Ethereum, ethereum.NewLightClientModule(cdc, storeProvider))
	clientKeeper.AddRoute(exported.Rollup, rollup.NewLightClientModule(cdc, storeProvider))

	return &Keeper{
		ClientKeeper: clientKeeper,
		attestations: attestationsModule,
		cdc:          cdc,
	}
}

// Codec returns the IBC module codec.
func (k *Keeper) Codec() codec.BinaryCodec {
	return k.cdc
}

// SubmitAttestation records an attestation for an attestations client.
func (k *Keeper) SubmitAttestation(clientID string, attestation attestations.Attestation, signatures [][]byte) error {
	clientType, _, err := clienttypes.ParseClientIdentifier(clientID)
	if err != nil {
		return errorsmod.Wrapf(clienttypes.ErrClientNotFound, "clientID (%s)", clientID)
	}
	if clientType != exported.Attestations {
		return errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "cannot submit attestations to client %s", clientID)
	}

	if err := k.attestations.SubmitAttestation(clientID, attestation, signatures); err != nil {
		return err
	}

	k.ClientKeeper.Logger().Info("attestation submitted", "client-id", clientID, "height", attestation.Height.String())

	return nil
}
