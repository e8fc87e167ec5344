package keeper

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// CreateClient generates a new client identifier and isolated prefix store for the provided client state.
// The client state is responsible for setting any client-specific data in the store via the Initialize method.
// This includes the client state, initial consensus state and any associated metadata.
// Clients referenced by the client state must exist and must not refer back to the new client.
func (k *Keeper) CreateClient(now time.Time, clientType string, clientStateBz []byte, consensusStateBz []byte) (string, error) {
	if !k.params.IsAllowedClient(clientType) {
		return "", errorsmod.Wrapf(
			types.ErrInvalidClientType,
			"client state type %s is not registered in the allowlist", clientType,
		)
	}

	lightClientModule, found := k.router.GetRoute(clientType)
	if !found {
		return "", errorsmod.Wrap(types.ErrRouteNotFound, clientType)
	}

	clientState, err := types.UnmarshalClientState(k.cdc, clientStateBz)
	if err != nil {
		return "", errorsmod.Wrap(types.ErrInvalidClient, err.Error())
	}
	if clientState.ClientType() != clientType {
		return "", errorsmod.Wrapf(types.ErrInvalidClientType, "expected client state of type %s, got %s", clientType, clientState.ClientType())
	}

	var clientID string
	err = k.runBranched(func() error {
		clientID = k.GenerateClientIdentifier(clientType)

		var references []string
		if referrer, ok := clientState.(exported.ClientReferrer); ok {
			references = referrer.ReferencedClients()
			if err := types.ValidateReferences(clientID, references, k.GetClientReferences); err != nil {
				return err
			}
		}

		if err := lightClientModule.Initialize(clientID, clientStateBz, consensusStateBz); err != nil {
			return err
		}

		k.setClientMetadata(clientID, clientType, references)

		if status := k.GetClientStatus(now, clientID); status != exported.Active {
			return errorsmod.Wrapf(types.ErrClientNotActive, "cannot create client (%s) with status %s", clientID, status)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	k.Logger().Info("client created at height", "client-id", clientID, "height", lightClientModule.LatestHeight(clientID).String())

	defer emitCreateClientEvent(clientID, clientType)

	return clientID, nil
}

// UpdateClient verifies the client message and updates the client state. A message found to
// be misbehaviour freezes the client, no consensus heights are returned in that case.
func (k *Keeper) UpdateClient(now time.Time, clientID string, clientMsg exported.ClientMessage) ([]exported.Height, error) {
	if status := k.GetClientStatus(now, clientID); status != exported.Active {
		return nil, errorsmod.Wrapf(types.ErrClientNotActive, "cannot update client (%s) with status %s", clientID, status)
	}

	lightClientModule, clientType, err := k.routeMessage(clientID, clientMsg)
	if err != nil {
		return nil, err
	}

	var (
		consensusHeights  []exported.Height
		foundMisbehaviour bool
	)
	err = k.runBranched(func() error {
		if err := lightClientModule.VerifyClientMessage(now, clientID, clientMsg); err != nil {
			return err
		}

		foundMisbehaviour = lightClientModule.CheckForMisbehaviour(clientID, clientMsg)
		if foundMisbehaviour {
			lightClientModule.UpdateStateOnMisbehaviour(clientID, clientMsg)
			return nil
		}

		consensusHeights = lightClientModule.UpdateState(clientID, clientMsg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if foundMisbehaviour {
		k.Logger().Info("client frozen due to misbehaviour", "client-id", clientID)

		defer emitSubmitMisbehaviourEvent(clientID, clientType, "update")

		return nil, nil
	}

	k.Logger().Info("client state updated", "client-id", clientID, "heights", consensusHeights)

	defer emitUpdateClientEvent(clientID, clientType, "msg")

	return consensusHeights, nil
}

// SubmitMisbehaviour verifies the misbehaviour evidence and freezes the client. Evidence which
// verifies but does not prove misbehaviour is rejected and leaves the client untouched.
func (k *Keeper) SubmitMisbehaviour(now time.Time, clientID string, misbehaviour exported.ClientMessage) error {
	if status := k.GetClientStatus(now, clientID); status != exported.Active {
		return errorsmod.Wrapf(types.ErrClientNotActive, "cannot process misbehaviour for client (%s) with status %s", clientID, status)
	}

	lightClientModule, clientType, err := k.routeMessage(clientID, misbehaviour)
	if err != nil {
		return err
	}

	err = k.runBranched(func() error {
		if err := lightClientModule.VerifyClientMessage(now, clientID, misbehaviour); err != nil {
			return err
		}

		if !lightClientModule.CheckForMisbehaviour(clientID, misbehaviour) {
			return errorsmod.Wrapf(types.ErrInvalidMisbehaviour, "client message of type %T does not prove misbehaviour of client %s", misbehaviour, clientID)
		}

		lightClientModule.UpdateStateOnMisbehaviour(clientID, misbehaviour)
		return nil
	})
	if err != nil {
		return err
	}

	k.Logger().Info("client frozen due to misbehaviour", "client-id", clientID)

	defer emitSubmitMisbehaviourEvent(clientID, clientType, "misbehaviour")

	return nil
}

// VerifyMembership retrieves the light client module for the clientID and verifies the proof of the existence of a key-value pair at a specified height.
func (k *Keeper) VerifyMembership(now time.Time, clientID string, height exported.Height, proof []byte, path exported.Path, value []byte) error {
	if status := k.GetClientStatus(now, clientID); status != exported.Active {
		return errorsmod.Wrapf(types.ErrClientNotActive, "cannot verify membership using client (%s) with status %s", clientID, status)
	}

	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return err
	}

	return lightClientModule.VerifyMembership(clientID, height, proof, path, value)
}

// VerifyNonMembership retrieves the light client module for the clientID and verifies the absence of a given key at a specified height.
func (k *Keeper) VerifyNonMembership(now time.Time, clientID string, height exported.Height, proof []byte, path exported.Path) error {
	if status := k.GetClientStatus(now, clientID); status != exported.Active {
		return errorsmod.Wrapf(types.ErrClientNotActive, "cannot verify non-membership using client (%s) with status %s", clientID, status)
	}

	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return err
	}

	return lightClientModule.VerifyNonMembership(clientID, height, proof, path)
}

// routeMessage returns the light client module of clientID after checking that the message
// belongs to the client's type.
func (k *Keeper) routeMessage(clientID string, clientMsg exported.ClientMessage) (exported.LightClientModule, string, error) {
	if clientMsg == nil {
		return nil, "", errorsmod.Wrap(types.ErrInvalidHeader, "client message cannot be nil")
	}

	clientType, _, err := types.ParseClientIdentifier(clientID)
	if err != nil {
		return nil, "", errorsmod.Wrapf(types.ErrClientNotFound, "clientID (%s)", clientID)
	}
	if clientMsg.ClientType() != clientType {
		return nil, "", errorsmod.Wrapf(types.ErrInvalidClientType, "client message of type %s cannot update client %s", clientMsg.ClientType(), clientID)
	}

	lightClientModule, err := k.Route(clientID)
	if err != nil {
		return nil, "", err
	}

	return lightClientModule, clientType, nil
}
