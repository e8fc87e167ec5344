package types

import (
	errorsmod "cosmossdk.io/errors"
)

// IBC client sentinel errors
var (
	ErrClientExists                    = errorsmod.Register(SubModuleName, 2, "light client already exists")
	ErrInvalidClient                   = errorsmod.Register(SubModuleName, 3, "light client is invalid")
	ErrClientNotFound                  = errorsmod.Register(SubModuleName, 4, "light client not found")
	ErrClientFrozen                    = errorsmod.Register(SubModuleName, 5, "light client is frozen due to misbehaviour")
	ErrInvalidClientMetadata           = errorsmod.Register(SubModuleName, 6, "invalid client metadata")
	ErrConsensusStateNotFound          = errorsmod.Register(SubModuleName, 7, "consensus state not found")
	ErrInvalidConsensus                = errorsmod.Register(SubModuleName, 8, "invalid consensus state")
	ErrClientTypeNotFound              = errorsmod.Register(SubModuleName, 9, "client type not found")
	ErrInvalidClientType               = errorsmod.Register(SubModuleName, 10, "invalid client type")
	ErrRootNotFound                    = errorsmod.Register(SubModuleName, 11, "commitment root not found")
	ErrInvalidHeader                   = errorsmod.Register(SubModuleName, 12, "invalid client header")
	ErrInvalidMisbehaviour             = errorsmod.Register(SubModuleName, 13, "invalid light client misbehaviour")
	ErrFailedClientStateVerification   = errorsmod.Register(SubModuleName, 14, "client state verification failed")
	ErrFailedMembershipVerification    = errorsmod.Register(SubModuleName, 15, "membership verification failed")
	ErrFailedNonMembershipVerification = errorsmod.Register(SubModuleName, 16, "non-membership verification failed")
	ErrInvalidHeight                   = errorsmod.Register(SubModuleName, 17, "invalid height")
	ErrClientNotActive                 = errorsmod.Register(SubModuleName, 18, "client state is not active")
	ErrRouteNotFound                   = errorsmod.Register(SubModuleName, 19, "light client module route not found")
	ErrClientTypeNotSupported          = errorsmod.Register(SubModuleName, 20, "client type not supported")
	ErrStoreError                      = errorsmod.Register(SubModuleName, 21, "client store read failed")
	ErrUnknownClientReference          = errorsmod.Register(SubModuleName, 22, "referenced light client does not exist")
	ErrClientReferenceCycle            = errorsmod.Register(SubModuleName, 23, "light client references form a cycle")
	ErrInvalidClientReference          = errorsmod.Register(SubModuleName, 24, "invalid light client reference")
)
