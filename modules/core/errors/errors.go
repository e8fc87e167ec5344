package errors

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "ibc"

var (
	// ErrInvalidRequest defines an error where the request contains
	// invalid data.
	ErrInvalidRequest = errorsmod.Register(codespace, 1, "invalid request")

	// ErrInvalidHeight defines an error for an invalid height
	ErrInvalidHeight = errorsmod.Register(codespace, 2, "invalid height")

	// ErrInvalidChainID defines an error when the chain-id is invalid.
	ErrInvalidChainID = errorsmod.Register(codespace, 3, "invalid chain-id")

	// ErrInvalidType defines an error an invalid type.
	ErrInvalidType = errorsmod.Register(codespace, 4, "invalid type")

	// ErrPackAny defines an error when packing a message to Any fails.
	ErrPackAny = errorsmod.Register(codespace, 5, "failed packing message to Any")

	// ErrUnpackAny defines an error when unpacking a message from Any fails.
	ErrUnpackAny = errorsmod.Register(codespace, 6, "failed unpacking message from Any")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = errorsmod.Register(codespace, 7, "internal logic error")

	// ErrNotFound defines an error when requested entity doesn't exist in the state.
	ErrNotFound = errorsmod.Register(codespace, 8, "not found")

	// ErrStoreError defines an error when the host store fails to serve a read.
	ErrStoreError = errorsmod.Register(codespace, 9, "store error")

	// ErrInvalidAddress is used when an address is found to be invalid.
	ErrInvalidAddress = errorsmod.Register(codespace, 10, "invalid address")

	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = errorsmod.Register(codespace, 11, "unauthorized")
)
