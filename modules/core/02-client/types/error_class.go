package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
)

// ErrorClass groups verification failures by their cause so that callers can decide how to
// surface a rejected update. Every class is terminal for the call that produced it.
type ErrorClass string

const (
	// Structural is a missing or malformed field or a malformed proof.
	Structural ErrorClass = "structural"
	// Temporal is an expired trusted state, excessive clock drift or a non-monotonic height or timestamp.
	Temporal ErrorClass = "temporal"
	// Cryptographic is a failed signature or pairing check, an insufficient quorum or an unsupported key type.
	Cryptographic ErrorClass = "cryptographic"
	// Consistency is a chain-id or validator set mismatch, or confirmed misbehaviour.
	Consistency ErrorClass = "consistency"
	// Unclassified is returned for errors which were not registered with a class.
	Unclassified ErrorClass = "unclassified"
)

type classifiedError struct {
	err   *errorsmod.Error
	class ErrorClass
}

var errorClasses []classifiedError

// RegisterErrorClass assigns class to the provided registered errors. It is meant to be
// called from package initialisation of light client modules.
func RegisterErrorClass(class ErrorClass, errs ...*errorsmod.Error) {
	for _, err := range errs {
		errorClasses = append(errorClasses, classifiedError{err: err, class: class})
	}
}

// ClassifyError returns the class of the first registered error err wraps.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return Unclassified
	}

	for _, classified := range errorClasses {
		if errors.Is(err, classified.err) {
			return classified.class
		}
	}

	return Unclassified
}

func init() {
	RegisterErrorClass(Structural,
		ErrInvalidClient, ErrInvalidConsensus, ErrInvalidHeader, ErrInvalidClientType, ErrInvalidHeight,
		ErrStoreError, ErrInvalidClientReference, ErrUnknownClientReference, ErrConsensusStateNotFound, ErrClientNotFound,
		ibcerrors.ErrInvalidType, ibcerrors.ErrUnpackAny, ibcerrors.ErrPackAny, ibcerrors.ErrInvalidHeight, ibcerrors.ErrNotFound,
	)
	RegisterErrorClass(Consistency,
		ErrInvalidMisbehaviour, ErrClientFrozen, ErrClientNotActive, ErrClientReferenceCycle, ibcerrors.ErrInvalidChainID,
	)
}
