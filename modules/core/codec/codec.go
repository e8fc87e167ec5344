// Package codec implements the canonical binary encoding of light client types.
//
// Values are encoded with RLP, which admits exactly one encoding per value: integers
// carry no leading zeroes and every length prefix is minimal. Interface values are
// wrapped in an Any carrying the type URL of the concrete implementation.
package codec

import (
	"fmt"
	"reflect"

	errorsmod "cosmossdk.io/errors"

	"github.com/ethereum/go-ethereum/rlp"

	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
)

// BinaryCodec encodes and decodes light client types.
type BinaryCodec interface {
	Marshal(o interface{}) ([]byte, error)
	MustMarshal(o interface{}) []byte
	Unmarshal(bz []byte, ptr interface{}) error
	MustUnmarshal(bz []byte, ptr interface{})

	// MarshalInterface packs a registered implementation into an Any and encodes it.
	MarshalInterface(i interface{}) ([]byte, error)
	// UnmarshalInterface decodes an Any into ptr, which must be a pointer to an interface
	// the packed type was registered for.
	UnmarshalInterface(bz []byte, ptr interface{}) error

	InterfaceRegistry() InterfaceRegistry
}

// Any wraps an encoded value together with the type URL identifying its concrete type.
type Any struct {
	TypeURL string
	Value   []byte
}

// RLPCodec is the BinaryCodec used by every light client module.
type RLPCodec struct {
	interfaceRegistry InterfaceRegistry
}

var _ BinaryCodec = (*RLPCodec)(nil)

// NewRLPCodec returns a codec resolving interface values through the provided registry.
func NewRLPCodec(interfaceRegistry InterfaceRegistry) *RLPCodec {
	return &RLPCodec{interfaceRegistry: interfaceRegistry}
}

// InterfaceRegistry returns the registry used to resolve packed values.
func (c *RLPCodec) InterfaceRegistry() InterfaceRegistry {
	return c.interfaceRegistry
}

// Marshal encodes o.
func (*RLPCodec) Marshal(o interface{}) ([]byte, error) {
	bz, err := rlp.EncodeToBytes(o)
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot marshal %T: %s", o, err)
	}

	return bz, nil
}

// MustMarshal calls Marshal and panics on error.
func (c *RLPCodec) MustMarshal(o interface{}) []byte {
	bz, err := c.Marshal(o)
	if err != nil {
		panic(err)
	}

	return bz
}

// Unmarshal decodes bz into ptr. Trailing bytes are rejected.
func (*RLPCodec) Unmarshal(bz []byte, ptr interface{}) error {
	if err := rlp.DecodeBytes(bz, ptr); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot unmarshal %T: %s", ptr, err)
	}

	return nil
}

// MustUnmarshal calls Unmarshal and panics on error.
func (c *RLPCodec) MustUnmarshal(bz []byte, ptr interface{}) {
	if err := c.Unmarshal(bz, ptr); err != nil {
		panic(err)
	}
}

// MarshalInterface implements BinaryCodec.
func (c *RLPCodec) MarshalInterface(i interface{}) ([]byte, error) {
	protoAny, err := c.NewAnyWithValue(i)
	if err != nil {
		return nil, err
	}

	return rlp.EncodeToBytes(protoAny)
}

// UnmarshalInterface implements BinaryCodec.
func (c *RLPCodec) UnmarshalInterface(bz []byte, ptr interface{}) error {
	var protoAny Any
	if err := rlp.DecodeBytes(bz, &protoAny); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "cannot decode Any: %s", err)
	}

	return c.UnpackAny(&protoAny, ptr)
}

// NewAnyWithValue packs a registered implementation into an Any.
func (c *RLPCodec) NewAnyWithValue(v interface{}) (*Any, error) {
	if v == nil || (reflect.ValueOf(v).Kind() == reflect.Ptr && reflect.ValueOf(v).IsNil()) {
		return nil, errorsmod.Wrap(ibcerrors.ErrPackAny, "cannot pack nil value")
	}

	typeURL, ok := c.interfaceRegistry.TypeURL(v)
	if !ok {
		return nil, errorsmod.Wrapf(ibcerrors.ErrPackAny, "type %T has not been registered", v)
	}

	value, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrPackAny, "cannot marshal %T: %s", v, err)
	}

	return &Any{TypeURL: typeURL, Value: value}, nil
}

// UnpackAny decodes the value carried by protoAny into ptr, a pointer to an interface.
func (c *RLPCodec) UnpackAny(protoAny *Any, ptr interface{}) error {
	if protoAny == nil {
		return errorsmod.Wrap(ibcerrors.ErrUnpackAny, "Any message cannot be nil")
	}

	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Interface {
		return errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "expected pointer to interface, got %T", ptr)
	}

	ifaceType := rv.Elem().Type()
	if !c.interfaceRegistry.Allows(ifaceType, protoAny.TypeURL) {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidType, "type URL %s is not registered as %s", protoAny.TypeURL, ifaceType)
	}

	msg, err := c.interfaceRegistry.Resolve(protoAny.TypeURL)
	if err != nil {
		return err
	}

	if err := rlp.DecodeBytes(protoAny.Value, msg); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "cannot unmarshal %s: %s", protoAny.TypeURL, err)
	}

	rv.Elem().Set(reflect.ValueOf(msg))
	return nil
}

// String implements fmt.Stringer.
func (a Any) String() string {
	return fmt.Sprintf("Any{%s, %x}", a.TypeURL, a.Value)
}
