package codec

import (
	"fmt"
	"reflect"
	"sort"

	errorsmod "cosmossdk.io/errors"

	ibcerrors "github.com/cosmos/ibc-lightclients/modules/core/errors"
)

// InterfaceRegistry keeps track of the interfaces values may be packed as and of the
// concrete implementations, identified by their type URL, which may be unpacked into them.
type InterfaceRegistry interface {
	// RegisterInterface associates a name with an interface type. iface must be a nil pointer
	// to an interface, e.g. (*exported.ClientState)(nil).
	RegisterInterface(name string, iface interface{})

	// RegisterImplementation registers impl under typeURL as an implementation of iface.
	// It panics if iface is unknown, impl does not implement it, or typeURL is already
	// bound to a different type.
	RegisterImplementation(iface interface{}, typeURL string, impl interface{})

	// TypeURL returns the type URL a registered implementation is packed with.
	TypeURL(v interface{}) (string, bool)

	// Resolve returns a freshly allocated value for the provided type URL.
	Resolve(typeURL string) (interface{}, error)

	// ListImplementations lists the type URLs registered for the named interface.
	ListImplementations(name string) []string

	// Allows reports whether typeURL was registered as an implementation of the interface type.
	Allows(ifaceType reflect.Type, typeURL string) bool
}

type interfaceRegistry struct {
	interfaceNames map[string]reflect.Type
	interfaceImpls map[reflect.Type]map[string]reflect.Type
	typeURLs       map[string]reflect.Type
	implTypeURLs   map[reflect.Type]string
}

var _ InterfaceRegistry = (*interfaceRegistry)(nil)

// NewInterfaceRegistry returns an empty InterfaceRegistry.
func NewInterfaceRegistry() InterfaceRegistry {
	return &interfaceRegistry{
		interfaceNames: make(map[string]reflect.Type),
		interfaceImpls: make(map[reflect.Type]map[string]reflect.Type),
		typeURLs:       make(map[string]reflect.Type),
		implTypeURLs:   make(map[reflect.Type]string),
	}
}

// RegisterInterface implements InterfaceRegistry.
func (r *interfaceRegistry) RegisterInterface(name string, iface interface{}) {
	typ := reflect.TypeOf(iface)
	if typ == nil || typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Interface {
		panic(fmt.Errorf("%T is not a pointer to an interface", iface))
	}

	r.interfaceNames[name] = typ.Elem()
	if _, ok := r.interfaceImpls[typ.Elem()]; !ok {
		r.interfaceImpls[typ.Elem()] = make(map[string]reflect.Type)
	}
}

// RegisterImplementation implements InterfaceRegistry.
func (r *interfaceRegistry) RegisterImplementation(iface interface{}, typeURL string, impl interface{}) {
	ifaceType := reflect.TypeOf(iface)
	if ifaceType == nil || ifaceType.Kind() != reflect.Ptr || ifaceType.Elem().Kind() != reflect.Interface {
		panic(fmt.Errorf("%T is not a pointer to an interface", iface))
	}
	ifaceType = ifaceType.Elem()

	impls, ok := r.interfaceImpls[ifaceType]
	if !ok {
		panic(fmt.Errorf("interface %s has not been registered", ifaceType))
	}

	implType := reflect.TypeOf(impl)
	if implType == nil || implType.Kind() != reflect.Ptr {
		panic(fmt.Errorf("implementation %T must be a pointer", impl))
	}
	if !implType.Implements(ifaceType) {
		panic(fmt.Errorf("type %s doesn't actually implement interface %s", implType, ifaceType))
	}

	if existing, ok := r.typeURLs[typeURL]; ok && existing != implType {
		panic(fmt.Errorf("concrete type %s has already been registered under typeURL %s, cannot register %s under same typeURL", existing, typeURL, implType))
	}

	impls[typeURL] = implType
	r.typeURLs[typeURL] = implType
	r.implTypeURLs[implType] = typeURL
}

// TypeURL implements InterfaceRegistry.
func (r *interfaceRegistry) TypeURL(v interface{}) (string, bool) {
	typeURL, ok := r.implTypeURLs[reflect.TypeOf(v)]
	return typeURL, ok
}

// Resolve implements InterfaceRegistry.
func (r *interfaceRegistry) Resolve(typeURL string) (interface{}, error) {
	typ, ok := r.typeURLs[typeURL]
	if !ok {
		return nil, errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "unable to resolve type URL %s", typeURL)
	}

	return reflect.New(typ.Elem()).Interface(), nil
}

// ListImplementations implements InterfaceRegistry.
func (r *interfaceRegistry) ListImplementations(name string) []string {
	typ, ok := r.interfaceNames[name]
	if !ok {
		return nil
	}

	var typeURLs []string
	for typeURL := range r.interfaceImpls[typ] {
		typeURLs = append(typeURLs, typeURL)
	}
	sort.Strings(typeURLs)

	return typeURLs
}

// Allows implements InterfaceRegistry.
func (r *interfaceRegistry) Allows(ifaceType reflect.Type, typeURL string) bool {
	impls, ok := r.interfaceImpls[ifaceType]
	if !ok {
		return false
	}

	_, ok = impls[typeURL]
	return ok
}
