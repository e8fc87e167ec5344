package types

import (
	"fmt"
	"sort"

	"github.com/cosmos/ibc-lightclients/modules/core/exported"
)

// The router is a map from client type to the LightClientModule which implements
// the verification algorithm of that consensus flavor. Routes are registered once at
// construction time, there is no runtime discovery of light client modules.
type Router struct {
	routes map[string]exported.LightClientModule
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]exported.LightClientModule),
	}
}

// AddRoute adds LightClientModule for a given client type. It returns the Router
// so AddRoute calls can be linked. It will panic if the route is already registered
// or the client type is malformed.
func (rtr *Router) AddRoute(clientType string, module exported.LightClientModule) *Router {
	if err := ValidateClientType(clientType); err != nil {
		panic(err)
	}

	if rtr.HasRoute(clientType) {
		panic(fmt.Errorf("route %s has already been registered", clientType))
	}

	rtr.routes[clientType] = module
	return rtr
}

// HasRoute returns true if the Router has a module registered or false otherwise.
func (rtr *Router) HasRoute(clientType string) bool {
	_, ok := rtr.routes[clientType]
	return ok
}

// GetRoute returns a LightClientModule for a given client type.
func (rtr *Router) GetRoute(clientType string) (exported.LightClientModule, bool) {
	if !rtr.HasRoute(clientType) {
		return nil, false
	}
	return rtr.routes[clientType], true
}

// Routes returns the registered client types in sorted order.
func (rtr *Router) Routes() []string {
	clientTypes := make([]string, 0, len(rtr.routes))
	for clientType := range rtr.routes {
		clientTypes = append(clientTypes, clientType)
	}
	sort.Strings(clientTypes)

	return clientTypes
}
