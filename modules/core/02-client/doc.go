/*
Package client implements the ICS 02 - Client Semantics specification
(https://github.com/cosmos/ibc/tree/master/spec/core/ics-002-client-semantics). The
keeper subpackage creates, updates and freezes light clients and routes every call to
the light client module registered for the client type. The types subpackage holds the
height, identifier, params, reference and verification context types shared by all
light client modules.
*/
package client
