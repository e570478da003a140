package aggregate

import "errors"

// ErrMethodNotFound marks a method this gateway does not support; the rpc
// dispatcher maps it to the JSON-RPC method-not-found code. The aggregate
// itself does not return it: subscribe, unsubscribe, set-level, and
// complete are refused by the rpc dispatcher before they reach the
// aggregate, with that same code, so a downstream client can tell the
// difference between "not supported by this gateway" and "supported but
// returned nothing".
var ErrMethodNotFound = errors.New("method not found")

// ErrNoUpstreams is returned by Ping and Initialize on an aggregate with no
// registered upstreams. The list methods return empty results in that case,
// and calls by composite id fail with ErrResourceNotFound.
var ErrNoUpstreams = errors.New("no upstreams registered")
