package router

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownServer indicates a call targeted a server name that is not
// in the registry. No connection is attempted.
var ErrUnknownServer = errors.New("server is not defined in the configuration")

// ErrRouterClosed indicates the router has been shut down. A router is
// not reusable after Shutdown.
var ErrRouterClosed = errors.New("router is shut down")

// ConnectError reports a failed connection handshake. The pool keeps no
// record of the failure; a later call for the same server dials again.
type ConnectError struct {
	Server string
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to server %s: %v", e.Server, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// CallError reports a failed tool invocation on an established
// connection. The connection stays in the pool; the router never evicts
// on call failure.
type CallError struct {
	Server string
	Tool   string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("tool call %s.%s failed: %v", e.Server, e.Tool, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// CloseError aggregates per-server close failures from Shutdown. Every
// close is attempted regardless of how many fail.
type CloseError struct {
	Failures map[string]error
}

func (e *CloseError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failures[name]))
	}
	return fmt.Sprintf("failed to close %d connection(s): %s", len(names), strings.Join(parts, "; "))
}

func (e *CloseError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}
