package uri

//go:generate go tool errtrace -w .

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/types"
)

const ErrInvalidURI errorutil.Error = "not a valid SIP URI"

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// ParseAddr parses a network address from the given input s (string or []byte).
func ParseAddr[T ~string | ~[]byte](s T) (Addr, error) { return errtrace.Wrap2(types.ParseAddr(s)) }

// Param is a single URI parameter or header.
type Param = types.Param

// Params is an ordered list of URI parameters or headers.
type Params = types.Params

// Flag returns a parameter without a value.
func Flag(name string) Param { return types.Flag(name) }

// Pair returns a parameter with a value.
func Pair(name, value string) Param { return types.Pair(name, value) }

// ParseParams parses ";"-separated URI parameters.
func ParseParams[T ~string | ~[]byte](s T) Params { return types.ParseParams(s) }

// RenderOptions contains options for rendering URIs.
type RenderOptions = types.RenderOptions

func newInvalidURIErr(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidURI, args...) //errtrace:skip
}
