package types

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/miekg/dns"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/util"
)

const ErrInvalidAddr errorutil.Error = "invalid address"

// Addr is a container for host and optional port.
type Addr struct {
	host    string
	ip      netip.Addr
	port    uint16
	hasPort bool
}

func parseIP(host string) netip.Addr {
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return ip.Unmap()
}

// Host returns an [Addr] containing the provided host and no port.
func Host(host string) Addr {
	host = strings.Trim(host, "[]")
	return Addr{
		host: host,
		ip:   parseIP(host),
	}
}

// HostPort returns an [Addr] containing the provided host and port.
func HostPort(host string, port uint16) Addr {
	addr := Host(host)
	addr.port = port
	addr.hasPort = true
	return addr
}

// ParseAddr parses a "host[:port]" string into an [Addr].
// IPv6 literals must be enclosed in brackets when followed by a port.
// A port that is not a decimal number in range is treated as absent.
func ParseAddr[T ~string | ~[]byte](s T) (Addr, error) {
	str := string(s)

	var host, port string
	if strings.HasPrefix(str, "[") {
		end := strings.IndexByte(str, ']')
		if end < 0 {
			return Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidAddr, "unclosed IPv6 reference %q", str))
		}
		host = str[1:end]
		if rest := str[end+1:]; strings.HasPrefix(rest, ":") {
			port = rest[1:]
		}
	} else {
		host = str
		if i := strings.IndexByte(str, ':'); i >= 0 && strings.Count(str, ":") == 1 {
			host, port = str[:i], str[i+1:]
		}
	}
	if host == "" {
		return Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidAddr, "empty host in %q", str))
	}

	if p, err := strconv.ParseUint(port, 10, 16); err == nil {
		return HostPort(host, uint16(p)), nil
	}
	return Host(host), nil
}

// Host returns the hostname portion of the address as provided during construction or parsing.
func (addr Addr) Host() string { return addr.host }

// IP returns the parsed IP when the host is an IP literal.
func (addr Addr) IP() (netip.Addr, bool) { return addr.ip, addr.ip.IsValid() }

// Port returns the port, in case it is set, and bool flag indicating whether it is set.
func (addr Addr) Port() (uint16, bool) { return addr.port, addr.hasPort }

// String formats the address as host[:port], adding brackets for IPv6 literals.
func (addr Addr) String() string {
	host := addr.host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if !addr.hasPort {
		return host
	}
	return host + ":" + strconv.Itoa(int(addr.port))
}

// Format implements fmt.Formatter to support custom formatting verbs for Addr values.
func (addr Addr) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, addr.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(addr.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, addr.String())
			return
		}

		type hideMethods Addr
		type Addr hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Addr(addr))
		return
	}
}

// Equal reports whether the address equals the provided value, accepting Addr and *Addr.
// IP hosts are compared by value, domain names case-insensitively.
func (addr Addr) Equal(val any) bool {
	var other Addr
	switch v := val.(type) {
	case Addr:
		other = v
	case *Addr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	var hostMatch bool
	switch {
	case !addr.ip.IsValid() && !other.ip.IsValid():
		hostMatch = util.EqFold(addr.host, other.host)
	case addr.ip.IsValid() && other.ip.IsValid():
		hostMatch = addr.ip == other.ip
	default:
		return false
	}

	return hostMatch && addr.port == other.port && addr.hasPort == other.hasPort
}

// IsValid reports whether the host is an IP literal or a syntactically valid domain name.
func (addr Addr) IsValid() bool {
	if addr.host == "" {
		return false
	}
	if addr.ip.IsValid() {
		return true
	}
	_, ok := dns.IsDomainName(addr.host)
	return ok
}

// IsZero reports whether the address has zero host and port information.
func (addr Addr) IsZero() bool { return addr.host == "" && !addr.hasPort }

// MarshalText encodes the address into its textual representation.
func (addr Addr) MarshalText() (text []byte, err error) {
	return []byte(addr.String()), nil
}

// UnmarshalText parses a textual representation of an address into the receiver.
// Empty text resets the receiver to the zero address.
func (addr *Addr) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*addr = Addr{}
		return nil
	}

	v, err := ParseAddr(text)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*addr = v
	return nil
}
