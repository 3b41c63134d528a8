package uri

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

var _ types.Renderer = (*SIP)(nil)

// SIP represents a SIP or SIPS URI.
type SIP struct {
	User    UserInfo // userinfo before "@"
	Addr    Addr     // host and port
	Params  Params   // parameters
	Headers Params   // headers
	Secured bool
}

// Scheme returns the URI scheme.
func (u *SIP) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme()
}

func (u *SIP) scheme() string {
	if u.Secured {
		return "sips"
	}
	return "sip"
}

func (u *SIP) enclosed() bool { return len(u.Params) > 0 || len(u.Headers) > 0 }

// RenderTo writes the SIP URI to the provided writer.
func (u *SIP) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if u.enclosed() {
		cw.Fprint("<")
	}
	cw.Fprint(u.scheme(), ":")
	if usr, ok := u.User.Username(); ok {
		cw.Fprint(usr, "@")
	}
	cw.Fprint(u.Addr.String())
	cw.Call(u.Params.RenderTo)
	cw.Call(u.renderHeaders)
	if u.enclosed() {
		cw.Fprint(">")
	}
	return errtrace.Wrap2(cw.Result())
}

func (u *SIP) renderHeaders(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(types.RenderParams(w, u.Headers, "?", "&"))
}

// Render returns the string representation of the SIP URI.
func (u *SIP) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the string representation of the SIP URI.
func (u *SIP) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the SIP URI.
func (u *SIP) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		type hideMethods SIP
		type SIP hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*SIP)(u))
		return
	}
}

// Equal reports whether both URIs have the same components.
// Hosts are compared as described in [Addr.Equal], everything else exactly,
// including the order of parameters and headers.
func (u *SIP) Equal(val any) bool {
	var other *SIP
	switch v := val.(type) {
	case SIP:
		other = &v
	case *SIP:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return u.Secured == other.Secured &&
		u.User.Equal(other.User) &&
		u.Addr.Equal(other.Addr) &&
		u.Params.Equal(other.Params) &&
		u.Headers.Equal(other.Headers)
}

// IsValid checks whether the host is an IP literal or a valid domain name.
func (u *SIP) IsValid() bool {
	return u != nil && u.Addr.IsValid()
}

// MarshalText implements [encoding.TextMarshaler].
func (u *SIP) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *SIP) UnmarshalText(text []byte) error {
	u1, err := Parse(text)
	if err != nil {
		*u = SIP{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// Transport returns the value of the "transport" parameter.
func (u *SIP) Transport() (string, bool) {
	return u.Params.Get("transport")
}

// UserType returns the value of the "user" parameter.
func (u *SIP) UserType() (string, bool) {
	return u.Params.Get("user")
}

// Method returns the value of the "method" parameter.
func (u *SIP) Method() (string, bool) {
	return u.Params.Get("method")
}

// MAddr returns the value of the "maddr" parameter.
func (u *SIP) MAddr() (string, bool) {
	return u.Params.Get("maddr")
}

// TTL returns the value of the "ttl" parameter.
func (u *SIP) TTL() (uint8, bool) {
	val, ok := u.Params.Get("ttl")
	if !ok {
		return 0, false
	}
	ttl, err := strconv.ParseUint(val, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(ttl), true
}

// LR reports whether the "lr" parameter is present.
func (u *SIP) LR() bool {
	return u.Params.Has("lr")
}

// Parse finds and parses the first SIP or SIPS URI in s (string or []byte).
//
// The scheme may appear anywhere in s as long as it does not directly follow a letter or digit.
// It fails with [ErrInvalidURI] when no scheme is found or the host is empty.
func Parse[T ~string | ~[]byte](s T) (*SIP, error) {
	str := string(s)
	start, secured := indexScheme(str)
	if start < 0 {
		return nil, errtrace.Wrap(newInvalidURIErr("%q", str))
	}

	rest := str[start+len("sip:"):]
	if secured {
		rest = rest[1:]
	}
	var end int
	if start > 0 && str[start-1] == '<' {
		end = strings.IndexByte(rest, '>')
	} else {
		end = strings.IndexAny(rest, " \t\r\n>")
	}
	if end >= 0 {
		rest = rest[:end]
	}

	u, err := parseSIP(rest)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("%w %q: %w", ErrInvalidURI, str, err))
	}
	u.Secured = secured
	return u, nil
}

// indexScheme returns the index of the first "sip:" or "sips:" in s
// that is not part of a longer word.
func indexScheme(s string) (int, bool) {
	for i := 0; i+4 <= len(s); i++ {
		if !util.EqFold(s[i:i+3], "sip") || (i > 0 && isAlphaNum(s[i-1])) {
			continue
		}
		switch {
		case s[i+3] == ':':
			return i, false
		case (s[i+3] == 's' || s[i+3] == 'S') && i+4 < len(s) && s[i+4] == ':':
			return i, true
		}
	}
	return -1, false
}

func isAlphaNum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// parseSIP parses the part after the scheme: [user@]host[:port][;params][?headers].
func parseSIP(s string) (*SIP, error) {
	u := new(SIP)
	if usr, rest, ok := strings.Cut(s, "@"); ok {
		u.User = User(usr)
		s = rest
	}

	s, hdrs, hasHdrs := strings.Cut(s, "?")

	var params string
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s, params = s[:i], s[i:]
	}

	addr, err := types.ParseAddr(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	u.Addr = addr
	u.Params = ParseParams(params)
	if hasHdrs {
		u.Headers = types.ParseParamsSep(hdrs, '&')
	}
	return u, nil
}

// UserInfo is the optional userinfo part of the [SIP] URI.
// It is kept verbatim, a password is not separated from the user.
type UserInfo struct {
	usrname string
	set     bool
}

// User returns a [UserInfo] containing the provided username.
func User(usrname string) UserInfo {
	return UserInfo{usrname: usrname, set: true}
}

// Username returns the username and a bool flag indicating whether it is set.
func (ui UserInfo) Username() (string, bool) { return ui.usrname, ui.set }

// String returns the string representation of the UserInfo.
func (ui UserInfo) String() string { return ui.usrname }

// Equal compares this UserInfo with another for equality.
func (ui UserInfo) Equal(val any) bool {
	var other UserInfo
	switch v := val.(type) {
	case UserInfo:
		other = v
	case *UserInfo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return ui == other
}

// IsZero checks whether the UserInfo is not set.
func (ui UserInfo) IsZero() bool { return !ui.set }
