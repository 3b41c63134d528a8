package header

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"net/textproto"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
)

const (
	ErrInvalidLine           errorutil.Error = "invalid header line"
	ErrInvalidAuth           errorutil.Error = "invalid authentication header"
	ErrLeadingParamDelimiter errorutil.Error = "header value starts with parameter delimiter"
)

// Param is a single header parameter.
type Param = types.Param

// Params is an ordered list of header parameters.
type Params = types.Params

// Flag returns a parameter without a value.
func Flag(name string) Param { return types.Flag(name) }

// Pair returns a parameter with a value.
func Pair(name, value string) Param { return types.Pair(name, value) }

// ParseParams parses ";"-separated header parameters.
func ParseParams[T ~string | ~[]byte](s T) Params { return types.ParseParams(s) }

// RenderOptions contains options for rendering headers.
type RenderOptions = types.RenderOptions

var (
	_ types.Renderer = Header{}
	_ types.Renderer = Headers(nil)
)

// Header is a single logical header entry.
type Header struct {
	// Name is the header name as it appeared in the message.
	Name string
	// Value is the trimmed header value without parameters.
	// For authentication headers it is the auth scheme.
	Value string
	// Params is nil when the value has no parameters.
	// Authentication headers always have non-nil Params.
	Params Params
}

// IsAuth reports whether the header is one of the authentication headers.
func (hdr Header) IsAuth() bool { return IsAuthName(hdr.Name) }

// RenderTo writes the header as "Name: Value" followed by the parameters.
func (hdr Header) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	name := hdr.Name
	if opts != nil && opts.Compact {
		name = CompactName(name)
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(name, ": ", hdr.Value)
	if hdr.IsAuth() {
		cw.Call(hdr.renderAuthParams)
	} else {
		cw.Call(hdr.Params.RenderTo)
	}
	return errtrace.Wrap2(cw.Result())
}

func (hdr Header) renderAuthParams(w io.Writer) (num int, err error) {
	if len(hdr.Params) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i, p := range hdr.Params {
		if i == 0 {
			cw.Fprint(" ", p.Name)
		} else {
			cw.Fprint(", ", p.Name)
		}
		v, ok := p.Value()
		switch {
		case !ok:
		case util.EqFold(p.Name, "algorithm"), util.EqFold(p.Name, "stale"):
			cw.Fprint("=", v)
		default:
			cw.Fprint(`="`, v, `"`)
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the header line without the trailing CRLF.
func (hdr Header) Render(opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (hdr Header) String() string { return hdr.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Header) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, hdr.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(hdr.String()))
		return
	default:
		type hideMethods Header
		type Header hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Header(hdr))
		return
	}
}

// Equal reports whether the header equals the provided value, accepting Header and *Header.
// All fields are compared exactly.
func (hdr Header) Equal(val any) bool {
	var other Header
	switch v := val.(type) {
	case Header:
		other = v
	case *Header:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return hdr.Name == other.Name &&
		hdr.Value == other.Value &&
		hdr.Params.Equal(other.Params)
}

// IsValid reports whether the header name and parameter names are tokens.
func (hdr Header) IsValid() bool {
	if !grammar.IsToken(hdr.Name) {
		return false
	}
	for _, p := range hdr.Params {
		if !grammar.IsToken(p.Name) {
			return false
		}
	}
	return true
}

var authNames = map[string]bool{
	"WWW-Authenticate":    true,
	"Authorization":       true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
}

// IsAuthName reports whether name is one of the authentication header names (case-insensitive).
func IsAuthName[T ~string](name T) bool { return authNames[CanonicName(name)] }

var hdrNames = map[string]string{
	"a":                "Accept-Contact",
	"b":                "Referred-By",
	"c":                "Content-Type",
	"d":                "Request-Disposition",
	"e":                "Content-Encoding",
	"f":                "From",
	"i":                "Call-ID",
	"j":                "Reject-Contact",
	"k":                "Supported",
	"l":                "Content-Length",
	"m":                "Contact",
	"o":                "Event",
	"r":                "Refer-To",
	"s":                "Subject",
	"t":                "To",
	"u":                "Allow-Events",
	"v":                "Via",
	"x":                "Session-Expires",
	"Call-Id":          "Call-ID",
	"Cseq":             "CSeq",
	"Mime-Version":     "MIME-Version",
	"Www-Authenticate": "WWW-Authenticate",
}

var compactNames = func() map[string]string {
	m := make(map[string]string)
	for k, v := range hdrNames {
		if len(k) == 1 {
			m[v] = k
		}
	}
	return m
}()

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following a hyphen to upper case;
// the rest are converted to lowercase. For example, the canonical name for "accept-encoding" is "Accept-Encoding".
// Also, any compact name is converted to its full canonical form. For example, "c" converts to "Content-Type".
func CanonicName[T ~string](name T) string {
	s := util.TrimSP(string(name))
	if n, ok := hdrNames[util.LCase(s)]; ok && len(s) == 1 {
		return n
	}

	s = textproto.CanonicalMIMEHeaderKey(s)
	if n, ok := hdrNames[s]; ok {
		return n
	}
	return s
}

// CompactName returns the compact form of name, if there is one, otherwise name unchanged.
func CompactName[T ~string](name T) string {
	if n, ok := compactNames[CanonicName(name)]; ok {
		return n
	}
	return string(name)
}
