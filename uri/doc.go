// Package uri parses and renders SIP and SIPS URIs (RFC 3261 Section 19.1).
//
// # Parsing
//
// [Parse] looks for the first "sip:" or "sips:" scheme anywhere in the input,
// so it accepts bare URIs as well as name-addr forms with a display name and angle brackets:
//
//	u, err := uri.Parse(`"Bob" <sip:bob@biloxi.com;transport=tcp>;tag=a6c85cf`)
//	// u.User = uri.User("bob"), u.Addr = uri.Host("biloxi.com"),
//	// u.Params = uri.Params{uri.Pair("transport", "tcp")}
//
// The scheme is matched case-insensitively. When the scheme directly follows "<"
// the URI ends at the matching ">", otherwise at the first whitespace or ">".
// The userinfo part is kept verbatim. A port that is not a decimal number in range
// is dropped instead of failing the parse.
//
// # Structure
//
// The [SIP] type provides structured access to all components:
//
//	u := &uri.SIP{
//	    User:    uri.User("alice"),
//	    Addr:    uri.HostPort("atlanta.com", 5060),
//	    Params:  uri.Params{uri.Pair("transport", "udp"), uri.Flag("lr")},
//	    Headers: uri.Params{uri.Pair("subject", "project")},
//	    Secured: false, // false for "sip:", true for "sips:"
//	}
//
// Parameters and headers are ordered [Params] lists. Order, duplicates and casing are preserved.
//
// # Rendering
//
// A URI renders as sip[s]:[user@]host[:port][;params][?headers].
// When the URI has parameters or headers the whole result is enclosed in angle brackets,
// otherwise it is never enclosed:
//
//	(&uri.SIP{User: uri.User("alice"), Addr: uri.Host("atlanta.com")}).String()
//	// sip:alice@atlanta.com
//	(&uri.SIP{Addr: uri.Host("atlanta.com"), Params: uri.Params{uri.Flag("lr")}}).String()
//	// <sip:atlanta.com;lr>
//
// [SIP] implements [encoding.TextMarshaler] and [encoding.TextUnmarshaler].
package uri
