// Package header parses and renders SIP header lines (RFC 3261 Section 7.3).
//
// # Parsing
//
// [ParseLine] turns one unfolded header line into one or more [Header] entries:
//
//	hdrs, err := header.ParseLine("Via: SIP/2.0/TCP 192.168.1.123:5062;rport;branch=z9hG4bK1503810621")
//	// []header.Header{{
//	//     Name:   "Via",
//	//     Value:  "SIP/2.0/TCP 192.168.1.123:5062",
//	//     Params: header.Params{header.Flag("rport"), header.Pair("branch", "z9hG4bK1503810621")},
//	// }}
//
// A line with comma-separated values expands to one entry per value,
// commas inside quoted strings do not separate values:
//
//	hdrs, err := header.ParseLine("Allow: INVITE, ACK, BYE")
//	// three entries named "Allow"
//
// Each value is split from its parameters at the first ";" that is outside of
// angle brackets and quoted strings, so URI parameters of a name-addr stay in the value.
//
// # Authentication headers
//
// WWW-Authenticate, Authorization, Proxy-Authenticate and Proxy-Authorization
// (see [IsAuthName]) use commas to separate parameters, not values.
// Such a line always gives exactly one entry whose value is the auth scheme:
//
//	hdrs, err := header.ParseLine(`Authorization: Digest username="bob", realm="atlanta.com"`)
//	// []header.Header{{
//	//     Name:   "Authorization",
//	//     Value:  "Digest",
//	//     Params: header.Params{header.Pair("username", "bob"), header.Pair("realm", "atlanta.com")},
//	// }}
//
// Quotes are stripped from the parameter values and added back on rendering,
// except for the "algorithm" and "stale" parameters that are rendered unquoted.
//
// # Header names
//
// Header names keep their original casing. [CanonicName] normalizes a name and expands
// the compact forms defined in RFC 3261 ("v" → "Via", "i" → "Call-ID", ...).
// [Headers.Get] and [Headers.First] match names through it.
// Rendering with [RenderOptions.Compact] uses the compact form where one exists.
package header
