// Package sip parses raw SIP (RFC 3261) text messages into requests and responses
// and renders them back to the wire format.
//
// Parsing a message:
//
//	msg, err := sip.Parse(raw)
//	if err != nil {
//		var perr *sip.ParseError
//		if errors.As(err, &perr) {
//			// perr.State tells at which stage parsing failed, perr.Data holds the offending fragment
//		}
//		return err
//	}
//	switch m := msg.(type) {
//	case *sip.Request:
//		fmt.Println(m.Method, m.URI.String())
//	case *sip.Response:
//		fmt.Println(m.Status, m.Reason)
//	}
//
// Rendering it back:
//
//	s := sip.Render(msg)
//
// Headers are kept in the order they appeared. A header line carrying several comma-separated values
// gives one [Header] per value, except authentication headers which always give one entry.
// Body is treated as opaque text.
package sip
