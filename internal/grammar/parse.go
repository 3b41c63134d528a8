package grammar

import (
	"bytes"
	"strconv"

	"braces.dev/errtrace"
	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/sipwire/internal/errorutil"
)

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

// maxVersionLen bounds the SIP-Version field handed to the ABNF matcher.
const maxVersionLen = 16

func newMalformedInputErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

// RequestLine is a recognized SIP request start line.
type RequestLine struct {
	Method  string
	URI     string
	Version string
}

// StatusLine is a recognized SIP response start line.
type StatusLine struct {
	Version string
	Status  int
	Reason  string
}

// matchWhole runs op over s and returns the best node that covers all of s.
// Only short bounded fields are matched this way.
func matchWhole(op abnf.Operator, s []byte, ns *abnf.Nodes) (*abnf.Node, error) {
	if err := op(s, 0, ns); err != nil {
		return nil, errtrace.Wrap(newMalformedInputErr(err))
	}

	n := ns.Best()
	if nl, il := n.Len(), len(s); nl < il {
		return nil, errtrace.Wrap(newMalformedInputErr("node length %d < input length %d", nl, il))
	}
	return n, nil
}

// parseVersion matches "SIP/" 1*DIGIT "." 1*DIGIT and returns the version number.
func parseVersion(s []byte) (string, error) {
	if len(s) > maxVersionLen {
		return "", errtrace.Wrap(newMalformedInputErr("SIP-Version too long: %d bytes", len(s)))
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	n, err := matchWhole(sipVersion, s, ns)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return MustGetNode(n, "version-number").String(), nil
}

// ParseRequestLine matches s as a whole against the request line grammar
//
//	Request-Line = Method SP Request-URI SP SIP-Version
//
// The line is split on SP first, so the cost is linear in the line length.
func ParseRequestLine[T ~string | ~[]byte](s T) (RequestLine, error) {
	in := []byte(s)
	if len(in) == 0 {
		return RequestLine{}, errtrace.Wrap(ErrEmptyInput)
	}

	method, rest, ok := bytes.Cut(in, []byte{' '})
	if !ok || !tokenChars.match(method) {
		return RequestLine{}, errtrace.Wrap(newMalformedInputErr("invalid Method"))
	}
	ruri, ver, ok := bytes.Cut(rest, []byte{' '})
	if !ok || !uriChars.match(ruri) {
		return RequestLine{}, errtrace.Wrap(newMalformedInputErr("invalid Request-URI"))
	}
	num, err := parseVersion(ver)
	if err != nil {
		return RequestLine{}, errtrace.Wrap(err)
	}
	return RequestLine{
		Method:  string(method),
		URI:     string(ruri),
		Version: num,
	}, nil
}

// ParseStatusLine matches s as a whole against the status line grammar
//
//	Status-Line = SIP-Version SP Status-Code SP Reason-Phrase
//
// The reason phrase is everything after the status code and may be empty.
func ParseStatusLine[T ~string | ~[]byte](s T) (StatusLine, error) {
	in := []byte(s)
	if len(in) == 0 {
		return StatusLine{}, errtrace.Wrap(ErrEmptyInput)
	}

	ver, rest, ok := bytes.Cut(in, []byte{' '})
	if !ok {
		return StatusLine{}, errtrace.Wrap(newMalformedInputErr("missing Status-Code"))
	}
	num, err := parseVersion(ver)
	if err != nil {
		return StatusLine{}, errtrace.Wrap(err)
	}

	code, reason, ok := bytes.Cut(rest, []byte{' '})
	if !ok || len(code) != 3 {
		return StatusLine{}, errtrace.Wrap(newMalformedInputErr("invalid Status-Code"))
	}
	ns := abnf.NewNodes()
	defer ns.Free()
	if _, err := matchWhole(statusCode, code, ns); err != nil {
		return StatusLine{}, errtrace.Wrap(err)
	}
	status, err := strconv.Atoi(string(code))
	if err != nil {
		return StatusLine{}, errtrace.Wrap(newMalformedInputErr(err))
	}

	if len(reason) > 0 && !reasonChars.match(reason) {
		return StatusLine{}, errtrace.Wrap(newMalformedInputErr("invalid Reason-Phrase"))
	}
	return StatusLine{
		Version: num,
		Status:  status,
		Reason:  string(reason),
	}, nil
}
