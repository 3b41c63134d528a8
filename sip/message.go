package sip

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/types"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

// RenderOptions contains options for rendering messages.
// See [types.RenderOptions].
type RenderOptions = types.RenderOptions

// Header is a single logical header entry.
// See [header.Header].
type Header = header.Header

// Headers is an ordered list of header entries.
// See [header.Headers].
type Headers = header.Headers

// MessageKind tells whether a [Message] is a request or a response.
type MessageKind int

const (
	KindRequest MessageKind = iota + 1
	KindResponse
)

func (k MessageKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	default:
		return "MessageKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Message is either a [*Request] or a [*Response].
type Message interface {
	types.Renderer
	types.ValidFlag

	// Kind returns the message kind.
	Kind() MessageKind
	String() string

	message()
}

// Request represents a SIP request message.
type Request struct {
	Method  string  `json:"method"`
	URI     uri.SIP `json:"uri"`
	Version string  `json:"version"`
	Headers Headers `json:"headers"`
	Body    string  `json:"body"`
}

func (*Request) message() {}

// Kind always returns [KindRequest].
func (*Request) Kind() MessageKind { return KindRequest }

// RenderTo renders the SIP request to the given writer.
func (req *Request) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if req == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(req.renderStartLine(w, opts))
	})
	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(renderRest(w, req.Headers, req.Body, opts))
	})
	return errtrace.Wrap2(cw.Result())
}

func (req *Request) renderStartLine(w io.Writer, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(req.Method, " ")
	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(req.URI.RenderTo(w, opts))
	})
	cw.Fprint(" ", proto(req.Version))
	return errtrace.Wrap2(cw.Result())
}

// Render renders the SIP request to a string.
func (req *Request) Render(opts *RenderOptions) string {
	if req == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	req.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the request in the wire format.
func (req *Request) String() string {
	if req == nil {
		return "<nil>"
	}
	return req.Render(nil)
}

// Format implements [fmt.Formatter] for custom formatting.
// The "%s" verb prints only the start line, "%+s" prints the whole message.
func (req *Request) Format(f fmt.State, verb rune) {
	if req == nil {
		fmt.Fprint(f, "<nil>")
		return
	}
	switch verb {
	case 's', 'q':
		var s string
		if f.Flag('+') {
			s = req.Render(nil)
		} else {
			sb := util.GetStringBuilder()
			req.renderStartLine(sb, nil) //nolint:errcheck
			s = sb.String()
			util.FreeStringBuilder(sb)
		}
		if verb == 'q' {
			s = strconv.Quote(s)
		}
		fmt.Fprint(f, s)
		return
	default:
		type hideMethods Request
		type Request hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Request)(req))
		return
	}
}

// IsValid reports whether the request can be rendered to a well-formed message:
// the method is a token, the URI has a valid host, the version is 2.0 (or empty)
// and all headers are valid.
func (req *Request) IsValid() bool {
	return req != nil &&
		grammar.IsToken(req.Method) &&
		types.IsValid(&req.URI) &&
		validVersion(req.Version) &&
		validHeaders(req.Headers)
}

// Response represents a SIP response message.
type Response struct {
	Version string  `json:"version"`
	Status  int     `json:"status"`
	Reason  string  `json:"reason"`
	Headers Headers `json:"headers"`
	Body    string  `json:"body"`
}

func (*Response) message() {}

// Kind always returns [KindResponse].
func (*Response) Kind() MessageKind { return KindResponse }

// RenderTo renders the SIP response to the given writer.
func (res *Response) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if res == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Call(res.renderStartLine)
	cw.Call(func(w io.Writer) (int, error) {
		return errtrace.Wrap2(renderRest(w, res.Headers, res.Body, opts))
	})
	return errtrace.Wrap2(cw.Result())
}

func (res *Response) renderStartLine(w io.Writer) (num int, err error) {
	return errtrace.Wrap2(fmt.Fprint(w, proto(res.Version), " ", strconv.Itoa(res.Status), " ", res.Reason))
}

// Render renders the SIP response to a string.
func (res *Response) Render(opts *RenderOptions) string {
	if res == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	res.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the response in the wire format.
func (res *Response) String() string {
	if res == nil {
		return "<nil>"
	}
	return res.Render(nil)
}

// Format implements [fmt.Formatter] for custom formatting.
// The "%s" verb prints only the start line, "%+s" prints the whole message.
func (res *Response) Format(f fmt.State, verb rune) {
	if res == nil {
		fmt.Fprint(f, "<nil>")
		return
	}
	switch verb {
	case 's', 'q':
		var s string
		if f.Flag('+') {
			s = res.Render(nil)
		} else {
			sb := util.GetStringBuilder()
			res.renderStartLine(sb) //nolint:errcheck
			s = sb.String()
			util.FreeStringBuilder(sb)
		}
		if verb == 'q' {
			s = strconv.Quote(s)
		}
		fmt.Fprint(f, s)
		return
	default:
		type hideMethods Response
		type Response hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Response)(res))
		return
	}
}

// IsValid reports whether the response can be rendered to a well-formed message:
// the status code has three digits, the version is 2.0 (or empty) and all headers are valid.
func (res *Response) IsValid() bool {
	return res != nil &&
		res.Status >= 100 && res.Status <= 699 &&
		validVersion(res.Version) &&
		validHeaders(res.Headers)
}

func validVersion(ver string) bool { return ver == "" || ver == supportedVersion }

func validHeaders(hdrs Headers) bool {
	for _, h := range hdrs {
		if !types.IsValid(h) {
			return false
		}
	}
	return true
}

// IsProvisional reports whether the response is a 1xx response.
func (res *Response) IsProvisional() bool { return res.Status >= 100 && res.Status < 200 }

// IsSuccess reports whether the response is a 2xx response.
func (res *Response) IsSuccess() bool { return res.Status >= 200 && res.Status < 300 }

// IsFinal reports whether the response is a final (2xx-6xx) response.
func (res *Response) IsFinal() bool { return res.Status >= 200 && res.Status < 700 }

// proto returns the protocol part of a start line. Empty version renders as 2.0.
func proto(ver string) string {
	if ver == "" {
		ver = "2.0"
	}
	return "SIP/" + ver
}

// renderRest writes the header block and the body that follow the start line.
// Headers are CRLF-separated. A non-empty body is preceded by an empty line.
// An empty body leaves the header block open unless opts.CloseHeaders is set.
func renderRest(w io.Writer, hdrs Headers, body string, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if len(hdrs) > 0 {
		cw.Fprint("\r\n")
		cw.Call(func(w io.Writer) (int, error) {
			return errtrace.Wrap2(hdrs.RenderTo(w, opts))
		})
	}
	if body != "" || (opts != nil && opts.CloseHeaders) {
		cw.Fprint("\r\n\r\n", body)
	}
	return errtrace.Wrap2(cw.Result())
}
