package sip

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/log"
	"github.com/ghettovoice/sipwire/internal/util"
	"github.com/ghettovoice/sipwire/uri"
)

const supportedVersion = "2.0"

var defParser = &Parser{}

// Parse parses a single SIP message from s using the default parser.
// See [Parser.Parse] for details.
func Parse[T ~string | ~[]byte](s T) (Message, error) {
	return errtrace.Wrap2(defParser.Parse(string(s)))
}

// Parser parses SIP messages.
// The zero value is ready to use.
type Parser struct {
	// Logger receives a debug record for each failed parse.
	// Nil means no logging.
	Logger *slog.Logger
}

func (p *Parser) logger() *slog.Logger {
	if p == nil || p.Logger == nil {
		return log.Noop
	}
	return p.Logger
}

// Parse parses a single SIP message.
//
// The message must contain the empty line that separates headers from the body.
// Folded header lines are joined before any header is parsed.
// Everything after the empty line is the body, taken verbatim.
//
// Any failure is returned as [*ParseError] wrapping one of the sentinel errors of
// this package or the header and uri packages.
func (p *Parser) Parse(raw string) (Message, error) {
	msg, err := parseMessage(raw)
	if err != nil {
		p.logger().LogAttrs(context.Background(), slog.LevelDebug, "failed to parse SIP message",
			slog.Any("error", err),
			slog.Any(log.RawKey, log.StringValue(raw)),
		)
		return nil, errtrace.Wrap(err)
	}
	return msg, nil
}

func parseMessage(raw string) (Message, error) {
	sep := strings.Index(raw, "\r\n\r\n")
	if sep < 0 {
		return nil, errtrace.Wrap(&ParseError{
			Err:   errorutil.NewWrapperError(ErrMissingEmptyLine, "%q", util.Ellipsis(raw, 64)),
			State: ParseStateBody,
			Data:  raw,
		})
	}
	eol := strings.Index(raw, "\r\n")
	startLine := raw[:eol]
	var block string
	if eol < sep {
		block = raw[eol+2 : sep]
	}
	body := raw[sep+4:]

	lines, err := unfold(block)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if rl, err := grammar.ParseRequestLine(startLine); err == nil {
		return errtrace.Wrap2(parseRequest(startLine, rl, lines, body))
	} else if sl, err2 := grammar.ParseStatusLine(startLine); err2 == nil {
		return errtrace.Wrap2(parseResponse(startLine, sl, lines, body))
	} else {
		return nil, errtrace.Wrap(&ParseError{
			Err:   fmt.Errorf("%w %q: %w", ErrMalformedStartLine, startLine, err2),
			State: ParseStateStart,
			Data:  startLine,
		})
	}
}

// unfold splits the header block into logical lines.
// A line starting with SP or HTAB continues the previous one,
// it is joined with a single space after its leading whitespace is trimmed.
func unfold(block string) ([]string, error) {
	if block == "" {
		return nil, nil
	}

	phys := strings.Split(block, "\r\n")
	lines := make([]string, 0, len(phys))
	for _, l := range phys {
		if l != "" && util.IsWSP(l[0]) {
			if len(lines) == 0 {
				return nil, errtrace.Wrap(&ParseError{
					Err:   errorutil.NewWrapperError(ErrOrphanContinuation, "%q", l),
					State: ParseStateHeaders,
					Data:  l,
				})
			}
			lines[len(lines)-1] += " " + strings.TrimLeft(l, " \t")
			continue
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func checkVersion(startLine, ver string) error {
	if ver != supportedVersion {
		return errtrace.Wrap(&ParseError{
			Err:   errorutil.NewWrapperError(ErrUnsupportedVersion, "%q", "SIP/"+ver),
			State: ParseStateStart,
			Data:  startLine,
		})
	}
	return nil
}

func parseRequest(startLine string, rl grammar.RequestLine, lines []string, body string) (*Request, error) {
	if err := checkVersion(startLine, rl.Version); err != nil {
		return nil, errtrace.Wrap(err)
	}

	u, err := uri.Parse(rl.URI)
	if err != nil {
		return nil, errtrace.Wrap(&ParseError{Err: err, State: ParseStateStart, Data: startLine})
	}

	hdrs, err := parseHeaders(lines)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	return &Request{
		Method:  rl.Method,
		URI:     *u,
		Version: rl.Version,
		Headers: hdrs,
		Body:    body,
	}, nil
}

func parseResponse(startLine string, sl grammar.StatusLine, lines []string, body string) (*Response, error) {
	if err := checkVersion(startLine, sl.Version); err != nil {
		return nil, errtrace.Wrap(err)
	}

	hdrs, err := parseHeaders(lines)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	return &Response{
		Version: sl.Version,
		Status:  sl.Status,
		Reason:  sl.Reason,
		Headers: hdrs,
		Body:    body,
	}, nil
}

func parseHeaders(lines []string) (Headers, error) {
	hdrs := make(Headers, 0, len(lines))
	for _, l := range lines {
		hs, err := header.ParseLine(l)
		if err != nil {
			return nil, errtrace.Wrap(&ParseError{Err: err, State: ParseStateHeaders, Data: l})
		}
		hdrs = append(hdrs, hs...)
	}
	return hdrs, nil
}
