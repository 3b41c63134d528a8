package sip

//go:generate go tool errtrace -w .

import (
	"fmt"

	"github.com/ghettovoice/sipwire/internal/errorutil"
)

// Message errors.
const (
	ErrMalformedStartLine Error = "neither a valid request line nor a valid status line"
	ErrUnsupportedVersion Error = "unsupported SIP version"
	ErrMissingEmptyLine   Error = "expected an empty line after the headers"
	ErrOrphanContinuation Error = "continuation line before the first header"
)

// Error represents a SIP error.
// See [errorutil.Error].
type Error = errorutil.Error

// ParseError represents an error that occurred during parsing.
//
// It contains the error that occurred, the parsing state and the raw fragment that caused the error.
type ParseError struct {
	Err   error
	State ParseState
	Data  string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", err.Err)
}

func (err *ParseError) Unwrap() error { return err.Err }

// Grammar reports whether the start line was rejected by the start line grammar.
func (err *ParseError) Grammar() bool { return errorutil.IsGrammarErr(err.Err) }

type ParseState int

const (
	ParseStateStart   ParseState = iota // parsing message start line
	ParseStateHeaders                   // parsing message headers
	ParseStateBody                      // locating the header/body separator
)

func (s ParseState) String() string {
	switch s {
	case ParseStateStart:
		return "start"
	case ParseStateHeaders:
		return "headers"
	case ParseStateBody:
		return "body"
	default:
		return fmt.Sprintf("ParseState(%d)", int(s))
	}
}
