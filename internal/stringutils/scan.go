package stringutils

import "github.com/qmuntal/stateless"

type quoteState int

const (
	quoteNormal quoteState = iota
	quoteOpen
	quoteEscaped
)

type quoteTrigger int

const (
	quoteTriggerDQuote quoteTrigger = iota
	quoteTriggerBackslash
	quoteTriggerOther
)

// newQuoteMachine tracks RFC 3261 quoted-string boundaries.
// Backslash escapes the next character only inside a quoted string.
func newQuoteMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(quoteNormal)
	sm.Configure(quoteNormal).
		Permit(quoteTriggerDQuote, quoteOpen).
		Ignore(quoteTriggerBackslash).
		Ignore(quoteTriggerOther)
	sm.Configure(quoteOpen).
		Permit(quoteTriggerDQuote, quoteNormal).
		Permit(quoteTriggerBackslash, quoteEscaped).
		Ignore(quoteTriggerOther)
	sm.Configure(quoteEscaped).
		Permit(quoteTriggerDQuote, quoteOpen).
		Permit(quoteTriggerBackslash, quoteOpen).
		Permit(quoteTriggerOther, quoteOpen)
	return sm
}

func quoteTriggerOf(c byte) quoteTrigger {
	switch c {
	case '"':
		return quoteTriggerDQuote
	case '\\':
		return quoteTriggerBackslash
	default:
		return quoteTriggerOther
	}
}

// SplitQuotedList splits s on sep occurrences that are outside of quoted strings.
// Escaped quotes (\") do not close a quoted string.
// Unlike [SplitIfNotBetween], empty pieces are kept, so the result always has at least one element.
func SplitQuotedList(s string, sep byte) []string {
	sm := newQuoteMachine()

	var pieces []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep && sm.MustState() == quoteNormal {
			pieces = append(pieces, s[start:i])
			start = i + 1
			continue
		}
		fire(sm, quoteTriggerOf(s[i]))
	}
	return append(pieces, s[start:])
}

// IndexUnbracketed returns the index of the first c in s that is outside of angle brackets
// and quoted strings, or -1 if there is none.
func IndexUnbracketed(s string, c byte) int {
	sm := newQuoteMachine()

	depth := 0
	for i := 0; i < len(s); i++ {
		if sm.MustState() == quoteNormal {
			switch s[i] {
			case c:
				if depth == 0 {
					return i
				}
			case '<':
				depth++
			case '>':
				if depth > 0 {
					depth--
				}
			}
		}
		fire(sm, quoteTriggerOf(s[i]))
	}
	return -1
}
