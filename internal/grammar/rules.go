package grammar

import "github.com/ghettovoice/abnf"

func lit(key, s string) abnf.Operator { return abnf.Literal(key, []byte(s)) }

func rng(key string, lo, hi byte) abnf.Operator {
	return abnf.Range(key, []byte{lo}, []byte{hi})
}

var (
	htab  = lit("HTAB", "\t")
	digit = rng("DIGIT", '0', '9')

	// token-char = alphanum / "-" / "." / "!" / "%" / "*" / "_" / "+" / "`" / "'" / "~"
	tokenChar = abnf.Alt(
		"token-char",
		rng("ALPHA", 'a', 'z'),
		rng("ALPHA", 'A', 'Z'),
		digit,
		lit("mark", "-"),
		lit("mark", "."),
		lit("mark", "!"),
		lit("mark", "%"),
		lit("mark", "*"),
		lit("mark", "_"),
		lit("mark", "+"),
		lit("mark", "`"),
		lit("mark", "'"),
		lit("mark", "~"),
	)

	// Request-URI characters: VCHAR / UTF8-NONASCII, the URI codec does the rest.
	uriChar = abnf.Alt(
		"uri-char",
		rng("VCHAR", 0x21, 0x7e),
		rng("UTF8-NONASCII", 0x80, 0xff),
	)

	// Reason-Phrase characters: TEXT-UTF8char / SP / HTAB
	reasonChar = abnf.Alt(
		"reason-char",
		rng("TEXT", 0x20, 0x7e),
		rng("UTF8-NONASCII", 0x80, 0xff),
		htab,
	)

	// SIP-Version = "SIP" "/" 1*DIGIT "." 1*DIGIT
	sipVersion = abnf.Concat(
		"SIP-Version",
		lit("SIP", "SIP"),
		lit("slash", "/"),
		abnf.Concat(
			"version-number",
			abnf.Repeat1Inf("major", digit),
			lit("dot", "."),
			abnf.Repeat1Inf("minor", digit),
		),
	)

	// Status-Code = 3DIGIT
	statusCode = abnf.Concat("Status-Code", digit, digit, digit)
)

// charClass is a byte lookup table of a single-character rule.
// Unbounded repetitions of such a rule are checked against the table in linear time
// instead of running the repetition operator over the whole input.
type charClass [256]bool

func newCharClass(op abnf.Operator) *charClass {
	var cc charClass
	for c := range 256 {
		ns := abnf.NewNodes()
		if err := op([]byte{byte(c)}, 0, ns); err == nil && ns.Best().Len() == 1 {
			cc[c] = true
		}
		ns.Free()
	}
	return &cc
}

// match reports whether s is a non-empty run of the class characters.
func (cc *charClass) match(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !cc[c] {
			return false
		}
	}
	return true
}

var (
	tokenChars  = newCharClass(tokenChar)
	uriChars    = newCharClass(uriChar)
	reasonChars = newCharClass(reasonChar)
)
