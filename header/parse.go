package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/stringutils"
	"github.com/ghettovoice/sipwire/internal/util"
)

// ParseLine parses a single unfolded header line.
//
// A line of an authentication header always gives one entry (see [IsAuthName]).
// Any other line gives one entry per comma-separated value, in order.
// A line with an empty value gives one entry with empty value.
func ParseLine[T ~string | ~[]byte](line T) ([]Header, error) {
	s := string(line)
	name, rest, ok := strings.Cut(s, ":")
	name = util.TrimSP(name)
	if !ok || !grammar.IsToken(name) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidLine, "%q", s))
	}

	if IsAuthName(name) {
		hdr, err := parseAuth(name, rest)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return []Header{hdr}, nil
	}
	return errtrace.Wrap2(parseValues(name, rest))
}

// parseAuth parses "scheme SP param, param, ..." of the authentication headers.
func parseAuth(name, s string) (Header, error) {
	s = util.TrimSP(s)
	i := strings.IndexAny(s, " \t")
	if i <= 0 || !grammar.IsToken(s[:i]) || util.TrimSP(s[i:]) == "" {
		return Header{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidAuth, "%q", s))
	}

	params := make(Params, 0)
	for _, piece := range stringutils.SplitIfNotBetween(util.TrimSP(s[i:]), ',', '"') {
		params = append(params, ParseParams(strings.ReplaceAll(piece, `"`, ""))...)
	}
	return Header{Name: name, Value: s[:i], Params: params}, nil
}

func parseValues(name, s string) ([]Header, error) {
	segs := stringutils.SplitQuotedList(s, ',')
	hdrs := make([]Header, 0, len(segs))
	for _, seg := range segs {
		seg = util.TrimSP(seg)
		if seg == "" {
			continue
		}
		if seg[0] == ';' {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrLeadingParamDelimiter, "%q", seg))
		}

		hdr := Header{Name: name, Value: seg}
		if i := stringutils.IndexUnbracketed(seg, ';'); i >= 0 {
			hdr.Value = util.TrimSP(seg[:i])
			hdr.Params = ParseParams(seg[i+1:])
		}
		hdrs = append(hdrs, hdr)
	}
	if len(hdrs) == 0 {
		hdrs = append(hdrs, Header{Name: name})
	}
	return hdrs, nil
}
