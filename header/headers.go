package header

import (
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Headers is an ordered list of header entries.
type Headers []Header

// Get returns all entries with the given name in their original order.
// Names are matched case-insensitively and compact forms match their full names.
func (hdrs Headers) Get(name string) []Header {
	name = CanonicName(name)
	var res []Header
	for _, h := range hdrs {
		if CanonicName(h.Name) == name {
			res = append(res, h)
		}
	}
	return res
}

// First returns the first entry with the given name. See [Headers.Get] for name matching.
func (hdrs Headers) First(name string) (Header, bool) {
	name = CanonicName(name)
	for _, h := range hdrs {
		if CanonicName(h.Name) == name {
			return h, true
		}
	}
	return Header{}, false
}

// Has reports whether there is at least one entry with the given name.
func (hdrs Headers) Has(name string) bool {
	_, ok := hdrs.First(name)
	return ok
}

// RenderTo writes each header on its own line separated by CRLF, without the trailing CRLF.
func (hdrs Headers) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i, h := range hdrs {
		if i > 0 {
			cw.Fprint("\r\n")
		}
		cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(h.RenderTo(w, opts)) })
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the CRLF-separated header lines.
func (hdrs Headers) Render(opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdrs.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (hdrs Headers) String() string { return hdrs.Render(nil) }
