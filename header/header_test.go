package header_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/sipwire/header"
	"github.com/ghettovoice/sipwire/internal/testutil/iomock"
)

func TestCanonicName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"", "call-id", "Call-ID"},
		{"", "cALL-id", "Call-ID"},
		{"", "Call-Id", "Call-ID"},
		{"", "i", "Call-ID"},
		{"", "I", "Call-ID"},
		{"", "Call-ID", "Call-ID"},
		{"", "cseq", "CSeq"},
		{"", "Cseq", "CSeq"},
		{"", "x-custom-header", "X-Custom-Header"},
		{"", "l", "Content-Length"},
		{"", " v ", "Via"},
		{"", "mime-version", "MIME-Version"},
		{"", "www-authenticate", "WWW-Authenticate"},
		{"", "q", "Q"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := header.CanonicName(c.in), c.out; got != want {
				t.Errorf("header.CanonicName(%q) = %q, want %q", c.in, got, want)
			}
		})
	}
}

func TestCompactName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, out string
	}{
		{"Via", "v"},
		{"call-id", "i"},
		{"Content-Length", "l"},
		{"v", "v"},
		{"CSeq", "CSeq"},
		{"X-Foo", "X-Foo"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			if got := header.CompactName(c.in); got != c.out {
				t.Errorf("header.CompactName(%q) = %q, want %q", c.in, got, c.out)
			}
		})
	}
}

func TestIsAuthName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"WWW-Authenticate", "www-authenticate", "Authorization", "PROXY-AUTHENTICATE", "Proxy-Authorization"} {
		if !header.IsAuthName(name) {
			t.Errorf("header.IsAuthName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Authentication-Info", "Via", "Auth", ""} {
		if header.IsAuthName(name) {
			t.Errorf("header.IsAuthName(%q) = true, want false", name)
		}
	}
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		line    string
		want    []header.Header
		wantErr error
	}{
		{"empty", "", nil, header.ErrInvalidLine},
		{"no colon", "Via SIP/2.0/UDP host", nil, header.ErrInvalidLine},
		{"empty name", ": value", nil, header.ErrInvalidLine},
		{"bad name", "Call ID: abc", nil, header.ErrInvalidLine},
		{"leading semicolon", "Via: ;rport", nil, header.ErrLeadingParamDelimiter},
		{"leading semicolon in second value", "Route: <sip:a.com>, ;lr", nil, header.ErrLeadingParamDelimiter},
		{"auth without params", "Authorization: Digest", nil, header.ErrInvalidAuth},
		{"auth bad scheme", `WWW-Authenticate: "Digest" realm="x"`, nil, header.ErrInvalidAuth},
		{
			"via",
			"Via: SIP/2.0/TCP 192.168.1.123:5062;rport;branch=z9hG4bK1503810621",
			[]header.Header{{
				Name:   "Via",
				Value:  "SIP/2.0/TCP 192.168.1.123:5062",
				Params: header.Params{header.Flag("rport"), header.Pair("branch", "z9hG4bK1503810621")},
			}},
			nil,
		},
		{
			"three values",
			"Name: v1, v2, v3",
			[]header.Header{{Name: "Name", Value: "v1"}, {Name: "Name", Value: "v2"}, {Name: "Name", Value: "v3"}},
			nil,
		},
		{
			"name casing preserved",
			"call-ID:a84b4c76e66710@pc33.atlanta.com",
			[]header.Header{{Name: "call-ID", Value: "a84b4c76e66710@pc33.atlanta.com"}},
			nil,
		},
		{
			"name-addr with URI params",
			`From: "Alice, A" <sip:alice@atlanta.com;transport=tcp>;tag=1928301774`,
			[]header.Header{{
				Name:   "From",
				Value:  `"Alice, A" <sip:alice@atlanta.com;transport=tcp>`,
				Params: header.Params{header.Pair("tag", "1928301774")},
			}},
			nil,
		},
		{
			"quoted comma with escaped quote",
			`Contact: "Bob \", Jr." <sip:bob@b.com>, <sip:c@c.com>;expires=60`,
			[]header.Header{
				{Name: "Contact", Value: `"Bob \", Jr." <sip:bob@b.com>`},
				{Name: "Contact", Value: "<sip:c@c.com>", Params: header.Params{header.Pair("expires", "60")}},
			},
			nil,
		},
		{
			"empty value",
			"Subject:   ",
			[]header.Header{{Name: "Subject"}},
			nil,
		},
		{
			"empty segments",
			"Supported: timer,, 100rel,",
			[]header.Header{{Name: "Supported", Value: "timer"}, {Name: "Supported", Value: "100rel"}},
			nil,
		},
		{
			"auth",
			`Authorization: Digest username="bob", realm="biloxi.com", nonce="dcd98b7102dd2f0e8b11d0f600bfb0c093", uri="sip:bob@biloxi.com", qop=auth, nc=00000001, algorithm=MD5`,
			[]header.Header{{
				Name:  "Authorization",
				Value: "Digest",
				Params: header.Params{
					header.Pair("username", "bob"),
					header.Pair("realm", "biloxi.com"),
					header.Pair("nonce", "dcd98b7102dd2f0e8b11d0f600bfb0c093"),
					header.Pair("uri", "sip:bob@biloxi.com"),
					header.Pair("qop", "auth"),
					header.Pair("nc", "00000001"),
					header.Pair("algorithm", "MD5"),
				},
			}},
			nil,
		},
		{
			"auth quoted comma",
			`Proxy-Authenticate: Digest realm="a,b", qop="auth,auth-int", stale=FALSE`,
			[]header.Header{{
				Name:  "Proxy-Authenticate",
				Value: "Digest",
				Params: header.Params{
					header.Pair("realm", "a,b"),
					header.Pair("qop", "auth,auth-int"),
					header.Pair("stale", "FALSE"),
				},
			}},
			nil,
		},
		{
			"auth only commas",
			"www-authenticate: Basic ,,",
			[]header.Header{{Name: "www-authenticate", Value: "Basic", Params: header.Params{}}},
			nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ParseLine(c.line)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("header.ParseLine(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.line, err, c.wantErr, diff)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("header.ParseLine(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.line, got, c.want, diff)
			}
		})
	}
}

func TestParseLine_AuthSingleEntry(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"WWW-Authenticate", "Authorization", "Proxy-Authenticate", "Proxy-Authorization"} {
		line := name + `: Digest a=1, b="2,3", c, d=4,,e=5`
		got, err := header.ParseLine(line)
		if err != nil {
			t.Fatalf("header.ParseLine(%q) error = %v, want nil", line, err)
		}
		if len(got) != 1 {
			t.Errorf("len(header.ParseLine(%q)) = %d, want 1", line, len(got))
		}
		if got[0].Params == nil {
			t.Errorf("header.ParseLine(%q)[0].Params = nil, want non-nil", line)
		}
	}
}

func TestParseLine_NormalParamsNil(t *testing.T) {
	t.Parallel()

	got, err := header.ParseLine("Max-Forwards: 70")
	if err != nil {
		t.Fatalf("header.ParseLine(...) error = %v, want nil", err)
	}
	if got[0].Params != nil {
		t.Errorf("header.ParseLine(...)[0].Params = %#v, want nil", got[0].Params)
	}
}

func TestParseLine_ErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := header.ParseLine("garbage line")
	if err == nil || !strings.Contains(err.Error(), `"garbage line"`) {
		t.Errorf("header.ParseLine(\"garbage line\") error = %v, want error mentioning the line", err)
	}
}

func TestHeader_Render(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hdr  header.Header
		opts *header.RenderOptions
		want string
	}{
		{"plain", header.Header{Name: "Max-Forwards", Value: "70"}, nil, "Max-Forwards: 70"},
		{"empty value", header.Header{Name: "Subject"}, nil, "Subject: "},
		{
			"params",
			header.Header{
				Name:   "Via",
				Value:  "SIP/2.0/UDP pc33.atlanta.com",
				Params: header.Params{header.Pair("branch", "z9hG4bK776asdhds"), header.Flag("rport")},
			},
			nil,
			"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds;rport",
		},
		{
			"compact",
			header.Header{Name: "Via", Value: "SIP/2.0/UDP pc33.atlanta.com"},
			&header.RenderOptions{Compact: true},
			"v: SIP/2.0/UDP pc33.atlanta.com",
		},
		{
			"auth",
			header.Header{
				Name:  "WWW-Authenticate",
				Value: "Digest",
				Params: header.Params{
					header.Pair("realm", "atlanta.com"),
					header.Pair("Algorithm", "MD5"),
					header.Pair("stale", "FALSE"),
					header.Flag("opaque"),
					header.Pair("qop", "auth,auth-int"),
				},
			},
			nil,
			`WWW-Authenticate: Digest realm="atlanta.com", Algorithm=MD5, stale=FALSE, opaque, qop="auth,auth-int"`,
		},
		{
			"auth without params",
			header.Header{Name: "Authorization", Value: "Digest", Params: header.Params{}},
			nil,
			"Authorization: Digest",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.hdr.Render(c.opts); got != c.want {
				t.Errorf("hdr.Render(opts) = %q, want %q", got, c.want)
			}
		})
	}
}

func TestHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"Via: SIP/2.0/TCP 192.168.1.123:5062;rport;branch=z9hG4bK1503810621",
		`To: "Bob" <sip:bob@biloxi.com;transport=tcp>;tag=a6c85cf`,
		`Proxy-Authorization: Digest username="alice", realm="a,b", algorithm=MD5, stale=TRUE`,
		"CSeq: 314159 INVITE",
	} {
		t.Run(line, func(t *testing.T) {
			t.Parallel()

			hdrs, err := header.ParseLine(line)
			if err != nil {
				t.Fatalf("header.ParseLine(%q) error = %v, want nil", line, err)
			}
			if got := header.Headers(hdrs).String(); got != line {
				t.Errorf("rendered = %q, want %q", got, line)
			}
		})
	}
}

func TestHeader_RenderTo_Error(t *testing.T) {
	t.Parallel()

	errWrite := errors.New("write failed")
	w := iomock.NewMockWriter(gomock.NewController(t))
	w.EXPECT().Write(gomock.Any()).Return(0, errWrite)

	hdr := header.Header{Name: "Via", Value: "SIP/2.0/UDP host", Params: header.Params{header.Flag("rport")}}
	_, err := hdr.RenderTo(w, nil)
	if diff := cmp.Diff(err, errWrite, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("hdr.RenderTo(w, nil) error = %v, want %v\ndiff (-got +want):\n%v", err, errWrite, diff)
	}
}

func TestHeader_Equal(t *testing.T) {
	t.Parallel()

	hdr := header.Header{Name: "Via", Value: "SIP/2.0/UDP host", Params: header.Params{header.Flag("rport")}}

	cases := []struct {
		name string
		val  any
		want bool
	}{
		{"nil", nil, false},
		{"nil pointer", (*header.Header)(nil), false},
		{"same", header.Header{Name: "Via", Value: "SIP/2.0/UDP host", Params: header.Params{header.Flag("rport")}}, true},
		{"pointer", &header.Header{Name: "Via", Value: "SIP/2.0/UDP host", Params: header.Params{header.Flag("rport")}}, true},
		{"name casing", header.Header{Name: "via", Value: "SIP/2.0/UDP host", Params: header.Params{header.Flag("rport")}}, false},
		{"params", header.Header{Name: "Via", Value: "SIP/2.0/UDP host"}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := hdr.Equal(c.val); got != c.want {
				t.Errorf("hdr.Equal(%v) = %v, want %v", c.val, got, c.want)
			}
		})
	}
}

func TestHeader_IsValid(t *testing.T) {
	t.Parallel()

	if !(header.Header{Name: "X-Foo", Value: "bar", Params: header.Params{header.Flag("a")}}).IsValid() {
		t.Error("header.IsValid() = false, want true")
	}
	if (header.Header{Name: "X Foo", Value: "bar"}).IsValid() {
		t.Error("header with space in name IsValid() = true, want false")
	}
	if (header.Header{Name: "X-Foo", Params: header.Params{header.Flag("a b")}}).IsValid() {
		t.Error("header with bad param name IsValid() = true, want false")
	}
}

func TestHeader_Format(t *testing.T) {
	t.Parallel()

	hdr := header.Header{Name: "Max-Forwards", Value: "70"}
	if got, want := fmt.Sprintf("%s", hdr), "Max-Forwards: 70"; got != want {
		t.Errorf("fmt.Sprintf(\"%%s\", hdr) = %q, want %q", got, want)
	}
	if got, want := fmt.Sprintf("%q", hdr), `"Max-Forwards: 70"`; got != want {
		t.Errorf("fmt.Sprintf(\"%%q\", hdr) = %q, want %q", got, want)
	}
}

func TestHeaders_Get(t *testing.T) {
	t.Parallel()

	hdrs := header.Headers{
		{Name: "v", Value: "SIP/2.0/UDP a.com"},
		{Name: "To", Value: "<sip:bob@biloxi.com>"},
		{Name: "VIA", Value: "SIP/2.0/UDP b.com"},
		{Name: "call-id", Value: "abc"},
	}

	wantVia := []header.Header{{Name: "v", Value: "SIP/2.0/UDP a.com"}, {Name: "VIA", Value: "SIP/2.0/UDP b.com"}}
	if diff := cmp.Diff(hdrs.Get("Via"), wantVia); diff != "" {
		t.Errorf("hdrs.Get(\"Via\") = %+v, want %+v\ndiff (-got +want):\n%v", hdrs.Get("Via"), wantVia, diff)
	}
	if diff := cmp.Diff(hdrs.Get("v"), wantVia); diff != "" {
		t.Errorf("hdrs.Get(\"v\") = %+v, want %+v\ndiff (-got +want):\n%v", hdrs.Get("v"), wantVia, diff)
	}
	if got, ok := hdrs.First("i"); !ok || got.Value != "abc" {
		t.Errorf("hdrs.First(\"i\") = (%+v, %v), want Call-ID entry", got, ok)
	}
	if hdrs.Has("Contact") {
		t.Error("hdrs.Has(\"Contact\") = true, want false")
	}
	if got := hdrs.Get("Contact"); got != nil {
		t.Errorf("hdrs.Get(\"Contact\") = %+v, want nil", got)
	}
}

func TestHeaders_Render(t *testing.T) {
	t.Parallel()

	hdrs := header.Headers{
		{Name: "Call-ID", Value: "abc"},
		{Name: "Content-Length", Value: "0"},
	}
	if got, want := hdrs.Render(&header.RenderOptions{Compact: true}), "i: abc\r\nl: 0"; got != want {
		t.Errorf("hdrs.Render(compact) = %q, want %q", got, want)
	}
	if got := header.Headers(nil).String(); got != "" {
		t.Errorf("header.Headers(nil).String() = %q, want \"\"", got)
	}
}
