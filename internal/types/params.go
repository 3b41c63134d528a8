package types

import (
	"io"
	"strings"

	"braces.dev/errtrace"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/sipwire/internal/ioutil"
	"github.com/ghettovoice/sipwire/internal/util"
)

// Param is a single name[=value] parameter.
// A parameter without a value is a flag, e.g. "rport" or "lr".
type Param struct {
	Name     string
	value    string
	hasValue bool
}

// Flag returns a parameter without a value.
func Flag(name string) Param { return Param{Name: name} }

// Pair returns a parameter with the given value, which may be empty.
func Pair(name, value string) Param { return Param{Name: name, value: value, hasValue: true} }

// Value returns the parameter value and a flag indicating whether it is set.
func (p Param) Value() (string, bool) { return p.value, p.hasValue }

// IsFlag reports whether the parameter has no value.
func (p Param) IsFlag() bool { return !p.hasValue }

func (p Param) String() string {
	if !p.hasValue {
		return p.Name
	}
	return p.Name + "=" + p.value
}

// Equal reports whether the parameter equals the provided value, accepting Param and *Param.
// Names and values are compared exactly.
func (p Param) Equal(val any) bool {
	var other Param
	switch v := val.(type) {
	case Param:
		other = v
	case *Param:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p == other
}

// Params is an ordered list of parameters.
// Order, duplicates and casing are preserved as parsed.
type Params []Param

// ParseParams parses a ";"-separated list of name[=value] parameters.
// Empty input gives nil. Blank segments are skipped,
// so a leading ";" as produced by [Params.RenderTo] is accepted.
func ParseParams[T ~string | ~[]byte](s T) Params {
	return ParseParamsSep(s, ';')
}

// ParseParamsSep is like [ParseParams] but splits on the given separator.
func ParseParamsSep[T ~string | ~[]byte](s T, sep byte) Params {
	if len(s) == 0 {
		return nil
	}

	segs := strings.Split(string(s), string(sep))
	ps := make(Params, 0, len(segs))
	for _, seg := range segs {
		seg = util.TrimSP(seg)
		if seg == "" {
			continue
		}
		name, value, ok := strings.Cut(seg, "=")
		if !ok {
			ps = append(ps, Flag(seg))
			continue
		}
		ps = append(ps, Pair(util.TrimSP(name), util.TrimSP(value)))
	}
	return ps
}

// Get returns the value of the first parameter with the given name (case-insensitive).
// Flags give an empty value.
func (ps Params) Get(name string) (string, bool) {
	for _, p := range ps {
		if util.EqFold(p.Name, name) {
			return p.value, true
		}
	}
	return "", false
}

// Has reports whether a parameter with the given name (case-insensitive) is in the list.
func (ps Params) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}

// Equal reports whether both lists contain equal parameters in the same order.
// Nil and empty lists are equal.
func (ps Params) Equal(val any) bool {
	var other Params
	switch v := val.(type) {
	case Params:
		other = v
	case *Params:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return cmp.Equal([]Param(ps), []Param(other), cmpopts.EquateEmpty())
}

// RenderTo writes the parameters as ";name=value;flag".
func (ps Params) RenderTo(w io.Writer) (int, error) {
	return errtrace.Wrap2(RenderParams(w, ps, ";", ";"))
}

func (ps Params) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	ps.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// RenderParams writes the parameters, prefix goes before the first one and sep before each next one.
func RenderParams(w io.Writer, ps Params, prefix, sep string) (num int, err error) {
	if len(ps) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for i, p := range ps {
		if i == 0 {
			cw.Fprint(prefix, p.Name)
		} else {
			cw.Fprint(sep, p.Name)
		}
		if p.hasValue {
			cw.Fprint("=", p.value)
		}
	}
	return errtrace.Wrap2(cw.Result())
}
