package indenter

import (
	"fmt"
	"strings"
)

// indenter builds nested multi-line strings with two-space indentation per
// level. Typical use:
//
//	Indenter().Start("{").NestThunked(fs...).End("}")
type indenter struct {
	buf   strings.Builder
	level int
}

func Indenter() *indenter {
	return &indenter{}
}

func (i *indenter) indent() string {
	return strings.Repeat("  ", i.level)
}

func (i *indenter) Start(str string) *indenter {
	i.buf.WriteString(str)
	return i
}

type stringableString string

func (s stringableString) String() string {
	return string(s)
}

func (i *indenter) NestStrings(strs ...string) *indenter {
	return i.NestStringsSep("", strs...)
}

func (i *indenter) NestStringsSep(sep string, strs ...string) *indenter {
	stringers := make([]fmt.Stringer, len(strs))
	for j, v := range strs {
		stringers[j] = stringableString(v)
	}
	return i.NestSep(sep, stringers...)
}

func (i *indenter) Nest(strs ...fmt.Stringer) *indenter {
	return i.NestSep("", strs...)
}

func (i *indenter) NestSep(sep string, strs ...fmt.Stringer) *indenter {
	// A single element stays on the current line.
	if len(strs) == 1 {
		i.buf.WriteString(strs[0].String())
		return i
	}

	i.level++
	for j, str := range strs {
		i.buf.WriteString("\n")
		i.buf.WriteString(i.indent())
		i.buf.WriteString(str.String())
		if j < len(strs)-1 {
			i.buf.WriteString(sep)
		}
	}
	i.level--
	i.buf.WriteString("\n")
	return i
}

func (i *indenter) NestThunked(strs ...func() string) *indenter {
	return i.NestThunkedSep("", strs...)
}

// NestThunkedSep renders the nested elements lazily, as they are placed.
func (i *indenter) NestThunkedSep(sep string, strs ...func() string) *indenter {
	if len(strs) == 1 {
		i.buf.WriteString(strs[0]())
		return i
	}

	i.level++
	for j, str := range strs {
		i.buf.WriteString("\n")
		i.buf.WriteString(i.indent())
		i.buf.WriteString(str())
		if j < len(strs)-1 {
			i.buf.WriteString(sep)
		}
	}
	i.level--
	i.buf.WriteString("\n")
	return i
}

func (i *indenter) End(str string) string {
	out := i.buf.String()
	if out != "" && out[len(out)-1] == '\n' {
		return out + i.indent() + str
	}
	return out + str
}
