package generator

import (
	"encoding/json"
	"sort"
	"strings"
)

// SourceMap is a version 3 source map.
type SourceMap struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
}

// JSON encodes the map.
func (m *SourceMap) JSON() ([]byte, error) {
	return json.Marshal(m)
}

type mapping struct {
	genLine, genCol   int
	origLine, origCol int
}

// mapper collects mappings from generated positions to source offsets.
// Node starts are queued by mark and pinned to the output position of the
// next visible text.
type mapper struct {
	lineStarts []int
	pending    []int
	mappings   []mapping
}

func newMapper(code string) *mapper {
	starts := []int{0}
	for i := 0; i < len(code); i++ {
		if code[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &mapper{lineStarts: starts}
}

func (m *mapper) mark(offset int) {
	m.pending = append(m.pending, offset)
}

func (m *mapper) resolve(line, col int) {
	for _, offset := range m.pending {
		l := sort.Search(len(m.lineStarts), func(i int) bool { return m.lineStarts[i] > offset }) - 1
		mp := mapping{genLine: line, genCol: col, origLine: l, origCol: offset - m.lineStarts[l]}
		if n := len(m.mappings); n > 0 && m.mappings[n-1].genLine == line && m.mappings[n-1].genCol == col {
			m.mappings[n-1] = mp
			continue
		}
		m.mappings = append(m.mappings, mp)
	}
	m.pending = m.pending[:0]
}

func (m *mapper) sourceMap(source, code string) *SourceMap {
	sm := &SourceMap{
		Version:  3,
		Sources:  []string{source},
		Names:    []string{},
		Mappings: m.encode(),
	}
	if code != "" {
		sm.SourcesContent = []string{code}
	}
	return sm
}

func (m *mapper) encode() string {
	var b strings.Builder
	line, prevCol, prevOrigLine, prevOrigCol := 0, 0, 0, 0
	first := true
	for _, mp := range m.mappings {
		for line < mp.genLine {
			b.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeVLQ(&b, mp.genCol-prevCol)
		writeVLQ(&b, 0)
		writeVLQ(&b, mp.origLine-prevOrigLine)
		writeVLQ(&b, mp.origCol-prevOrigCol)
		prevCol, prevOrigLine, prevOrigCol = mp.genCol, mp.origLine, mp.origCol
	}
	return b.String()
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func writeVLQ(b *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v << 1) | 1
	}
	for {
		digit := u & 31
		u >>= 5
		if u > 0 {
			digit |= 32
		}
		b.WriteByte(base64Chars[digit])
		if u == 0 {
			return
		}
	}
}
