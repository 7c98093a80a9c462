package generator

import (
	"sort"

	"github.com/roach88/babelgo/internal/ast"
)

// whitespace measures the line breaks around source nodes. Each source line
// is counted at most once so a gap is not emitted both after one statement
// and before the next.
type whitespace struct {
	src        string
	lineStarts []int
	used       map[int]bool
}

func newWhitespace(src string) *whitespace {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &whitespace{src: src, lineStarts: starts, used: map[int]bool{}}
}

// line returns the 1-based line holding offset.
func (w *whitespace) line(offset int) int {
	return sort.Search(len(w.lineStarts), func(i int) bool { return w.lineStarts[i] > offset })
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func (w *whitespace) before(n ast.Node) int {
	start, _ := ast.Span(n)
	start = min(start, len(w.src))
	prev := start - 1
	for prev >= 0 && isSpace(w.src[prev]) {
		prev--
	}
	from := 1
	if prev >= 0 {
		from = w.line(prev)
	}
	return w.count(from, w.line(start))
}

func (w *whitespace) after(n ast.Node) int {
	_, end := ast.Span(n)
	end = min(end, len(w.src))
	next := w.skipSpace(end)
	if next < len(w.src) && w.src[next] == ';' {
		end = next + 1
		next = w.skipSpace(end)
	}
	if next < len(w.src) && w.src[next] == ',' {
		next = w.skipSpace(next + 1)
	}
	if next >= len(w.src) {
		return 1
	}
	return w.count(w.line(max(end-1, 0)), w.line(next))
}

func (w *whitespace) skipSpace(i int) int {
	for i < len(w.src) && isSpace(w.src[i]) {
		i++
	}
	return i
}

func (w *whitespace) count(from, to int) int {
	lines := 0
	for l := from; l < to; l++ {
		if !w.used[l] {
			w.used[l] = true
			lines++
		}
	}
	return lines
}
