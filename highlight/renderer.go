package highlight

import (
	"html"
	"html/template"
	"strings"
)

// Marker is the element wrapped around each match.
type Marker struct {
	Tag   string
	Class string
}

// DefaultMarker renders matches as <mark class="highlight">.
var DefaultMarker = Marker{Tag: "mark", Class: "highlight"}

var markerTags = map[string]struct{}{
	"mark":   {},
	"span":   {},
	"em":     {},
	"strong": {},
	"b":      {},
}

// normalize falls back to the default tag for anything outside markerTags.
func (m Marker) normalize() Marker {
	tag := strings.ToLower(strings.TrimSpace(m.Tag))
	if _, ok := markerTags[tag]; !ok {
		tag = DefaultMarker.Tag
	}
	return Marker{Tag: tag, Class: strings.TrimSpace(m.Class)}
}

func (m Marker) open() string {
	if m.Class == "" {
		return "<" + m.Tag + ">"
	}
	return "<" + m.Tag + ` class="` + html.EscapeString(m.Class) + `">`
}

func (m Marker) close() string {
	return "</" + m.Tag + ">"
}

// Render escapes text for HTML and wraps every span in marker.
// Spans are byte offsets into the unescaped text and must be sorted and
// non-overlapping; spans that are not are skipped.
func Render(text string, spans []Span, marker Marker) template.HTML {
	marker = marker.normalize()
	open, closeTag := marker.open(), marker.close()

	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(open)+len(closeTag)))

	prev := 0
	for _, s := range spans {
		if s.Start < prev || s.End <= s.Start || s.End > len(text) {
			continue
		}
		b.WriteString(html.EscapeString(text[prev:s.Start]))
		b.WriteString(open)
		b.WriteString(html.EscapeString(text[s.Start:s.End]))
		b.WriteString(closeTag)
		prev = s.End
	}
	b.WriteString(html.EscapeString(text[prev:]))

	return template.HTML(b.String())
}
