package utils

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MarkupGuard strips every element except the highlight marker from rendered
// output. Text that was escaped upstream passes through unchanged.
type MarkupGuard struct {
	policy *bluemonday.Policy
}

// NewMarkupGuard allows only tag, and only the given class on it.
func NewMarkupGuard(tag, class string) *MarkupGuard {
	p := bluemonday.NewPolicy()
	p.AllowElements(tag)
	if class = strings.TrimSpace(class); class != "" {
		p.AllowAttrs("class").
			Matching(regexp.MustCompile(`^` + regexp.QuoteMeta(class) + `$`)).
			OnElements(tag)
	}
	return &MarkupGuard{policy: p}
}

func (g *MarkupGuard) Guard(fragment template.HTML) template.HTML {
	if fragment == "" {
		return fragment
	}
	return template.HTML(g.policy.Sanitize(string(fragment)))
}
