// Package present renders classifications for the person who screened and,
// separately, for staff review.
package present

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lexscreen/internal/screening/rules"
)

//go:embed guidance/*.md
var guidanceFS embed.FS

const defaultLanguage = "en"

// Catalogue holds guidance text per language, as markdown keyed by code.
type Catalogue struct {
	texts map[string]map[rules.GuidanceCode]string
}

// LoadCatalogue parses the embedded guidance files. Each "## code" heading
// starts the text of that code.
func LoadCatalogue() (*Catalogue, error) {
	entries, err := guidanceFS.ReadDir("guidance")
	if err != nil {
		return nil, fmt.Errorf("read guidance: %w", err)
	}
	c := &Catalogue{texts: make(map[string]map[rules.GuidanceCode]string)}
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), ".md")
		b, err := guidanceFS.ReadFile("guidance/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read guidance %s: %w", e.Name(), err)
		}
		texts, err := parseGuidance(b)
		if err != nil {
			return nil, fmt.Errorf("parse guidance %s: %w", e.Name(), err)
		}
		c.texts[lang] = texts
	}
	if _, ok := c.texts[defaultLanguage]; !ok {
		return nil, fmt.Errorf("guidance for %q is missing", defaultLanguage)
	}
	return c, nil
}

// MustLoadCatalogue panics if the embedded guidance is malformed.
func MustLoadCatalogue() *Catalogue {
	c, err := LoadCatalogue()
	if err != nil {
		panic(err)
	}
	return c
}

func parseGuidance(b []byte) (map[rules.GuidanceCode]string, error) {
	out := make(map[rules.GuidanceCode]string)
	var (
		code rules.GuidanceCode
		body strings.Builder
	)
	flush := func() {
		if code != "" {
			out[code] = strings.TrimSpace(body.String())
		}
		body.Reset()
	}
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := sc.Text()
		if heading, ok := strings.CutPrefix(line, "## "); ok {
			flush()
			code = rules.GuidanceCode(strings.TrimSpace(heading))
			if _, dup := out[code]; dup {
				return nil, fmt.Errorf("duplicate guidance %q", code)
			}
			continue
		}
		if code != "" {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

// Markdown returns the guidance text in lang, falling back to English.
func (c *Catalogue) Markdown(code rules.GuidanceCode, lang string) (string, bool) {
	if texts, ok := c.texts[normalizeLanguage(lang)]; ok {
		if md, ok := texts[code]; ok {
			return md, true
		}
	}
	md, ok := c.texts[defaultLanguage][code]
	return md, ok
}

// Has reports whether code has English text.
func (c *Catalogue) Has(code rules.GuidanceCode) bool {
	_, ok := c.texts[defaultLanguage][code]
	return ok
}

func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if base, _, ok := strings.Cut(lang, "-"); ok {
		return base
	}
	if lang == "" {
		return defaultLanguage
	}
	return lang
}

// renderHTML converts guidance markdown to HTML. Links open in a new tab.
func renderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return string(markdown.ToHTML([]byte(md), p, r))
}
