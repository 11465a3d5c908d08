// Package i18n renders localized planner error messages.
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the fallback locale for every lookup.
const BaseLocale = "en-US"

// Code is a machine-readable error code.
type Code = string

//go:embed locales/*.yaml
var localeFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	loadOnce sync.Once
	loadErr  error
	catalogs map[string]*Catalog
	matcher  language.Matcher
	tags     []language.Tag
)

// GetCatalog returns the best matching catalog for locale, falling back to en-US.
func GetCatalog(locale string) *Catalog {
	if err := ensureLoaded(); err != nil {
		return &Catalog{locale: BaseLocale, messages: map[Code]string{}}
	}
	return catalogs[MatchLocale(locale)]
}

// MatchLocale resolves a requested locale or Accept-Language header to a supported locale.
func MatchLocale(requested string) string {
	if err := ensureLoaded(); err != nil {
		return BaseLocale
	}
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return BaseLocale
	}
	desired, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(desired) == 0 {
		return BaseLocale
	}
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return BaseLocale
	}
	return tags[index].String()
}

// SupportedLocales lists loaded locales with the base locale first.
func SupportedLocales() []string {
	if err := ensureLoaded(); err != nil {
		return []string{BaseLocale}
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the base locale, then to the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok && c.locale != BaseLocale {
		if base, found := catalogs[BaseLocale]; found {
			tmpl, ok = base.messages[code]
		}
	}
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

func ensureLoaded() error {
	loadOnce.Do(func() {
		catalogs, loadErr = loadFromFS(localeFS)
		if loadErr != nil {
			return
		}
		locales := make([]string, 0, len(catalogs))
		for locale := range catalogs {
			if locale != BaseLocale {
				locales = append(locales, locale)
			}
		}
		sort.Strings(locales)
		tags = []language.Tag{language.MustParse(BaseLocale)}
		for _, locale := range locales {
			tags = append(tags, language.MustParse(locale))
		}
		matcher = language.NewMatcher(tags)
	})
	return loadErr
}

func loadFromFS(catalogFS fs.FS) (map[string]*Catalog, error) {
	paths, err := fs.Glob(catalogFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	out := make(map[string]*Catalog, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("catalog %s: invalid locale %q: %w", path, locale, err)
		}
		if _, exists := out[locale]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q already defined", path, locale)
		}
		out[locale] = &Catalog{locale: locale, messages: file.Messages}
	}
	if _, ok := out[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return out, nil
}
