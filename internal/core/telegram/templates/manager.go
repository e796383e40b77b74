package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

//go:embed en/*.html es/*.html
var templateFiles embed.FS

var supportedLocales = []string{"en", "es"}

// Manager renders localized reply texts. Output is Telegram HTML; data values are escaped.
type Manager struct {
	templates     map[string]*template.Template
	defaultLocale string
}

func NewManager(defaultLocale string) (*Manager, error) {
	tm := &Manager{
		templates:     make(map[string]*template.Template),
		defaultLocale: defaultLocale,
	}

	for _, locale := range supportedLocales {
		pattern := fmt.Sprintf("%s/*.html", locale)
		tmpl, err := template.New("").ParseFS(templateFiles, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to parse templates for locale %s: %w", locale, err)
		}
		tm.templates[locale] = tmpl
	}

	if _, ok := tm.templates[defaultLocale]; !ok {
		return nil, fmt.Errorf("unsupported default locale: %s", defaultLocale)
	}

	return tm, nil
}

func (tm *Manager) lookup(locale string) *template.Template {
	if tmpl, ok := tm.templates[locale]; ok {
		return tmpl
	}
	return tm.templates[tm.defaultLocale]
}

// RenderTemplate executes the page template <templateName>.html for locale.
func (tm *Manager) RenderTemplate(templateName, locale string, data interface{}) (string, error) {
	var buf bytes.Buffer
	templateFile := filepath.Base(templateName) + ".html"
	if err := tm.lookup(locale).ExecuteTemplate(&buf, templateFile, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s for locale %s: %w", templateFile, locale, err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// RenderMessage renders a short named message, falling back to the message name if it cannot be rendered.
func (tm *Manager) RenderMessage(messageName, locale string, data interface{}) string {
	var buf bytes.Buffer
	if err := tm.lookup(locale).ExecuteTemplate(&buf, messageName, data); err != nil {
		return messageName
	}

	return strings.TrimSpace(buf.String())
}

// DefaultLocale is used when a requester's language is not supported.
func (tm *Manager) DefaultLocale() string {
	return tm.defaultLocale
}

// IsLocaleSupported checks if a locale is supported
func (tm *Manager) IsLocaleSupported(locale string) bool {
	_, exists := tm.templates[locale]
	return exists
}
