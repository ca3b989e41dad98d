package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// DefaultLanguage is used when no locale is configured.
const DefaultLanguage = "ru"

// Translator renders catalogue keys into user-facing messages.
type Translator struct {
	lang         string
	translations map[string]string
}

// New loads locales/<lang>.yaml from fsys.
func New(fsys fs.FS, lang string) (*Translator, error) {
	if lang == "" {
		lang = DefaultLanguage
	}

	filePath := path.Join("locales", lang+".yaml")
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read translation file %s: %w", filePath, err)
	}

	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("parse translation file %s: %w", filePath, err)
	}

	return &Translator{lang: lang, translations: translations}, nil
}

// MustDefault returns the embedded default-language translator.
// The embedded catalogue is part of the binary, so failure is a build defect.
func MustDefault() *Translator {
	t, err := New(LocalesFS, DefaultLanguage)
	if err != nil {
		panic(err)
	}
	return t
}

// T formats the message for key. Unknown keys render as the key itself.
func (t *Translator) T(key string, args ...any) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// Has reports whether key exists in the catalogue.
func (t *Translator) Has(key string) bool {
	_, ok := t.translations[key]
	return ok
}

func (t *Translator) Lang() string { return t.lang }
