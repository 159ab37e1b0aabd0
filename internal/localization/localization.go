package localization

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"
)

const localesDir = "locales"

type Localizer struct {
	messages map[string]map[string]string
	fallback string
}

// NewLocalizer loads every locales/<lang>.json file found in dir.
func NewLocalizer(dir fs.FS, fallback string) (*Localizer, error) {
	messages := make(map[string]map[string]string)

	files, err := fs.ReadDir(dir, localesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory: %w", err)
	}

	for _, file := range files {
		if path.Ext(file.Name()) != ".json" {
			continue
		}
		lang := strings.TrimSuffix(file.Name(), ".json")
		content, err := fs.ReadFile(dir, path.Join(localesDir, file.Name()))
		if err != nil {
			log.Printf("Failed to read locale file %s: %v", file.Name(), err)
			continue
		}

		var langMessages map[string]string
		if err := json.Unmarshal(content, &langMessages); err != nil {
			log.Printf("Failed to parse locale file %s: %v", file.Name(), err)
			continue
		}
		messages[lang] = langMessages
		log.Printf("Loaded language: %s", lang)
	}

	if _, ok := messages[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no locale file", fallback)
	}
	return &Localizer{messages: messages, fallback: fallback}, nil
}

func (l *Localizer) GetMessage(lang, key string) string {
	if message, ok := l.lookup(lang, key); ok {
		return message
	}
	return key
}

// Format looks up key and fills its verbs with args. A missing key is
// returned as is.
func (l *Localizer) Format(lang, key string, args ...any) string {
	message, ok := l.lookup(lang, key)
	if !ok {
		return key
	}
	return fmt.Sprintf(message, args...)
}

func (l *Localizer) lookup(lang, key string) (string, bool) {
	if langMessages, ok := l.messages[lang]; ok {
		if message, ok := langMessages[key]; ok {
			return message, true
		}
	}

	if defaultMessages, ok := l.messages[l.fallback]; ok {
		if message, ok := defaultMessages[key]; ok {
			return message, true
		}
	}

	return "", false
}
