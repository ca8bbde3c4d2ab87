package seed

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadBank reads and checks the quiz bank at path.
func LoadBank(path string) (Bank, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Bank{}, fmt.Errorf("%w: %s: %w", ErrLoadBank, path, err)
	}
	var b Bank
	if err := k.Unmarshal("", &b); err != nil {
		return Bank{}, fmt.Errorf("%w: %w", ErrLoadBank, err)
	}
	if len(b.Quizzes) == 0 {
		return Bank{}, ErrEmptyBank
	}
	for i, q := range b.Quizzes {
		if strings.TrimSpace(q.Title) == "" {
			return Bank{}, fmt.Errorf("%w: quiz %d has no title", ErrLoadBank, i)
		}
		if len(q.Questions) == 0 {
			return Bank{}, fmt.Errorf("%w: quiz %q has no questions", ErrLoadBank, q.Title)
		}
	}
	return b, nil
}
