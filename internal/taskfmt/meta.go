package taskfmt

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"goemon/internal/service"
)

// metaDoc is the encoded form of meta.yml. Keys are alphabetical.
type metaDoc struct {
	AuthorLogType  string `yaml:"authorLogType"`
	CreatorLogType string `yaml:"creatorLogType"`
	Distributable  bool   `yaml:"distributable"`
	Importable     bool   `yaml:"importable"`
	Public         bool   `yaml:"public"`
	Title          string `yaml:"title"`
}

// metaInput distinguishes absent keys from zero values.
type metaInput struct {
	AuthorLogType  *string `yaml:"authorLogType"`
	CreatorLogType *string `yaml:"creatorLogType"`
	Distributable  *bool   `yaml:"distributable"`
	Importable     *bool   `yaml:"importable"`
	Public         *bool   `yaml:"public"`
	Title          *string `yaml:"title"`
}

func metaOf(t *service.Task) metaDoc {
	return metaDoc{
		AuthorLogType:  orNone(t.AuthorLogType),
		CreatorLogType: orNone(t.CreatorLogType),
		Distributable:  t.Distributable,
		Importable:     t.Importable,
		Public:         t.Public,
		Title:          t.Title,
	}
}

func decodeMeta(t *service.Task, text string) error {
	var in metaInput
	if err := yaml.Unmarshal([]byte(text), &in); err != nil {
		return fmt.Errorf("invalid meta: %w", err)
	}

	t.AuthorLogType = stringOr(in.AuthorLogType, service.LogTypeNone)
	t.CreatorLogType = stringOr(in.CreatorLogType, service.LogTypeNone)
	t.Distributable = boolOr(in.Distributable)
	t.Importable = boolOr(in.Importable)
	t.Public = boolOr(in.Public)
	t.Title = stringOr(in.Title, "")
	return nil
}

func orNone(s string) string {
	if s == "" {
		return service.LogTypeNone
	}
	return s
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool) bool {
	return p != nil && *p
}
