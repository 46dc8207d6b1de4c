// Package taskfmt converts task properties to and from their local text form.
//
// Each property maps to one file in the local representation. Encoding is
// deterministic so that an imported property re-encodes to the same bytes,
// which is what makes an import followed by a dry-run export diff-free.
package taskfmt

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"goemon/internal/service"
)

// Property names a selectable part of a task.
type Property string

const (
	Meta        Property = "meta"
	Description Property = "description"
	Script      Property = "script"
	Param       Property = "param"
	ParamSchema Property = "paramschema"
)

// Properties lists the text properties in processing order.
var Properties = []Property{Meta, Description, Script, Param, ParamSchema}

const (
	// FilesDir is the default directory holding attached files.
	FilesDir = "files"

	// FilesIndex is the file listing attachments inside the files directory.
	FilesIndex = ".files.yml"
)

var defaultPaths = map[Property]string{
	Meta:        "meta.yml",
	Description: "description.md",
	Script:      "script.js",
	Param:       "param.yml",
	ParamSchema: "paramschema.yml",
}

// DefaultPath returns the filename used for p under --all.
func (p Property) DefaultPath() string {
	return defaultPaths[p]
}

// Fields returns the task attributes p is made of.
func (p Property) Fields() []string {
	switch p {
	case Meta:
		return service.MetaFields
	case Description:
		return []string{service.FieldDescription}
	case Script:
		return []string{service.FieldScript}
	case Param:
		return []string{service.FieldParam}
	case ParamSchema:
		return []string{service.FieldParamSchema}
	}
	return nil
}

// Encode returns the local text form of property p of t.
func Encode(t *service.Task, p Property) (string, error) {
	switch p {
	case Meta:
		return marshal(metaOf(t))
	case Description:
		return t.Description, nil
	case Script:
		return t.Script, nil
	case Param:
		if t.Param == nil {
			return "", nil
		}
		return marshal(t.Param)
	case ParamSchema:
		if t.ParamSchema == nil {
			return "", nil
		}
		return marshal(t.ParamSchema)
	}
	return "", fmt.Errorf("unknown property: %s", p)
}

// Decode parses text as property p, validates it and stores it into t.
func Decode(t *service.Task, p Property, text string) error {
	switch p {
	case Meta:
		return decodeMeta(t, text)
	case Description:
		t.Description = text
		return nil
	case Script:
		t.Script = text
		return nil
	case Param:
		list, err := decodeList(text, "param", validateParamField)
		if err != nil {
			return err
		}
		t.Param = list
		return nil
	case ParamSchema:
		list, err := decodeList(text, "paramschema", validateParamSchemaField)
		if err != nil {
			return err
		}
		t.ParamSchema = list
		return nil
	}
	return fmt.Errorf("unknown property: %s", p)
}

// marshal encodes v as YAML with two-space indentation.
func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
