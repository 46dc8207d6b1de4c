package taskfmt

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"goemon/internal/service"
)

// FileEntry is one record of the files index. Keys are alphabetical.
type FileEntry struct {
	ImportType string `yaml:"importType"`
	Name       string `yaml:"name"`
	Preload    bool   `yaml:"preload"`
	Priority   int    `yaml:"priority"`
	Type       string `yaml:"type"`
}

// EntryOf returns the index record for a remote file.
func EntryOf(f service.File) FileEntry {
	return FileEntry{
		ImportType: f.ImportType,
		Name:       f.Name,
		Preload:    f.Preload,
		Priority:   f.Priority,
		Type:       f.Type,
	}
}

// Apply copies the index attributes of e onto f.
func (e FileEntry) Apply(f *service.File) {
	f.Name = e.Name
	f.Type = e.Type
	f.ImportType = e.ImportType
	f.Preload = e.Preload
	f.Priority = e.Priority
}

// EncodeFiles returns the files index for files. A nil list encodes to the
// empty string.
func EncodeFiles(files []service.File) (string, error) {
	if files == nil {
		return "", nil
	}
	entries := make([]FileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, EntryOf(f))
	}
	return marshal(entries)
}

// DecodeFiles parses and validates a files index.
func DecodeFiles(text string) ([]FileEntry, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FilesIndex, err)
	}
	if raw == nil {
		return nil, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not a list: %v", FilesIndex, raw)
	}

	entries := make([]FileEntry, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		elem, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s element is not a mapping: %v", FilesIndex, item)
		}
		e, err := fileEntryOf(elem)
		if err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate file name: %s", e.Name)
		}
		seen[e.Name] = true
		entries = append(entries, e)
	}
	return entries, nil
}

func fileEntryOf(elem map[string]any) (FileEntry, error) {
	for _, key := range []string{"name", "type", "importType"} {
		if err := requireString(elem, key); err != nil {
			return FileEntry{}, err
		}
	}
	if err := requireBool(elem, "preload"); err != nil {
		return FileEntry{}, err
	}
	priority, err := requireInt(elem, "priority")
	if err != nil {
		return FileEntry{}, err
	}

	return FileEntry{
		Name:       elem["name"].(string),
		Type:       elem["type"].(string),
		ImportType: elem["importType"].(string),
		Preload:    elem["preload"].(bool),
		Priority:   priority,
	}, nil
}
