package goemonapi

import (
	"encoding/json"
	"fmt"

	"goemon/internal/service"
)

// document is the envelope of every request and response body.
type document struct {
	Type string       `json:"type,omitempty"`
	Data documentData `json:"data"`
}

type documentData struct {
	Attributes json.RawMessage `json:"attributes"`
}

// taskAttributes is the decoded form of a task's attributes.
type taskAttributes struct {
	service.Task
	Files []fileObject `json:"files"`
}

type fileObject struct {
	Type  string         `json:"type"`
	Data  fileObjectData `json:"data"`
	Links *fileLinks     `json:"links,omitempty"`
}

type fileObjectData struct {
	Attributes fileAttributes `json:"attributes"`
}

type fileAttributes struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	ImportType   string  `json:"importType"`
	Preload      bool    `json:"preload"`
	Priority     float64 `json:"priority"`
	HashSHA256   string  `json:"hashSHA256"`
	Size         float64 `json:"size"`
	LastModified float64 `json:"lastModified"`
}

type fileLinks struct {
	Download string `json:"download,omitempty"`
	Upload   string `json:"upload,omitempty"`
}

func decodeTask(body []byte) (*service.Task, error) {
	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(doc.Data.Attributes) == 0 {
		return nil, fmt.Errorf("decode response: missing data.attributes")
	}

	var attrs taskAttributes
	if err := json.Unmarshal(doc.Data.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("decode task attributes: %w", err)
	}

	task := attrs.Task
	if attrs.Files != nil {
		task.Files = make([]service.File, 0, len(attrs.Files))
		for _, fo := range attrs.Files {
			task.Files = append(task.Files, fileFromObject(fo))
		}
	}
	return &task, nil
}

func fileFromObject(fo fileObject) service.File {
	a := fo.Data.Attributes
	f := service.File{
		Name:         a.Name,
		Type:         a.Type,
		ImportType:   a.ImportType,
		Preload:      a.Preload,
		Priority:     int(a.Priority),
		HashSHA256:   a.HashSHA256,
		Size:         int64(a.Size),
		LastModified: int64(a.LastModified),
	}
	if fo.Links != nil {
		f.DownloadURL = fo.Links.Download
		f.UploadURL = fo.Links.Upload
	}
	return f
}

func objectFromFile(f service.File) fileObject {
	return fileObject{
		Type: "files",
		Data: fileObjectData{Attributes: fileAttributes{
			Name:         f.Name,
			Type:         f.Type,
			ImportType:   f.ImportType,
			Preload:      f.Preload,
			Priority:     float64(f.Priority),
			HashSHA256:   f.HashSHA256,
			Size:         float64(f.Size),
			LastModified: float64(f.LastModified),
		}},
	}
}

// encodePatch builds the request body holding only the patched attributes.
func encodePatch(p service.Patch) ([]byte, error) {
	all := map[string]any{
		service.FieldTitle:          p.Task.Title,
		service.FieldPublic:         p.Task.Public,
		service.FieldImportable:     p.Task.Importable,
		service.FieldDistributable:  p.Task.Distributable,
		service.FieldCreatorLogType: p.Task.CreatorLogType,
		service.FieldAuthorLogType:  p.Task.AuthorLogType,
		service.FieldDescription:    p.Task.Description,
		service.FieldScript:         p.Task.Script,
		service.FieldParam:          p.Task.Param,
		service.FieldParamSchema:    p.Task.ParamSchema,
	}

	attrs := make(map[string]any, len(p.Fields))
	for _, field := range p.Fields {
		if field == service.FieldFiles {
			files := make([]fileObject, 0, len(p.Task.Files))
			for _, f := range p.Task.Files {
				files = append(files, objectFromFile(f))
			}
			attrs[field] = files
			continue
		}
		v, ok := all[field]
		if !ok {
			return nil, fmt.Errorf("unknown task attribute: %s", field)
		}
		attrs[field] = v
	}

	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	return json.Marshal(document{Type: "tasks", Data: documentData{Attributes: raw}})
}
