package service

import "fmt"

// WebOrigin is the public address of the GO-E-MON service.
const WebOrigin = "https://goemon.cloud"

// Log type value used when a task does not set one.
const LogTypeNone = "none"

// TaskRef identifies a remote task.
type TaskRef struct {
	ID     string
	Shared bool // accessed through the share address space
}

// Collection returns the API collection the reference lives in.
func (r TaskRef) Collection() string {
	if r.Shared {
		return "shares"
	}
	return "tasks"
}

// WebPath returns the path of the task on the web site ("/t/<id>" or "/s/<id>").
func (r TaskRef) WebPath() string {
	if r.Shared {
		return "/s/" + r.ID
	}
	return "/t/" + r.ID
}

// WebURL returns the browser address of the task.
func (r TaskRef) WebURL() string {
	return WebOrigin + r.WebPath()
}

func (r TaskRef) String() string {
	return fmt.Sprintf("%s/%s", r.Collection(), r.ID)
}

// Task holds the attributes of a remote task.
// Param and ParamSchema are nil when unset on the server.
type Task struct {
	Title          string           `json:"title"`
	Public         bool             `json:"public"`
	Importable     bool             `json:"importable"`
	Distributable  bool             `json:"distributable"`
	CreatorLogType string           `json:"creatorLogType"`
	AuthorLogType  string           `json:"authorLogType"`
	Description    string           `json:"description"`
	Script         string           `json:"script"`
	Param          []map[string]any `json:"param"`
	ParamSchema    []map[string]any `json:"paramschema"`
	Files          []File           `json:"-"`
}

// File describes one file attached to a task.
type File struct {
	Name         string
	Type         string
	ImportType   string
	Preload      bool
	Priority     int
	HashSHA256   string
	Size         int64
	LastModified int64 // milliseconds since epoch

	DownloadURL string
	UploadURL   string
}

// Attribute names accepted in a patch.
const (
	FieldTitle          = "title"
	FieldPublic         = "public"
	FieldImportable     = "importable"
	FieldDistributable  = "distributable"
	FieldCreatorLogType = "creatorLogType"
	FieldAuthorLogType  = "authorLogType"
	FieldDescription    = "description"
	FieldScript         = "script"
	FieldParam          = "param"
	FieldParamSchema    = "paramschema"
	FieldFiles          = "files"
)

// MetaFields are the attributes that make up a task's metadata.
var MetaFields = []string{
	FieldPublic, FieldImportable, FieldDistributable,
	FieldCreatorLogType, FieldAuthorLogType,
	FieldTitle,
}

// Patch is a partial update of a task.
// Only the attributes named in Fields are sent; values come from Task.
type Patch struct {
	Task   Task
	Fields []string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Fields) == 0
}

// Has reports whether the patch includes the named attribute.
func (p Patch) Has(field string) bool {
	for _, f := range p.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Set marks field as changed. Setting the same field twice is a no-op.
func (p *Patch) Set(field string) {
	if !p.Has(field) {
		p.Fields = append(p.Fields, field)
	}
}
