package commands

import (
	"github.com/spf13/pflag"

	"goemon/internal/taskfmt"
	"goemon/internal/transfer"
)

// syncFlags are the flags shared by import and export.
type syncFlags struct {
	all     bool
	shared  bool
	baseDir string

	meta        string
	description string
	script      string
	param       string
	paramschema string
	files       string
}

func (f *syncFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.all, "all", false, "import/export every property; unset paths use the default layout")
	fs.BoolVar(&f.shared, "shared", false, "the reference is a shared task")
	fs.StringVarP(&f.baseDir, "base-dir", "d", ".", "base directory")

	fs.StringVar(&f.meta, "meta", "", "path of the metadata; - for stdin/stdout")
	fs.StringVar(&f.description, "description", "", "path of the description; - for stdin/stdout")
	fs.StringVar(&f.script, "script", "", "path of the script; - for stdin/stdout")
	fs.StringVar(&f.param, "param", "", "path of the parameters; - for stdin/stdout")
	fs.StringVar(&f.paramschema, "paramschema", "", "path of the parameter schema; - for stdin/stdout")
	fs.StringVar(&f.files, "files", "", "directory of the attached files")
}

func (f *syncFlags) selection() transfer.Selection {
	paths := make(map[taskfmt.Property]string)
	for p, v := range map[taskfmt.Property]string{
		taskfmt.Meta:        f.meta,
		taskfmt.Description: f.description,
		taskfmt.Script:      f.script,
		taskfmt.Param:       f.param,
		taskfmt.ParamSchema: f.paramschema,
	} {
		if v != "" {
			paths[p] = v
		}
	}
	return transfer.Selection{All: f.all, Paths: paths, Files: f.files}
}
