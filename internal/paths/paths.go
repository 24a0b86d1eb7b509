package paths

import (
	"os"
	"path/filepath"
)

// ProjectFileName is the project file `new` reads when --config is not given.
const ProjectFileName = "iflowkit-scaffold.yaml"

type Paths struct {
	ConfigRoot  string
	LogsDir     string
	ProjectFile string
}

func New() (*Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root := filepath.Join(base, "iflowkit-scaffold")
	return &Paths{
		ConfigRoot:  root,
		LogsDir:     filepath.Join(root, "logs"),
		ProjectFile: filepath.Join(wd, ProjectFileName),
	}, nil
}
