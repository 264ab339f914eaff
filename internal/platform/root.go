package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the name of the workspace configuration file.
const ConfigFile = "studykit.yaml"

// DefaultSystemDir is the hidden directory marking a filesystem workspace.
const DefaultSystemDir = ".studykit"

// FindRoot looks upwards from startDir for a workspace root indicator:
// a .studykit directory or a studykit.yaml file.
// It returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, DefaultSystemDir) || hasFile(dir, ConfigFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("workspace root not found from %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
