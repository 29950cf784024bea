package cli

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ardnew/actlang/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// userDir returns the per-user directory named by pkg.Name under the first
// base directory that resolves: base(), then $HOME/fallback, then the
// working directory.
func userDir(base func() (string, error), fallback string) func() string {
	return sync.OnceValue(func() string {
		dir, err := base()
		if err != nil {
			if home, herr := os.UserHomeDir(); herr == nil {
				dir = filepath.Join(home, fallback)
			} else if dir, err = os.Getwd(); err != nil {
				dir = "."
			}
		}

		return filepath.Join(dir, pkg.Name)
	})
}

var (
	// configDir returns the configuration directory path.
	configDir = userDir(os.UserConfigDir, ".config")

	// cacheDir returns the directory for transient files such as history
	// and profiles.
	cacheDir = userDir(os.UserCacheDir, ".cache")
)

// configPath joins the configuration directory with elem.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAll creates each directory with the default mode.
func mkdirAll(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// writerOr returns w, or def when w is nil.
func writerOr(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}

	return w
}
