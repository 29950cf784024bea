package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/pkg"
)

// runCLI runs the command line with isolated configuration and cache paths.
// A config of "" leaves the configuration file absent. The returned code is
// the last status passed to the exit function, or -1 if it was not called.
func runCLI(t *testing.T, config string, args ...string) (out string, code int, err error) {
	t.Helper()

	dir := t.TempDir()
	confPath := filepath.Join(dir, "config", baseConfig)
	cachePath := filepath.Join(dir, "cache")

	if config != "" {
		if err := os.MkdirAll(filepath.Dir(confPath), defaultDirMode); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(confPath, []byte(config), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	var stdout, stderr bytes.Buffer

	code = -1

	err = Run(t.Context(), func(c int) { code = c }, args,
		WithPaths(confPath, cachePath),
		WithStdio(strings.NewReader(""), &stdout, &stderr))

	return stdout.String(), code, err
}

func TestRun(t *testing.T) {
	prelude := filepath.Join(t.TempDir(), "prelude.act")
	if err := os.WriteFile(prelude, []byte("let 'bonus 5"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		config  string
		args    []string
		want    string
		code    int
		wantErr error
	}{
		{
			name: "eval",
			args: []string{"eval", "+ 1 2"},
			want: "3\n",
			code: -1,
		},
		{
			name: "default_command",
			args: []string{"* 2 3", "concat \"a\" \"b\""},
			want: "6\n\"ab\"\n",
			code: -1,
		},
		{
			name: "variable",
			args: []string{"eval", "-v", "hp=4", "+ hp 1"},
			want: "5\n",
			code: -1,
		},
		{
			name: "source_flag",
			args: []string{"--source", prelude, "eval", "+ bonus 1"},
			want: "6\n",
			code: -1,
		},
		{
			name:   "source_config",
			config: "source:\n  - " + prelude + "\nlog:\n  level: warn\n",
			args:   []string{"eval", "+ bonus 2"},
			want:   "7\n",
			code:   -1,
		},
		{
			name:    "eval_error",
			args:    []string{"eval", "+ 1"},
			code:    -1,
			wantErr: lang.ErrArity,
		},
		{
			name: "version",
			args: []string{"--version"},
			want: pkg.Name + " " + pkg.Version() + "\n",
			code: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code, err := runCLI(t, tt.config, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}

			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRun_BadConfig(t *testing.T) {
	_, _, err := runCLI(t, "- not\n- a mapping\n", "eval", "1")
	if err == nil {
		t.Fatal("Run() with a malformed configuration file succeeded")
	}
}
