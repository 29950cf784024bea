package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testIO returns a context whose commands read stdin and capture their
// output.
func testIO(t *testing.T, stdin string) (ctx context.Context, out, errOut *bytes.Buffer) {
	t.Helper()

	out, errOut = new(bytes.Buffer), new(bytes.Buffer)

	return WithStdio(t.Context(), strings.NewReader(stdin), out, errOut), out, errOut
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestWithPrelude(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.act", "let 'a 1")
	b := writeFile(t, dir, "b.act", "let 'b 2")

	link := filepath.Join(dir, "link.act")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(must(os.Getwd()), b)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  []string // paths of the sources read, in order
	}{
		{"none", nil, nil},
		{"single", []string{a}, []string{a}},
		{"ordered", []string{b, a}, []string{b, a}},
		{"duplicate", []string{a, a}, []string{a}},
		{"symlink", []string{a, link}, []string{a}},
		{"relative", []string{b, rel}, []string{b}},
		{"stdin_last", []string{"-", a}, []string{a, "-"}},
		{"stdin_once", []string{"-", a, "-"}, []string{a, "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, _ := testIO(t, "let 'in 3")

			ctx, err := WithPrelude(ctx, tt.paths)
			if err != nil {
				t.Fatalf("WithPrelude() error = %v", err)
			}

			srcs := preludeFrom(ctx)
			if len(srcs) != len(tt.want) {
				t.Fatalf("read %d sources, want %d: %v", len(srcs), len(tt.want), srcs)
			}

			for i, src := range srcs {
				if src.Path != tt.want[i] {
					t.Errorf("source %d = %q, want %q", i, src.Path, tt.want[i])
				}

				if src.Path == stdinSource && src.Text != "let 'in 3" {
					t.Errorf("stdin text = %q", src.Text)
				}
			}
		})
	}
}

func TestWithPrelude_Missing(t *testing.T) {
	ctx, _, _ := testIO(t, "")

	_, err := WithPrelude(ctx, []string{filepath.Join(t.TempDir(), "missing.act")})
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("error = %v, want ErrReadSource", err)
	}
}

func TestStdioDefaults(t *testing.T) {
	s := stdioFrom(t.Context())

	if s.in != os.Stdin || s.out != os.Stdout || s.err != os.Stderr {
		t.Error("stdioFrom() without WithStdio does not use the process streams")
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}
