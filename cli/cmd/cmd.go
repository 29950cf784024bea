package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdioKey   struct{}
	preludeKey struct{}
)

// stdio is the terminal a command reads from and writes to.
type stdio struct {
	in       io.Reader
	out, err io.Writer
}

// WithStdio returns a new context.Context whose commands read from in and
// write results to out and diagnostics to errOut. Nil streams fall back to
// the process streams.
func WithStdio(ctx context.Context, in io.Reader, out, errOut io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out, err: errOut})
}

func stdioFrom(ctx context.Context) stdio {
	s, _ := ctx.Value(stdioKey{}).(stdio)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.err == nil {
		s.err = os.Stderr
	}

	return s
}

// Source is one program file, read in full.
type Source struct {
	Path string
	Text string
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers, so
// the same file named through a symlink or a relative path is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithPrelude returns a new context.Context carrying the programs that
// commands evaluate into their environment before doing anything else.
//
// Duplicate paths are read once. Every occurrence of "-" reads stdin once,
// after all regular files.
func WithPrelude(ctx context.Context, paths []string) (context.Context, error) {
	srcs, err := readSources(paths, stdioFrom(ctx).in)
	if err != nil {
		return ctx, err
	}

	return context.WithValue(ctx, preludeKey{}, srcs), nil
}

func preludeFrom(ctx context.Context) []Source {
	srcs, _ := ctx.Value(preludeKey{}).([]Source)

	return srcs
}

// readSources reads each distinct path in order, then stdin if any path was
// "-" or named the file stdin is attached to.
func readSources(paths []string, stdin io.Reader) ([]Source, error) {
	var (
		srcs      []Source
		hasStdin  bool
		stdinKey  fileKey
		stdinFile bool
	)

	seen := make(map[fileKey]struct{})

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, stdinFile = makeFileKey(info)
		}
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		text, key, dup, err := readUniqueFile(path, seen)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(pathAttr(path))
		}

		if stdinFile && key == stdinKey {
			hasStdin = true

			continue
		}

		if !dup {
			srcs = append(srcs, Source{Path: path, Text: text})
		}
	}

	if hasStdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(pathAttr(stdinSource))
		}

		srcs = append(srcs, Source{Path: stdinSource, Text: string(data)})
	}

	return srcs, nil
}

// readUniqueFile reads the file at path unless its key was seen before.
func readUniqueFile(path string, seen map[fileKey]struct{}) (string, fileKey, bool, error) {
	var key fileKey

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", key, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", key, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", key, false, err
	}

	if k, ok := makeFileKey(info); ok {
		key = k

		if _, exists := seen[key]; exists {
			return "", key, true, nil
		}

		seen[key] = struct{}{}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", key, false, err
	}

	return string(data), key, false, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}
