package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/actlang/cli/cmd"
	"github.com/ardnew/actlang/log"
	"github.com/ardnew/actlang/pkg"
)

// CLI is the top-level command-line interface for actlang.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Source []string `help:"Program file(s) or '-' for stdin, evaluated before the command." name:"source" short:"s" type:"existingfile"`

	Eval  cmd.Eval  `cmd:"" default:"withargs" help:"Evaluate programs."`
	Run   cmd.Fire  `cmd:""                    help:"Fire a trigger of a card or building."`
	Check cmd.Check `cmd:""                    help:"Check that content actions parse."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format a program."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
	Init  cmd.Init  `cmd:""                    help:"Write a configuration file from the current flags."`
}

// Option configures [Run].
type Option func(*runConfig)

type runConfig struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	configPath     string
	cachePath      string
}

// WithStdio redirects the streams commands read from and write to.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(c *runConfig) {
		c.stdin, c.stdout, c.stderr = in, out, errOut
	}
}

// WithPaths overrides the configuration file and cache directory paths.
func WithPaths(config, cache string) Option {
	return func(c *runConfig) {
		c.configPath, c.cachePath = config, cache
	}
}

// Run executes the actlang CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args []string,
	opts ...Option,
) error {
	var cli CLI

	rc := runConfig{configPath: configPath(baseConfig), cachePath: cacheDir()}
	for _, opt := range opts {
		opt(&rc)
	}

	if err := mkdirAll(filepath.Dir(rc.configPath), rc.cachePath); err != nil {
		return err
	}

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version(),
		cmd.ConfigIdentifier: rc.configPath,
		cmd.CacheIdentifier:  rc.cachePath,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so errors reported by the parser
	// already use them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.About()),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(writerOr(rc.stdout, os.Stdout), writerOr(rc.stderr, os.Stderr)),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadConfig(ctx), rc.configPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	ctx = log.NewContext(ctx, log.Default())

	// No-op unless built with tag pprof and a mode or address is chosen.
	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStdio(ctx, rc.stdin, rc.stdout, rc.stderr)

	if ctx, err = cmd.WithPrelude(ctx, cli.Source); err != nil {
		return err
	}

	return ktx.Run(ctx, &cli)
}
