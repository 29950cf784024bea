package cmd

import (
	"log/slog"

	"github.com/ardnew/actlang/lang"
)

var (
	ErrReadSource   = lang.NewError("read source")
	ErrBadVariable  = lang.NewError("invalid variable (want name=value)")
	ErrNoDecision   = lang.NewError("no decision available")
	ErrCheckFailed  = lang.NewError("content check failed")
	ErrYAMLMarshal  = lang.NewError("marshal YAML")
	ErrWriteConfig  = lang.NewError("write configuration file")
	ErrFileExists   = lang.NewError("file exists (use --force to overwrite)")
	ErrNoConfigPath = lang.NewError("configuration path undefined")
)

func pathAttr(path string) slog.Attr { return slog.String("path", path) }
