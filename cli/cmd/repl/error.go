package repl

import "github.com/ardnew/actlang/lang"

// Sentinel errors.
var (
	ErrOutOfBounds  = lang.NewError("history index out of range")
	ErrEditDeclined = lang.NewError("edit declined")
	ErrNoEnv        = lang.NewError("no environment")
)
