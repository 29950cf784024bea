// Package lang implements a small, dynamically typed, lisp-like action
// language for data-authored game content.
//
// Card and building definitions carry short action strings that run against
// a host-defined simulation. The host builds an [Environment], installs
// methods, variables, and converters into it (see package stdlib for the
// standard set), and asks an [Evaluator] to run source text or a pre-parsed
// [Expr].
//
// # Grammar
//
// Informal EBNF, alternatives in priority order:
//
//	Program     → Chain EOF
//	Chain       → Expression+            (separated by whitespace or comments)
//	Expression  → Text | Number | Deferred | Option | Identifier | Block
//	Text        → '"' ( '\"' | [^"] )* '"'
//	Number      → [+-]? [0-9]+
//	Deferred    → "'" Expression
//	Option      → '--' IdentChar+
//	Identifier  → IdentChar+
//	Block       → '(' Chain ')'
//	IdentChar   → letter | digit | one of + - * / < > = ! ? _ $ % & . : @ ^ ~ |
//	Comment     → '#' to end of line
//
// A chain of exactly one expression is that expression, so a block body and
// a whole program share one rule. An atom directly followed by a character
// that cannot separate expressions (for example 12ab or foo") is a parse
// error rather than two atoms.
//
// # Evaluation
//
//	+ 1 2                  # 3
//	+ 1 * 3 2              # 7: arguments that name methods take their own
//	(+ 1 (* 3 (- 8 2)))    # 19
//	if (> hp 0) 'alive 'dead
//	def 'double 'x '(* 2 x)
//
// Literals evaluate to themselves. An identifier resolves to the innermost
// method or variable of that name. A deferred expression evaluates to a
// [Quote] of itself, unevaluated; methods such as if, do, and def receive
// code this way and run it on demand with [Evaluator.Exec].
//
// Methods declare an arity and whether they take the rest of the chain.
// Supplying fewer arguments than the arity, or more than it to a method that
// does not take the rest, is an evaluation error.
//
// # Scopes and converters
//
// An [Environment] is a stack of scopes. Each scope holds methods,
// variables, and converters; lookups run innermost first. A [Converter]
// coerces a value to a target type on behalf of a method ([Arg],
// [ExpectConvert]); converters compose with [Compose], and a converter
// registered in a temporary scope gives the placeholder _ a default for a
// single argument ([ConvertDefault]).
//
// # Errors
//
// Every failure is a [*ParseError] or an [*EvalError], except errors a
// method raises from outside this package, which propagate unchanged. Both
// kinds render the offending source line with the failing span underlined:
//
//	eval error: unresolved identifier: "unknown-thing"
//	  1 | unknown-thing 1 2
//	      ^^^^^^^^^^^^^
package lang
