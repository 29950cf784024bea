// Package stdlib provides the standard methods of the action language.
//
// [Install] binds them in an [lang.Environment]; [New] returns a fresh
// environment with them installed:
//
//	+ - * / % min max abs neg sum      integer arithmetic
//	= != < <= > >= not and or          comparison and logic
//	if when do def alias let set       control flow and definitions
//	eval repeat each                   evaluation and iteration
//	list len nth range concat str int  lists and text
//	expr choose log                    host integration
//
// Code arguments are passed deferred, so
//
//	if (> $hp 0) 'alive 'dead
//
// runs only the taken branch. The choose method suspends the evaluation on
// the host's [Decider] until it returns.
package stdlib
