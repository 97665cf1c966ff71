package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultAllowed are the package-manager and runtime commands a package may
// ask to run.
var DefaultAllowed = []string{"npm", "cnpm", "yarn", "pnpm", "node"}

// ErrCommandNotWhitelisted is matched by every allow-list rejection.
var ErrCommandNotWhitelisted = errors.New("command not whitelisted")

// NotWhitelistedError names the rejected command and the script it came from.
type NotWhitelistedError struct {
	Command string
	Script  string
	Reason  string
}

func (e *NotWhitelistedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("command not whitelisted in %q: %s", e.Script, e.Reason)
	}
	return fmt.Sprintf("command %q is not whitelisted (in %q)", e.Command, e.Script)
}

func (e *NotWhitelistedError) Is(target error) bool {
	return target == ErrCommandNotWhitelisted
}

// ExitStatusError reports a script that ran but exited non-zero.
type ExitStatusError struct {
	Script string
	Code   int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%q exited with status %d", e.Script, e.Code)
}

// Policy is an allow-list of program names.
type Policy struct {
	allowed map[string]bool
}

// NewPolicy returns a Policy allowing names. With no names it allows
// DefaultAllowed.
func NewPolicy(names ...string) *Policy {
	if len(names) == 0 {
		names = DefaultAllowed
	}
	p := &Policy{allowed: make(map[string]bool, len(names))}
	for _, n := range names {
		p.allowed[n] = true
	}
	return p
}

// Allowed returns the allow-listed names, sorted.
func (p *Policy) Allowed() []string {
	out := make([]string, 0, len(p.allowed))
	for n := range p.allowed {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Allows reports whether name may be executed.
func (p *Policy) Allows(name string) bool {
	return p.allowed[name]
}

// Check parses script and verifies that every command it calls starts with a
// literal allow-listed name. Empty scripts, parse failures, and commands
// whose name is computed at run time are rejected.
func (p *Policy) Check(script string) error {
	file, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		return &NotWhitelistedError{Script: script, Reason: fmt.Sprintf("parse error: %v", err)}
	}
	if len(file.Stmts) == 0 {
		return &NotWhitelistedError{Script: script, Reason: "empty command"}
	}

	var checkErr error
	calls := 0
	syntax.Walk(file, func(node syntax.Node) bool {
		if checkErr != nil {
			return false
		}
		switch n := node.(type) {
		case *syntax.FuncDecl:
			checkErr = &NotWhitelistedError{Command: n.Name.Value, Script: script, Reason: "function definitions are not allowed"}
			return false
		case *syntax.CallExpr:
			if len(n.Args) == 0 {
				// Bare assignments such as FOO=bar.
				return true
			}
			calls++
			name := n.Args[0].Lit()
			if name == "" {
				checkErr = &NotWhitelistedError{Script: script, Reason: "command name must be a literal word"}
				return false
			}
			if !p.allowed[name] {
				checkErr = &NotWhitelistedError{Command: name, Script: script}
				return false
			}
		}
		return true
	})
	if checkErr != nil {
		return checkErr
	}
	if calls == 0 {
		return &NotWhitelistedError{Script: script, Reason: "no command to run"}
	}
	return nil
}

// IO carries the standard streams a script runs with. Nil fields default to
// the process's own streams.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run checks script and executes it in dir with the process environment.
func (p *Policy) Run(ctx context.Context, dir, script string, stdio IO) error {
	if err := p.Check(script); err != nil {
		return err
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		return fmt.Errorf("parsing %q: %w", script, err)
	}

	if stdio.Stdin == nil {
		stdio.Stdin = os.Stdin
	}
	if stdio.Stdout == nil {
		stdio.Stdout = os.Stdout
	}
	if stdio.Stderr == nil {
		stdio.Stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(stdio.Stdin, stdio.Stdout, stdio.Stderr),
		interp.ExecHandlers(p.execHandler(script)),
	)
	if err != nil {
		return fmt.Errorf("creating interpreter: %w", err)
	}

	if err := runner.Run(ctx, file); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitStatusError{Script: script, Code: int(status)}
		}
		var nw *NotWhitelistedError
		if errors.As(err, &nw) {
			return nw
		}
		return fmt.Errorf("running %q: %w", script, err)
	}
	return nil
}

// execHandler refuses any external command outside the allow-list, which
// catches names only known after expansion.
func (p *Policy) execHandler(script string) func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 || !p.allowed[args[0]] {
				name := ""
				if len(args) > 0 {
					name = args[0]
				}
				return &NotWhitelistedError{Command: name, Script: script}
			}
			return next(ctx, args)
		}
	}
}
