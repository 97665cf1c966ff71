package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	goruntime "runtime"
	"strings"

	"github.com/go-logr/logr"
)

// Node runs entry files with the node binary.
type Node struct {
	// Stdin, Stdout and Stderr default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the child's working directory; empty means the current one.
	Dir string
	// Env is the child's environment; nil inherits the process environment.
	Env []string
	// GOOS selects the launch form; empty means the host OS.
	GOOS string
	// Logger receives V(1) progress records; the zero value discards them.
	Logger logr.Logger
}

// CommandLine returns the program and arguments that run node with args. On
// windows the call goes through cmd /c so node shims on PATH resolve.
func CommandLine(goos, node string, args []string) (string, []string) {
	if goos == "windows" {
		return "cmd", append([]string{"/c", node}, args...)
	}
	return node, args
}

// LauncherArgs returns node's arguments for running entry with an encoded
// payload. The launcher is flattened to one line so it survives cmd /c.
func LauncherArgs(entry, encodedPayload string) []string {
	return []string{"-e", strings.ReplaceAll(launcherScript, "\n", " "), entry, encodedPayload}
}

// Run starts node on entry and waits for it. A non-zero exit is reported in
// Output, not as an error. While the child runs, interrupts delivered to this
// process are left to the child.
func (n *Node) Run(ctx context.Context, entry string, payload Payload) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SpawnError{Entry: entry, Err: err}
	}

	goos := n.GOOS
	if goos == "" {
		goos = goruntime.GOOS
	}

	node := "node"
	if goos != "windows" {
		path, err := exec.LookPath("node")
		if err != nil {
			return nil, &SpawnError{Entry: entry, Err: fmt.Errorf("node runtime requires Node.js: %w", err)}
		}
		node = path
	}

	encoded, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	name, args := CommandLine(goos, node, LauncherArgs(entry, encoded))
	cmd := exec.Command(name, args...)
	cmd.Dir = n.Dir
	cmd.Env = n.Env
	cmd.Stdin = orDefault(n.Stdin, os.Stdin)
	cmd.Stdout = orDefaultWriter(n.Stdout, os.Stdout)
	cmd.Stderr = orDefaultWriter(n.Stderr, os.Stderr)

	logger := n.Logger
	logger.V(1).Info("starting child process", "entry", entry, "command", payload.Command)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Entry: entry, Err: err}
	}

	err = cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				code = 1
			}
			logger.V(1).Info("child process exited", "entry", entry, "code", code)
			return &Output{ExitCode: code}, nil
		}
		return nil, fmt.Errorf("waiting for %s: %w", entry, err)
	}

	logger.V(1).Info("child process exited", "entry", entry, "code", 0)
	return &Output{ExitCode: 0}, nil
}

func orDefault(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orDefaultWriter(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
