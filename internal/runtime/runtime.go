package runtime

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// PayloadVersion is the wire version understood by the launcher.
const PayloadVersion = 1

//go:embed launcher.js
var launcherScript string

// Runtime executes a package entry file.
type Runtime interface {
	// Run executes entry with payload and waits for it to finish.
	Run(ctx context.Context, entry string, payload Payload) (*Output, error)
}

// Payload is the invocation handed to the child. The launcher calls the
// entry module's export with [...Args, Options].
type Payload struct {
	Version int            `json:"v"`
	Command string         `json:"command"`
	Args    []string       `json:"args"`
	Options map[string]any `json:"options"`
}

// Encode serializes p into the launcher's argument form.
func (p Payload) Encode() (string, error) {
	if p.Version == 0 {
		p.Version = PayloadVersion
	}
	if p.Args == nil {
		p.Args = []string{}
	}
	if p.Options == nil {
		p.Options = map[string]any{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serializing invocation payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePayload reverses Encode.
func DecodePayload(s string) (Payload, error) {
	var p Payload
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("decoding invocation payload: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing invocation payload: %w", err)
	}
	return p, nil
}

// Output captures the result of a child execution. Streams are inherited,
// so only the exit code is recorded.
type Output struct {
	ExitCode int
}

// ErrSpawn is matched by every failure to start the child.
var ErrSpawn = errors.New("cannot start child process")

// SpawnError reports a child that could not be started.
type SpawnError struct {
	Entry string
	Err   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Entry, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

func (e *SpawnError) Is(target error) bool { return target == ErrSpawn }
