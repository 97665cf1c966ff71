package dispatch

import (
	"reflect"
	"strings"

	"github.com/magic-cli-dev/magic/internal/runtime"
)

// Invocation is one parsed command line as handed over by the CLI.
type Invocation struct {
	Command string
	Args    []string
	Options map[string]any
}

// parentKey is the back-reference a command object may carry to its parent.
const parentKey = "parent"

// Sanitize returns the payload sent to the child. Options whose name starts
// with "_", the parent back-reference, and values JSON cannot carry are
// dropped. inv is not modified.
func Sanitize(inv Invocation) runtime.Payload {
	args := make([]string, len(inv.Args))
	copy(args, inv.Args)
	return runtime.Payload{
		Version: runtime.PayloadVersion,
		Command: inv.Command,
		Args:    args,
		Options: sanitizeMap(inv.Options),
	}
}

func sanitizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if strings.HasPrefix(k, "_") || k == parentKey {
			continue
		}
		if clean, ok := sanitizeValue(v); ok {
			out[k] = clean
		}
	}
	return out
}

func sanitizeValue(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case map[string]any:
		return sanitizeMap(val), true
	case []any:
		out := make([]any, 0, len(val))
		for _, e := range val {
			if clean, ok := sanitizeValue(e); ok {
				out = append(out, clean)
			}
		}
		return out, true
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return nil, false
	}
	return v, true
}
