package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// collectOptions returns every flag in fs, set or defaulted, keyed by its
// camel-cased name and typed after the flag's value type. The help flag is
// left out.
func collectOptions(fs *pflag.FlagSet) map[string]any {
	opts := map[string]any{}
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		opts[camelCase(f.Name)] = flagValue(fs, f)
	})
	return opts
}

func flagValue(fs *pflag.FlagSet, f *pflag.Flag) any {
	raw := f.Value.String()
	switch f.Value.Type() {
	case "bool":
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case "int", "int8", "int16", "int32", "int64", "count":
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case "uint", "uint8", "uint16", "uint32", "uint64":
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return n
		}
	case "float32", "float64":
		if x, err := strconv.ParseFloat(raw, 64); err == nil {
			return x
		}
	case "stringSlice":
		if v, err := fs.GetStringSlice(f.Name); err == nil {
			return toAny(v)
		}
	case "stringArray":
		if v, err := fs.GetStringArray(f.Name); err == nil {
			return toAny(v)
		}
	}
	return raw
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// camelCase turns a kebab-case flag name into the camelCase key Node
// command packages expect ("target-path" → "targetPath").
func camelCase(name string) string {
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
