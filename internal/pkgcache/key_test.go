package pkgcache

import (
	"errors"
	"testing"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name, version, want string
	}{
		{"@scope/init", "1.1.2", "_@scope_init@1.1.2@@scope/init"},
		{"lodash", "4.17.21", "_lodash@4.17.21@lodash"},
		{"@magic-cli-dev/init", "1.0.0-beta.1", "_@magic-cli-dev_init@1.0.0-beta.1@@magic-cli-dev/init"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CacheKey(tt.name, tt.version)
			if err != nil {
				t.Fatalf("CacheKey() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CacheKey(%q, %q) = %q, want %q", tt.name, tt.version, got, tt.want)
			}
			again, _ := CacheKey(tt.name, tt.version)
			if again != got {
				t.Errorf("CacheKey not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestCacheKey_DistinctVersions(t *testing.T) {
	a, _ := CacheKey("@scope/init", "1.0.0")
	b, _ := CacheKey("@scope/init", "1.0.1")
	if a == b {
		t.Errorf("different versions share key %q", a)
	}
	// Names that escape to the same prefix still differ in the suffix.
	c, _ := CacheKey("@a/b_c", "1.0.0")
	d, _ := CacheKey("@a_b/c", "1.0.0")
	if c == d {
		t.Errorf("distinct names share key %q", c)
	}
}

func TestCacheKey_Unresolved(t *testing.T) {
	for _, v := range []string{"", "latest"} {
		if _, err := CacheKey("@scope/init", v); !errors.Is(err, ErrUnresolvedVersion) {
			t.Errorf("CacheKey(version=%q) error = %v, want ErrUnresolvedVersion", v, err)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key           string
		name, version string
		ok            bool
	}{
		{"_@scope_init@1.1.2@@scope/init", "@scope/init", "1.1.2", true},
		{"_lodash@4.17.21@lodash", "lodash", "4.17.21", true},
		{"_@scope_init@1.1.2@@scope", "", "", false},
		{"lodash@4.17.21@lodash", "", "", false},
		{"_lodash@latest@lodash", "", "", false},
		{"_", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			name, version, ok := ParseKey(tt.key)
			if ok != tt.ok || name != tt.name || version != tt.version {
				t.Errorf("ParseKey(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.key, name, version, ok, tt.name, tt.version, tt.ok)
			}
		})
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	for _, ref := range []PackageRef{{"@scope/init", "1.1.2"}, {"left-pad", "1.3.0"}, {"@a/b_c", "0.0.1"}} {
		key, err := CacheKey(ref.Name, ref.Version)
		if err != nil {
			t.Fatal(err)
		}
		name, version, ok := ParseKey(key)
		if !ok || name != ref.Name || version != ref.Version {
			t.Errorf("ParseKey(CacheKey(%v)) = (%q, %q, %v)", ref, name, version, ok)
		}
	}
}
