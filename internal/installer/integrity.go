package installer

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/magic-cli-dev/magic/internal/registry"
)

// digest is one expected checksum of a tarball.
type digest struct {
	algorithm string
	expected  string
	encode    func([]byte) string
	h         hash.Hash
}

// algorithms in order of preference.
var algorithms = []string{"sha512", "sha256", "sha1"}

func newHash(algorithm string) hash.Hash {
	switch algorithm {
	case "sha512":
		return sha512.New()
	case "sha256":
		return sha256.New()
	case "sha1":
		return sha1.New()
	}
	return nil
}

// expectedDigest picks the strongest checksum dist carries. Subresource
// integrity strings win over the legacy hex shasum. It returns nil when dist
// has neither.
func expectedDigest(dist registry.Dist) (*digest, error) {
	if dist.Integrity != "" {
		byAlg := map[string]string{}
		for _, field := range strings.Fields(dist.Integrity) {
			alg, value, ok := strings.Cut(field, "-")
			if !ok {
				continue
			}
			// Options after "?" are reserved by the SRI format.
			value, _, _ = strings.Cut(value, "?")
			if _, seen := byAlg[alg]; !seen {
				byAlg[alg] = value
			}
		}
		for _, alg := range algorithms {
			if value, ok := byAlg[alg]; ok {
				return &digest{
					algorithm: alg,
					expected:  value,
					encode:    base64.StdEncoding.EncodeToString,
					h:         newHash(alg),
				}, nil
			}
		}
		return nil, fmt.Errorf("unsupported integrity %q", dist.Integrity)
	}
	if dist.Shasum != "" {
		return &digest{
			algorithm: "sha1",
			expected:  strings.ToLower(dist.Shasum),
			encode:    hex.EncodeToString,
			h:         sha1.New(),
		}, nil
	}
	return nil, nil
}

// verify compares the bytes written to d.h against the expected value.
func (d *digest) verify(pkg string) error {
	actual := d.encode(d.h.Sum(nil))
	if actual != d.expected {
		return &IntegrityError{Package: pkg, Algorithm: d.algorithm, Expected: d.expected, Actual: actual}
	}
	return nil
}
