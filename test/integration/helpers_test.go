//go:build integration

package integration_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/magic-cli-dev/magic/internal/registry"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomePath string // CLI home; packages are cached under dependencies/
	Output   string // file the test package writes its argv to
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node not available")
	}
	return &testEnv{
		HomePath: t.TempDir(),
		Output:   filepath.Join(t.TempDir(), "argv.json"),
	}
}

// packageFiles returns a command package whose entry writes the argv it is
// called with to the file named by MAGIC_TEST_OUTPUT, and exits with
// options.exitCode when set.
func packageFiles(name, version string) map[string]string {
	return map[string]string{
		"package.json": `{"name":"` + name + `","version":"` + version + `","main":"lib/index.js"}`,
		"lib/index.js": `
const fs = require('fs');
module.exports = function (argv) {
  fs.writeFileSync(process.env.MAGIC_TEST_OUTPUT, JSON.stringify({ version: '` + version + `', argv }));
  const opts = argv[argv.length - 1];
  if (opts.exitCode) process.exitCode = opts.exitCode;
};
`,
	}
}

func buildTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		hdr := &tar.Header{Name: "package/" + name, Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// fakeRegistry serves one package whose published versions can change
// between requests.
type fakeRegistry struct {
	*httptest.Server

	t        *testing.T
	name     string
	mu       sync.Mutex
	tarballs map[string][]byte
}

func newFakeRegistry(t *testing.T, name string) *fakeRegistry {
	t.Helper()
	r := &fakeRegistry{t: t, name: name, tarballs: map[string][]byte{}}
	r.Server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.Close)
	return r
}

func (r *fakeRegistry) publish(version string) {
	r.t.Helper()
	tgz := buildTarball(r.t, packageFiles(r.name, version))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tarballs[version] = tgz
}

func (r *fakeRegistry) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.URL.Path == "/"+r.name {
		doc := registry.Packument{Name: r.name, Versions: registry.VersionManifest{}}
		for v, tgz := range r.tarballs {
			sum := sha512.Sum512(tgz)
			doc.Versions[v] = registry.VersionMetadata{
				Name:    r.name,
				Version: v,
				Main:    "lib/index.js",
				Dist: registry.Dist{
					Tarball:   r.URL + "/tarballs/" + v + ".tgz",
					Integrity: "sha512-" + base64.StdEncoding.EncodeToString(sum[:]),
				},
			}
		}
		json.NewEncoder(w).Encode(doc)
		return
	}
	for v, tgz := range r.tarballs {
		if req.URL.Path == "/tarballs/"+v+".tgz" {
			w.Write(tgz)
			return
		}
	}
	http.NotFound(w, req)
}

type childOutput struct {
	Version string            `json:"version"`
	Argv    []json.RawMessage `json:"argv"`
}

func readOutput(t *testing.T, path string) childOutput {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("child wrote no output: %v", err)
	}
	var out childOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("parsing child output %q: %v", data, err)
	}
	return out
}
