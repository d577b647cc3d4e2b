package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGoldenEnv rewrites golden files instead of comparing when set.
const updateGoldenEnv = "TASKDECK_UPDATE_GOLDEN"

// GoldenString compares rendered output against testdata/<name>.golden and
// reports the first line that differs.
func GoldenString(t *testing.T, name, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv(updateGoldenEnv) != "" {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("update %s: %v", path, err)
		}
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v (set %s=1 to create it)\ngot:\n%s", path, err, updateGoldenEnv, got)
	}
	want := string(raw)
	if got == want {
		return
	}

	gotLines := strings.Split(got, "\n")
	wantLines := strings.Split(want, "\n")
	for i := 0; i < len(gotLines) || i < len(wantLines); i++ {
		var g, w string
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if g != w {
			t.Errorf("%s: line %d differs\nwant: %q\ngot:  %q", name, i+1, w, g)
			return
		}
	}
	t.Errorf("%s: output mismatch\nwant:\n%s\ngot:\n%s", name, want, got)
}
