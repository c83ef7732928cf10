package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	nio "github.com/matzehuels/nodegraph/pkg/io"
)

func voiceDoc() nio.Document {
	return nio.Document{
		Leaves: []nio.LeafSpec{
			{ID: "osc", Inputs: 0, Outputs: 1},
			{ID: "filter", Inputs: 1, Outputs: 1, Group: "voice"},
			{ID: "amp", Inputs: 1, Outputs: 1, Group: "voice"},
			{ID: "env", Inputs: 0, Outputs: 1, Group: "mod"},
			{ID: "out", Inputs: 1, Outputs: 0},
		},
		Groups: []nio.GroupSpec{{ID: "voice"}, {ID: "mod", Parent: "voice"}},
		Links: []nio.LinkSpec{
			{From: "osc", Out: 0, To: "filter", In: 0},
			{From: "filter", Out: 0, To: "amp", In: 0},
			{From: "amp", Out: 0, To: "out", In: 0},
		},
	}
}

// writeDoc writes doc to a file named name in a fresh temp dir.
func writeDoc(t *testing.T, name string, doc nio.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := nio.WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what it wrote to
// its output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
