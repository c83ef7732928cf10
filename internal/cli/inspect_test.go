package cli

import (
	"context"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/nodegraph/pkg/pipeline"
)

func compactVoice(t *testing.T) *pipeline.CompactResult {
	t.Helper()
	r := pipeline.NewRunner(nil, nil, nil)
	res, err := r.Compact(context.Background(), voiceDoc(), pipeline.CompactOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestInspectRows(t *testing.T) {
	rows := inspectRows(compactVoice(t))
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	voice := rows[0]
	if voice.ID != "voice" || voice.Kind != "compacted" || voice.Source != "voice" {
		t.Errorf("rows[0] = %+v, want compacted voice", voice)
	}
	if want := []string{"amp", "env", "filter"}; !slices.Equal(voice.Members, want) {
		t.Errorf("voice members = %v, want %v", voice.Members, want)
	}
	// env's free output plus the amp -> out boundary link.
	if voice.Inputs != 1 || voice.Outputs != 2 {
		t.Errorf("voice pins = %d/%d, want 1/2", voice.Inputs, voice.Outputs)
	}

	for _, r := range rows[1:] {
		if r.Kind != "regular" || r.Members != nil || r.Source != r.ID {
			t.Errorf("copy row = %+v, want regular leaf mapped to itself", r)
		}
	}
}

func TestInspectTable(t *testing.T) {
	out := inspectTable(inspectRows(compactVoice(t)))
	for _, want := range []string{"Leaf", "voice", "compacted", "amp, env, filter", "osc"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestInspectModelNavigation(t *testing.T) {
	res := compactVoice(t)
	var m tea.Model = newInspectModel("synth.toml", inspectRows(res), res)

	key := func(s string) tea.Msg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j")) // clamped at the last row
	if got := m.(InspectModel).Cursor; got != 2 {
		t.Errorf("Cursor after 3x down = %d, want 2", got)
	}

	m, _ = m.Update(key("k"))
	if got := m.(InspectModel).Cursor; got != 1 {
		t.Errorf("Cursor after up = %d, want 1", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.(InspectModel).Detail {
		t.Error("enter should toggle the detail pane off")
	}

	m, _ = m.Update(key("g"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := m.View()
	if !strings.Contains(view, "replaces group") {
		t.Errorf("detail pane for voice missing:\n%s", view)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestInspectCommandPlain(t *testing.T) {
	in := writeDoc(t, "synth.json", voiceDoc())
	out, err := execute(t, "inspect", in, "--plain")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	if !strings.Contains(out, "voice") || !strings.Contains(out, "compacted") {
		t.Errorf("inspect --plain output:\n%s", out)
	}
}
