package keys

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestLookupFallsBackToGlobal(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, ActionQuit, r.Action("q", ScopeDashboard))
	require.Equal(t, ActionToggle, r.Action(tea.KeyMsg{Type: tea.KeySpace}.String(), ScopeDashboard))
	require.Equal(t, ActionReset, r.Action("ctrl+r", ScopeDashboard))
	require.Equal(t, ActionRegister, r.Action("g", ScopeDashboard))
	require.Equal(t, ActionStage, r.Action("G", ScopeDashboard))
	require.Equal(t, Action(""), r.Action("a", ScopeSource))
	require.Equal(t, Action(""), r.Action("", ScopeDashboard))
}

func TestSortColumn(t *testing.T) {
	col, ok := SortColumn(ActionSort4)
	require.True(t, ok)
	require.Equal(t, 3, col)
	_, ok = SortColumn(ActionQuit)
	require.False(t, ok)
}

func TestApplyOverrides(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Apply([]Override{{Scope: ScopeDashboard, Action: string(ActionAdvance), Keys: []string{"Enter"}}}))
	require.Equal(t, ActionAdvance, r.Action("enter", ScopeDashboard))
	require.Equal(t, Action(""), r.Action("a", ScopeDashboard))

	cases := []Override{
		{Action: "quit", Keys: []string{"x"}},
		{Scope: ScopeDashboard, Keys: []string{"x"}},
		{Scope: ScopeDashboard, Action: "up"},
		{Scope: "nope", Action: "up", Keys: []string{"x"}},
		{Scope: ScopeDashboard, Action: "fly", Keys: []string{"x"}},
		{Scope: ScopeDashboard, Action: "up", Keys: []string{"j"}},
	}
	for _, c := range cases {
		require.Error(t, NewRegistry().Apply([]Override{c}), "%+v", c)
	}
	dup := []Override{
		{Scope: ScopeDashboard, Action: "up", Keys: []string{"x"}},
		{Scope: ScopeDashboard, Action: "up", Keys: []string{"y"}},
	}
	require.Error(t, NewRegistry().Apply(dup))
}

func TestLoadFile(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadFile(""))
	require.NoError(t, r.LoadFile(filepath.Join(t.TempDir(), "missing.toml")))

	path := filepath.Join(t.TempDir(), "keys.toml")
	content := "version = 1\n\n[[binding]]\nscope = \"dashboard\"\naction = \"refresh\"\nkeys = [\"R\", \"f5\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, r.LoadFile(path))
	require.Equal(t, ActionRefresh, r.Action("f5", ScopeDashboard))
	require.Equal(t, ActionRefresh, r.Action("R", ScopeDashboard))

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("version = 2\n"), 0o600))
	require.Error(t, NewRegistry().LoadFile(bad))
}

func TestExportRoundTripsThroughTOML(t *testing.T) {
	r := NewRegistry()
	var buf bytes.Buffer
	require.NoError(t, toml.NewEncoder(&buf).Encode(r.Export()))

	path := filepath.Join(t.TempDir(), "keys.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	fresh := NewRegistry()
	require.NoError(t, fresh.LoadFile(path))
	require.Equal(t, r.Export(), fresh.Export())
}

func TestHelpBindingsIncludeGlobal(t *testing.T) {
	help := NewRegistry().HelpBindings(ScopeSource)
	require.Len(t, help, 4)
	require.Equal(t, "r", help[0].Help().Key)
	require.Equal(t, "quit", help[1].Help().Desc)
}
