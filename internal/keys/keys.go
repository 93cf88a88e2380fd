// Package keys maps key presses to dashboard actions per UI scope.
package keys

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/key"
)

type Action string

const (
	ScopeGlobal    = "global"
	ScopeDashboard = "dashboard"
	ScopeSource    = "source"
)

const (
	ActionQuit      Action = "quit"
	ActionUp        Action = "up"
	ActionDown      Action = "down"
	ActionToggle    Action = "toggle_select"
	ActionClear     Action = "clear_selection"
	ActionSort1     Action = "sort_1"
	ActionSort2     Action = "sort_2"
	ActionSort3     Action = "sort_3"
	ActionSort4     Action = "sort_4"
	ActionSort5     Action = "sort_5"
	ActionAdvance   Action = "advance_status"
	ActionRefresh   Action = "refresh"
	ActionImport    Action = "import"
	ActionSwitch    Action = "switch_view"
	ActionReset     Action = "reset"
	ActionHelp      Action = "help"
	ActionRegister  Action = "next_register"
	ActionStage     Action = "register_stage"
)

// SortColumn returns the 0-based column index for a sort action.
func SortColumn(a Action) (int, bool) {
	switch a {
	case ActionSort1:
		return 0, true
	case ActionSort2:
		return 1, true
	case ActionSort3:
		return 2, true
	case ActionSort4:
		return 3, true
	case ActionSort5:
		return 4, true
	}
	return 0, false
}

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

type Registry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

func NewRegistry() *Registry {
	r := &Registry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(ScopeGlobal, ActionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(ScopeGlobal, ActionSwitch, []string{"tab"}, "switch view")
	reg(ScopeGlobal, ActionHelp, []string{"?"}, "help")

	reg(ScopeDashboard, ActionUp, []string{"k", "up"}, "up")
	reg(ScopeDashboard, ActionDown, []string{"j", "down"}, "down")
	reg(ScopeDashboard, ActionToggle, []string{"space", " "}, "select")
	reg(ScopeDashboard, ActionClear, []string{"esc"}, "clear sel")
	reg(ScopeDashboard, ActionSort1, []string{"1"}, "sort name")
	reg(ScopeDashboard, ActionSort2, []string{"2"}, "sort team")
	reg(ScopeDashboard, ActionSort3, []string{"3"}, "sort request")
	reg(ScopeDashboard, ActionSort4, []string{"4"}, "sort date")
	reg(ScopeDashboard, ActionSort5, []string{"5"}, "sort status")
	reg(ScopeDashboard, ActionAdvance, []string{"a"}, "advance")
	reg(ScopeDashboard, ActionRefresh, []string{"r"}, "refresh")
	reg(ScopeDashboard, ActionImport, []string{"i"}, "import")
	reg(ScopeDashboard, ActionRegister, []string{"g"}, "next register")
	reg(ScopeDashboard, ActionStage, []string{"G"}, "register stage")
	reg(ScopeDashboard, ActionReset, []string{"ctrl+r"}, "reset data")

	reg(ScopeSource, ActionRefresh, []string{"r"}, "refresh")

	return r
}

func (r *Registry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}
		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *Registry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup resolves keyName in scope, falling back to the global scope.
func (r *Registry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != ScopeGlobal {
		return r.lookupInScope(keyName, ScopeGlobal)
	}
	return nil
}

// Action returns the action bound to keyName, or "".
func (r *Registry) Action(keyName, scope string) Action {
	if b := r.Lookup(keyName, scope); b != nil {
		return b.Action
	}
	return ""
}

// HelpBindings returns the scope's bindings followed by the global ones.
func (r *Registry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	if scope != ScopeGlobal {
		items = append(items, r.BindingsForScope(ScopeGlobal)...)
	}
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *Registry) lookupInScope(keyName, scope string) *Binding {
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *Registry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	// single uppercase runes stay distinct from lowercase
	if len(trimmed) == 1 && trimmed[0] >= 'A' && trimmed[0] <= 'Z' {
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}

// Override rebinds one action in one scope.
type Override struct {
	Scope  string   `toml:"scope"`
	Action string   `toml:"action"`
	Keys   []string `toml:"keys"`
}

// File is the on-disk keybinding overrides format.
type File struct {
	Version  int        `toml:"version"`
	Bindings []Override `toml:"binding"`
}

// LoadFile decodes overrides from path and applies them. A missing file is
// not an error.
func (r *Registry) LoadFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Version == 0 {
		f.Version = 1
	}
	if f.Version != 1 {
		return fmt.Errorf("%s: unsupported version %d", path, f.Version)
	}
	return r.Apply(f.Bindings)
}

// Apply rebinds actions and rejects unknown scopes, unknown actions,
// duplicate entries and key conflicts within a scope.
func (r *Registry) Apply(items []Override) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	type pair struct {
		scope  string
		action Action
	}
	seenPair := make(map[pair]bool)
	for _, o := range items {
		scope := strings.TrimSpace(o.Scope)
		if scope == "" {
			return fmt.Errorf("key override: scope is required")
		}
		action := Action(strings.TrimSpace(o.Action))
		if action == "" {
			return fmt.Errorf("key override scope=%q: action is required", scope)
		}
		keys := normalizeKeyList(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("key override scope=%q action=%q: keys are required", scope, action)
		}
		bindings := r.bindingsByScope[scope]
		if len(bindings) == 0 {
			return fmt.Errorf("key override scope=%q action=%q: unknown scope", scope, action)
		}
		var target *Binding
		for _, b := range bindings {
			if b.Action == action {
				target = b
				break
			}
		}
		if target == nil {
			return fmt.Errorf("key override scope=%q action=%q: unknown action in scope", scope, action)
		}
		p := pair{scope: scope, action: action}
		if seenPair[p] {
			return fmt.Errorf("key override scope=%q action=%q: duplicated entry", scope, action)
		}
		seenPair[p] = true
		target.Keys = keys
	}

	r.rebuildIndex()
	for scope, bindings := range r.bindingsByScope {
		seen := make(map[string]Action)
		for _, b := range bindings {
			for _, k := range b.Keys {
				if prev, ok := seen[k]; ok {
					return fmt.Errorf("key override conflict in scope=%q: key %q used by both %q and %q", scope, k, prev, b.Action)
				}
				seen[k] = b.Action
			}
		}
	}
	return nil
}

// Export returns the current bindings in File form, sorted.
func (r *Registry) Export() File {
	f := File{Version: 1}
	for scope, bindings := range r.bindingsByScope {
		for _, b := range bindings {
			f.Bindings = append(f.Bindings, Override{Scope: scope, Action: string(b.Action), Keys: append([]string(nil), b.Keys...)})
		}
	}
	sort.Slice(f.Bindings, func(i, j int) bool {
		if f.Bindings[i].Scope != f.Bindings[j].Scope {
			return f.Bindings[i].Scope < f.Bindings[j].Scope
		}
		return f.Bindings[i].Action < f.Bindings[j].Action
	})
	return f
}

func (r *Registry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}
