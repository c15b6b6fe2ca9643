package inputcore

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

type (
	// BindingStore maps actions to ordered lists of key bindings. The order of
	// the actions and the order of the bindings of each action are preserved
	// through Load and Save; the binding order is the tie-break order used by
	// Resolve.
	BindingStore struct {
		catalog *ActionCatalog
		entries []bindingEntry
	}

	bindingEntry struct {
		id       ActionID
		bindings []KeyBinding
	}

	// Conflict describes one key binding shared by several actions that can be
	// active at the same time.
	Conflict struct {
		Binding KeyBinding
		Actions []ActionID
	}
)

//go:embed bindings.yml
var defaultBindingsYaml []byte

// NewBindingStore returns an empty store. Actions are validated against the
// catalog.
func NewBindingStore(catalog *ActionCatalog) *BindingStore {
	return &BindingStore{catalog: catalog}
}

// DefaultBindings returns the built-in bindings. The catalog must know all the
// actions of DefaultActionCatalog.
func DefaultBindings(catalog *ActionCatalog) *BindingStore {
	s := NewBindingStore(catalog)
	if err := s.Load(bytes.NewReader(defaultBindingsYaml)); err != nil {
		panic(fmt.Errorf("failed to unmarshal default key bindings: %w", err))
	}
	return s
}

// LoadOrDefault loads the bindings from path. If that fails for any reason,
// including the file not existing, a warning is logged and the defaults are
// returned instead.
func LoadOrDefault(path string, catalog *ActionCatalog, logger *slog.Logger) *BindingStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := NewBindingStore(catalog)
	if err := s.LoadFile(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no custom key bindings, using defaults", "path", path)
		} else {
			logger.Warn("custom key bindings ignored, using defaults", "err", err)
		}
		return DefaultBindings(catalog)
	}
	return s
}

// Resolve returns the actions triggered by pressing key with exactly the
// modifiers mods while ctx is active. Each action appears at most once.
// Actions scoped to ctx come before actions reached through GlobalContext;
// otherwise the store order is kept.
func (s *BindingStore) Resolve(ctx ActionContext, key string, mods Modifiers) []ActionID {
	press := KeyPress{Key: NormalizeKey(key), Modifiers: mods}
	var ret []ActionID
	for pass := 0; pass < 2; pass++ {
		for _, e := range s.entries {
			if !s.catalog.Allowed(e.id, ctx) || s.catalog.specific(e.id, ctx) != (pass == 0) {
				continue
			}
			if slices.ContainsFunc(e.bindings, func(b KeyBinding) bool { return b.Matches(press) }) {
				ret = append(ret, e.id)
			}
		}
	}
	return ret
}

// Actions returns the actions in the store, in store order.
func (s *BindingStore) Actions() []ActionID {
	ret := make([]ActionID, len(s.entries))
	for i, e := range s.entries {
		ret[i] = e.id
	}
	return ret
}

// Bindings returns a copy of the bindings of an action.
func (s *BindingStore) Bindings(id ActionID) []KeyBinding {
	if e := s.entry(id); e != nil {
		return slices.Clone(e.bindings)
	}
	return nil
}

// Hint returns a human readable text of the first binding of an action, or ""
// if the action is not bound.
func (s *BindingStore) Hint(id ActionID) string {
	if e := s.entry(id); e != nil && len(e.bindings) > 0 {
		return e.bindings[0].String()
	}
	return ""
}

// Add appends a binding to the end of an action's binding list. Adding a
// binding the action already has is a no-op.
func (s *BindingStore) Add(id ActionID, b KeyBinding) error {
	if !s.catalog.Known(id) {
		return fmt.Errorf("unknown action %q", id)
	}
	b.Key = NormalizeKey(b.Key)
	if b.Key == "" {
		return errors.New("empty key")
	}
	e := s.entry(id)
	if e == nil {
		s.entries = append(s.entries, bindingEntry{id: id})
		e = &s.entries[len(s.entries)-1]
	}
	if !slices.Contains(e.bindings, b) {
		e.bindings = append(e.bindings, b)
	}
	return nil
}

// Remove deletes a binding from an action. It returns false if the action did
// not have the binding.
func (s *BindingStore) Remove(id ActionID, b KeyBinding) bool {
	e := s.entry(id)
	if e == nil {
		return false
	}
	b.Key = NormalizeKey(b.Key)
	i := slices.Index(e.bindings, b)
	if i < 0 {
		return false
	}
	e.bindings = slices.Delete(e.bindings, i, i+1)
	return true
}

// Rebind replaces the binding from of an action with to, keeping its
// position in the tie-break order. If the action already has to elsewhere in
// its list, from is just removed.
func (s *BindingStore) Rebind(id ActionID, from, to KeyBinding) error {
	e := s.entry(id)
	if e == nil {
		return fmt.Errorf("action %q has no bindings", id)
	}
	from.Key, to.Key = NormalizeKey(from.Key), NormalizeKey(to.Key)
	if to.Key == "" {
		return errors.New("empty key")
	}
	i := slices.Index(e.bindings, from)
	if i < 0 {
		return fmt.Errorf("action %q is not bound to %s", id, from)
	}
	if j := slices.Index(e.bindings, to); j >= 0 && j != i {
		e.bindings = slices.Delete(e.bindings, i, i+1)
		return nil
	}
	e.bindings[i] = to
	return nil
}

// Conflicts lists the bindings shared by two or more actions that can be
// active in the same context. All of them fire when the key is pressed; the
// list is meant for showing the user.
func (s *BindingStore) Conflicts() []Conflict {
	var ret []Conflict
	seen := map[KeyBinding]bool{}
	for i, e := range s.entries {
		for _, b := range e.bindings {
			if seen[b] {
				continue
			}
			seen[b] = true
			actions := []ActionID{e.id}
			for _, o := range s.entries[i+1:] {
				if slices.Contains(o.bindings, b) && s.overlap(e.id, o.id) {
					actions = append(actions, o.id)
				}
			}
			if len(actions) > 1 {
				ret = append(ret, Conflict{Binding: b, Actions: actions})
			}
		}
	}
	return ret
}

func (s *BindingStore) overlap(a, b ActionID) bool {
	for c := range contextNames {
		if s.catalog.Allowed(a, ActionContext(c)) && s.catalog.Allowed(b, ActionContext(c)) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the store, sharing the catalog.
func (s *BindingStore) Clone() *BindingStore {
	ret := &BindingStore{catalog: s.catalog, entries: make([]bindingEntry, len(s.entries))}
	for i, e := range s.entries {
		ret.entries[i] = bindingEntry{id: e.id, bindings: slices.Clone(e.bindings)}
	}
	return ret
}

// Equal reports whether both stores hold the same actions and bindings in the
// same order.
func (s *BindingStore) Equal(o *BindingStore) bool {
	return slices.EqualFunc(s.entries, o.entries, func(a, b bindingEntry) bool {
		return a.id == b.id && slices.Equal(a.bindings, b.bindings)
	})
}

func (s *BindingStore) entry(id ActionID) *bindingEntry {
	for i := range s.entries {
		if s.entries[i].id == id {
			return &s.entries[i]
		}
	}
	return nil
}

// LoadFile replaces the bindings with the ones read from a file. On error, the
// store is left as it was and the error is a *ConfigLoadError.
func (s *BindingStore) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ConfigLoadError{Path: path, Err: err}
	}
	defer f.Close()
	if err := s.Load(f); err != nil {
		var le *ConfigLoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return err
	}
	return nil
}

// Load replaces the bindings with the ones read from r. The format is a YAML
// mapping from action to a list of bindings:
//
//	Duplicate:
//	  - {key: D, ctrl: true}
//	Escape:
//	  - {key: Escape}
//
// On error, the store is left as it was and the error is a *ConfigLoadError.
func (s *BindingStore) Load(r io.Reader) error {
	entries, err := decodeBindings(r, s.catalog)
	if err != nil {
		return &ConfigLoadError{Err: err}
	}
	s.entries = entries
	return nil
}

func decodeBindings(r io.Reader, catalog *ActionCatalog) ([]bindingEntry, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty configuration")
		}
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping from actions to bindings", doc.Line)
	}
	root := doc.Content[0]
	entries := make([]bindingEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		id := ActionID(k.Value)
		if k.Kind != yaml.ScalarNode || !catalog.Known(id) {
			return nil, fmt.Errorf("line %d: unknown action %q", k.Line, k.Value)
		}
		if slices.ContainsFunc(entries, func(e bindingEntry) bool { return e.id == id }) {
			return nil, fmt.Errorf("line %d: action %q listed twice", k.Line, id)
		}
		bindings, err := decodeBindingList(v)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", id, err)
		}
		entries = append(entries, bindingEntry{id: id, bindings: bindings})
	}
	return entries, nil
}

func decodeBindingList(n *yaml.Node) ([]KeyBinding, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of bindings", n.Line)
	}
	var ret []KeyBinding
	for _, item := range n.Content {
		b, err := decodeBinding(item)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ret, b) {
			ret = append(ret, b)
		}
	}
	return ret, nil
}

var modifierFields = map[string]Modifiers{"ctrl": ModCtrl, "shift": ModShift, "alt": ModAlt, "meta": ModMeta}

func decodeBinding(n *yaml.Node) (KeyBinding, error) {
	var b KeyBinding
	if n.Kind != yaml.MappingNode {
		return b, fmt.Errorf("line %d: expected a binding like {key: D, ctrl: true}", n.Line)
	}
	seen := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if seen[k.Value] {
			return b, fmt.Errorf("line %d: field %s given twice", k.Line, k.Value)
		}
		seen[k.Value] = true
		if k.Value == "key" {
			if v.Kind != yaml.ScalarNode {
				return b, fmt.Errorf("line %d: key must be a string", v.Line)
			}
			b.Key = NormalizeKey(v.Value)
			continue
		}
		mod, ok := modifierFields[k.Value]
		if !ok {
			return b, fmt.Errorf("line %d: field %s not found in binding", k.Line, k.Value)
		}
		var set bool
		if err := v.Decode(&set); err != nil {
			return b, fmt.Errorf("line %d: %s: %w", v.Line, k.Value, err)
		}
		if set {
			b.Modifiers |= mod
		}
	}
	if b.Key == "" {
		return b, fmt.Errorf("line %d: binding has no key", n.Line)
	}
	return b, nil
}

// SaveFile writes the bindings to path, creating the directory if needed. The
// file is replaced atomically so a failed save never leaves a truncated file
// behind. On error, the error is a *ConfigSaveError.
func (s *BindingStore) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ConfigSaveError{Path: path, Err: err}
	}
	f, err := os.CreateTemp(dir, ".bindings-*.yml")
	if err != nil {
		return &ConfigSaveError{Path: path, Err: err}
	}
	tmp := f.Name()
	if err := s.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return &ConfigSaveError{Path: path, Err: errors.Unwrap(err)}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &ConfigSaveError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &ConfigSaveError{Path: path, Err: err}
	}
	return nil
}

// Save writes the bindings to w in the format read by Load.
func (s *BindingStore) Save(w io.Writer) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range s.entries {
		list := &yaml.Node{Kind: yaml.SequenceNode}
		if len(e.bindings) == 0 {
			list.Style = yaml.FlowStyle
		}
		for _, b := range e.bindings {
			m := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
			m.Content = append(m.Content, strNode("key"), strNode(b.Key))
			for _, name := range [...]string{"ctrl", "shift", "alt", "meta"} {
				if b.Modifiers.Contain(modifierFields[name]) {
					m.Content = append(m.Content, strNode(name), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
				}
			}
			list.Content = append(list.Content, m)
		}
		root.Content = append(root.Content, strNode(string(e.id)), list)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return &ConfigSaveError{Err: err}
	}
	if err := enc.Close(); err != nil {
		return &ConfigSaveError{Err: err}
	}
	return nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
