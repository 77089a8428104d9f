package collection

// EditorConfig wires an Editor to the data its owner holds.
type EditorConfig[T Entry] struct {
	Schema  *Schema[T]
	Factory Factory[T]
	IDs     IDSource
	Data    []T
	Open    *Disclosure
	// OnChange receives the full next collection after every mutation.
	OnChange func(next []T)
}

// Editor is the add/edit/remove controller for one collection. The data
// stays owned by the caller: the editor only ever hands back new slices
// through OnChange.
type Editor[T Entry] struct {
	schema   *Schema[T]
	factory  Factory[T]
	ids      IDSource
	data     []T
	open     *Disclosure
	onChange func([]T)
}

// NewEditor closes every open id that is not in cfg.Data, so the disclosure
// set never points at entries removed outside the editor.
func NewEditor[T Entry](cfg EditorConfig[T]) *Editor[T] {
	if cfg.Open == nil {
		cfg.Open = NewDisclosure()
	}
	cfg.Open.Retain(IDs(cfg.Data))
	if cfg.IDs == nil {
		cfg.IDs = UUIDs{}
	}
	return &Editor[T]{
		schema:   cfg.Schema,
		factory:  cfg.Factory,
		ids:      cfg.IDs,
		data:     cfg.Data,
		open:     cfg.Open,
		onChange: cfg.OnChange,
	}
}

// Add creates an entry with a fresh id, appends it and opens it.
func (e *Editor[T]) Add() T {
	entry := e.factory(e.nextID())
	e.commit(Append(e.data, entry))
	e.open.Open(entry.EntryID())
	return entry
}

// Update sets one field of the entry with id. It reports false without
// calling OnChange when no entry has that id.
func (e *Editor[T]) Update(id, field string, value any) (bool, error) {
	next, err := UpdateField(e.data, e.schema, id, field, value)
	if err != nil {
		return false, err
	}
	if IndexOf(e.data, id) < 0 {
		return false, nil
	}
	e.commit(next)
	return true, nil
}

// Remove deletes the entry with id and forgets its disclosure state.
func (e *Editor[T]) Remove(id string) bool {
	e.open.Close(id)
	if IndexOf(e.data, id) < 0 {
		return false
	}
	e.commit(Remove(e.data, id))
	return true
}

// Toggle flips the open state of an existing entry. Unknown ids stay closed.
func (e *Editor[T]) Toggle(id string) bool {
	if IndexOf(e.data, id) < 0 {
		return false
	}
	return e.open.Toggle(id)
}

func (e *Editor[T]) IsOpen(id string) bool {
	return e.open.IsOpen(id)
}

func (e *Editor[T]) Entries() []T {
	return clone(e.data)
}

func (e *Editor[T]) Entry(id string) (T, bool) {
	return Find(e.data, id)
}

// Issues returns the hints of every entry that has any, keyed by id.
func (e *Editor[T]) Issues() map[string][]Issue {
	out := make(map[string][]Issue)
	for _, entry := range e.data {
		if issues := e.schema.Issues(entry); len(issues) > 0 {
			out[entry.EntryID()] = issues
		}
	}
	return out
}

func (e *Editor[T]) nextID() string {
	for {
		id := e.ids.NewID()
		if IndexOf(e.data, id) < 0 {
			return id
		}
	}
}

func (e *Editor[T]) commit(next []T) {
	e.data = next
	if e.onChange != nil {
		e.onChange(next)
	}
}
