package collection

import (
	"encoding/json"
	"sort"
)

// Disclosure tracks which entries are expanded for editing. It is UI state:
// it never influences the data and is not persisted with it.
type Disclosure struct {
	open map[string]struct{}
}

func NewDisclosure(ids ...string) *Disclosure {
	d := &Disclosure{open: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		d.open[id] = struct{}{}
	}
	return d
}

// Toggle flips membership of id and reports whether it is open afterwards.
func (d *Disclosure) Toggle(id string) bool {
	d.init()
	if _, ok := d.open[id]; ok {
		delete(d.open, id)
		return false
	}
	d.open[id] = struct{}{}
	return true
}

func (d *Disclosure) Open(id string) {
	d.init()
	d.open[id] = struct{}{}
}

func (d *Disclosure) Close(id string) {
	delete(d.open, id)
}

func (d *Disclosure) IsOpen(id string) bool {
	_, ok := d.open[id]
	return ok
}

func (d *Disclosure) Len() int {
	return len(d.open)
}

// IDs returns the open ids sorted, so the output is stable.
func (d *Disclosure) IDs() []string {
	ids := make([]string, 0, len(d.open))
	for id := range d.open {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Retain drops every open id that is not in keep.
func (d *Disclosure) Retain(keep []string) {
	allowed := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		allowed[id] = struct{}{}
	}
	for id := range d.open {
		if _, ok := allowed[id]; !ok {
			delete(d.open, id)
		}
	}
}

func (d *Disclosure) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.IDs())
}

func (d *Disclosure) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	d.open = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		d.open[id] = struct{}{}
	}
	return nil
}

func (d *Disclosure) init() {
	if d.open == nil {
		d.open = make(map[string]struct{})
	}
}
