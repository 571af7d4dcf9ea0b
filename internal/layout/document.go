package layout

import (
	"bytes"
	"encoding/json"
	"fmt"

	"factoryfloor/internal/domain"
)

// TypeProject is the item type of project cards.
const TypeProject = "project"

const (
	DefaultWidth  = 270
	DefaultHeight = 90
)

// transientKeys are merged into project items at read time and never stored.
var transientKeys = []string{"status", "server_timestamp"}

// Item is one positioned element of the floor layout. Only project items
// are interpreted; every other item is carried through untouched in Extra.
type Item struct {
	Type      string
	Name      string
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Details   string
	Owner     *string
	Pinned    bool
	ImagePath *string

	// Extra holds keys this version does not model.
	Extra map[string]json.RawMessage
}

// NewProjectItem returns a project card with the default size.
func NewProjectItem(name string, x, y float64, details, owner string) Item {
	return Item{
		Type:    TypeProject,
		Name:    name,
		X:       x,
		Y:       y,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Details: details,
		Owner:   &owner,
	}
}

func (it *Item) IsProject() bool { return it.Type == TypeProject }

type projectFields struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Details   string  `json:"details"`
	Owner     *string `json:"owner"`
	Pinned    bool    `json:"pinned"`
	ImagePath *string `json:"image_path"`
}

var projectKeys = []string{"x", "y", "width", "height", "details", "owner", "pinned", "image_path"}

func (it *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = Item{}

	if v, ok := raw["type"]; ok {
		// A type that is not a string never names a project; such an item
		// is kept opaque.
		if err := json.Unmarshal(v, &it.Type); err != nil {
			it.Type = ""
		}
	}
	if v, ok := raw["name"]; ok {
		var name *string
		err := json.Unmarshal(v, &name)
		switch {
		case err == nil && name != nil:
			it.Name = *name
		case it.IsProject():
			return fmt.Errorf("project item name %s is not a string", v)
		}
	}

	if it.IsProject() {
		var f projectFields
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("project item %q: %w", it.Name, err)
		}
		it.X, it.Y = f.X, f.Y
		it.Width, it.Height = f.Width, f.Height
		it.Details = f.Details
		it.Owner = f.Owner
		it.Pinned = f.Pinned
		it.ImagePath = f.ImagePath
		for _, k := range projectKeys {
			delete(raw, k)
		}
		for _, k := range transientKeys {
			delete(raw, k)
		}
		delete(raw, "type")
		delete(raw, "name")
	}

	if len(raw) > 0 {
		it.Extra = raw
	}
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(it.Extra)+10)
	for k, v := range it.Extra {
		m[k] = v
	}
	if !it.IsProject() {
		return json.Marshal(m)
	}

	m["type"] = it.Type
	m["name"] = it.Name
	m["x"] = it.X
	m["y"] = it.Y
	m["width"] = it.Width
	m["height"] = it.Height
	m["details"] = it.Details
	m["owner"] = it.Owner
	m["pinned"] = it.Pinned
	m["image_path"] = it.ImagePath
	return json.Marshal(m)
}

// Map returns the item as a generic JSON object, ready for read-time
// enrichment.
func (it Item) Map() (map[string]any, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Document is the persisted layout: item list, an opaque background and any
// other top-level keys.
type Document struct {
	Items      []Item
	Background json.RawMessage
	Extra      map[string]json.RawMessage
}

func NewDocument() *Document {
	return &Document{Items: []Item{}, Background: json.RawMessage(`{}`)}
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("layout document is not an object")
	}
	*d = *NewDocument()

	if v, ok := raw["items"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &d.Items); err != nil {
			return fmt.Errorf("items: %w", err)
		}
		if d.Items == nil {
			d.Items = []Item{}
		}
	}
	if v, ok := raw["background"]; ok && !isNull(v) {
		d.Background = v
	}
	delete(raw, "items")
	delete(raw, "background")
	delete(raw, "server_timestamp")
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+2)
	for k, v := range d.Extra {
		m[k] = v
	}
	items := d.Items
	if items == nil {
		items = []Item{}
	}
	m["items"] = items
	bg := d.Background
	if len(bg) == 0 {
		bg = json.RawMessage(`{}`)
	}
	m["background"] = bg
	return json.Marshal(m)
}

// FindProject returns the project item called name, or nil.
func (d *Document) FindProject(name string) *Item {
	for i := range d.Items {
		if d.Items[i].IsProject() && d.Items[i].Name == name {
			return &d.Items[i]
		}
	}
	return nil
}

// ProjectNames lists project item names in document order.
func (d *Document) ProjectNames() []string {
	var names []string
	for i := range d.Items {
		if d.Items[i].IsProject() {
			names = append(names, d.Items[i].Name)
		}
	}
	return names
}

// RemoveProject drops every project item called name.
func (d *Document) RemoveProject(name string) bool {
	kept := d.Items[:0]
	removed := false
	for _, it := range d.Items {
		if it.IsProject() && it.Name == name {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	d.Items = kept
	return removed
}

// CheckOwner allows unowned items and items owned by actor.
func CheckOwner(it *Item, actor string) error {
	if it.Owner == nil || *it.Owner == actor {
		return nil
	}
	return &domain.PermissionError{Project: it.Name, Owner: *it.Owner, Actor: actor}
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
