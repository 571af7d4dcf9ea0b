package layout

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factoryfloor/internal/domain"
)

const sampleDoc = `{
	"items": [
		{"type": "project", "name": "P1", "x": 10, "y": 20, "width": 270, "height": 90,
		 "details": "ana", "owner": "mojca", "pinned": true, "image_path": null,
		 "status": {"total": 2}, "color": "#ff0000"},
		{"type": "label", "text": "Hall A", "x": 0, "y": 0, "font": {"size": 14}},
		{"type": "project", "name": "P2", "x": 1.5, "y": 2.5, "width": 100, "height": 50,
		 "details": "", "owner": null, "pinned": false, "image_path": "img/p2.png"}
	],
	"background": {"image": "floor.png", "opacity": 0.4},
	"version": 3,
	"server_timestamp": "10:00:00"
}`

func TestDocument_RoundTrip(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))

	require.Len(t, doc.Items, 3)
	p1 := doc.FindProject("P1")
	require.NotNil(t, p1)
	assert.Equal(t, 10.0, p1.X)
	assert.Equal(t, "mojca", *p1.Owner)
	assert.True(t, p1.Pinned)
	assert.Contains(t, p1.Extra, "color")
	assert.NotContains(t, p1.Extra, "status")

	out, err := json.Marshal(doc)
	require.NoError(t, err)

	var again Document
	require.NoError(t, json.Unmarshal(out, &again))
	if diff := cmp.Diff(normalize(t, doc), normalize(t, again)); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Equal(t, float64(3), generic["version"])
	assert.NotContains(t, generic, "server_timestamp")

	items := generic["items"].([]any)
	label := items[1].(map[string]any)
	assert.Equal(t, "Hall A", label["text"])
	assert.NotContains(t, label, "owner", "non-project items are not given project keys")

	p2 := items[2].(map[string]any)
	assert.Contains(t, p2, "owner")
	assert.Nil(t, p2["owner"])
}

// normalize turns a document into plain JSON values so raw message
// whitespace does not matter.
func normalize(t *testing.T, d Document) any {
	t.Helper()
	b, err := json.Marshal(d)
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(b, &v))
	return v
}

func TestDocument_EmptyAndInvalid(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{}`), &doc))
	assert.Empty(t, doc.Items)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"background":{}}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`[]`), &doc))
	assert.Error(t, json.Unmarshal([]byte(`{"items": {"a": 1}}`), &doc))
	assert.Error(t, json.Unmarshal([]byte(`{"items": [{"type": "project", "name": "P1", "x": "left"}]}`), &doc))
}

func TestDocument_ProjectNameMustBeString(t *testing.T) {
	for _, name := range []string{`12345`, `null`, `["P1"]`} {
		var doc Document
		err := json.Unmarshal([]byte(`{"items": [{"type": "project", "name": `+name+`, "x": 1, "y": 2}]}`), &doc)
		assert.Error(t, err, name)
	}

	// Items that are not projects are carried through whatever their keys hold.
	var doc Document
	in := `{"items": [{"type": 7, "name": 12345, "x": 1}, {"type": "label", "name": null}]}`
	require.NoError(t, json.Unmarshal([]byte(in), &doc))
	assert.Empty(t, doc.ProjectNames())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items": [{"type": 7, "name": 12345, "x": 1}, {"type": "label", "name": null}], "background": {}}`, string(out))
}

func TestDocument_ProjectHelpers(t *testing.T) {
	doc := NewDocument()
	doc.Items = append(doc.Items,
		NewProjectItem("P1", 1, 2, "", "ana"),
		Item{Type: "label", Extra: map[string]json.RawMessage{"type": json.RawMessage(`"label"`)}},
		NewProjectItem("P2", 3, 4, "bor", "ana"),
	)

	assert.Equal(t, []string{"P1", "P2"}, doc.ProjectNames())
	assert.Nil(t, doc.FindProject("P3"))

	assert.True(t, doc.RemoveProject("P1"))
	assert.False(t, doc.RemoveProject("P1"))
	assert.Equal(t, []string{"P2"}, doc.ProjectNames())
	assert.Len(t, doc.Items, 2)

	p2 := doc.FindProject("P2")
	assert.Equal(t, float64(DefaultWidth), p2.Width)
	assert.Equal(t, float64(DefaultHeight), p2.Height)
	assert.False(t, p2.Pinned)
	assert.Nil(t, p2.ImagePath)
}

func TestCheckOwner(t *testing.T) {
	owned := NewProjectItem("P1", 0, 0, "", "ana")
	shared := Item{Type: TypeProject, Name: "P2"}

	assert.NoError(t, CheckOwner(&owned, "ana"))
	assert.NoError(t, CheckOwner(&shared, "bor"))

	err := CheckOwner(&owned, "bor")
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "ana", perr.Owner)
	assert.Contains(t, err.Error(), "'ana'")
}
