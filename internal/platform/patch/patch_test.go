package patch

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  Field[string] `json:"name"`
	Notes Field[string] `json:"notes"`
	Age   Field[int]    `json:"age"`
}

func TestField_DecodeStates(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Milo","notes":null}`), &p))

	assert.True(t, p.Name.HasValue())
	assert.Equal(t, "Milo", p.Name.Value)

	assert.True(t, p.Notes.Set)
	assert.True(t, p.Notes.Null)
	assert.False(t, p.Notes.HasValue())

	assert.False(t, p.Age.Set)
}

func TestField_DecodeTypeMismatch(t *testing.T) {
	var p payload
	assert.Error(t, json.Unmarshal([]byte(`{"age":"ten"}`), &p))
}

func TestField_Apply(t *testing.T) {
	name := "old"

	Field[string]{}.Apply(&name)
	assert.Equal(t, "old", name)

	Null[string]().Apply(&name)
	assert.Equal(t, "old", name, "null must not clear a required field")

	Of("new").Apply(&name)
	assert.Equal(t, "new", name)
}

func TestField_ApplyNullable(t *testing.T) {
	v := "keep"
	notes := &v

	Field[string]{}.ApplyNullable(&notes)
	require.NotNil(t, notes)
	assert.Equal(t, "keep", *notes)

	Of("changed").ApplyNullable(&notes)
	require.NotNil(t, notes)
	assert.Equal(t, "changed", *notes)

	Null[string]().ApplyNullable(&notes)
	assert.Nil(t, notes)
}

func TestMap(t *testing.T) {
	assert.Equal(t, Field[string]{Set: true, Value: "7"}, Map(Of(7), strconv.Itoa))
	assert.Equal(t, Field[string]{Set: true, Null: true}, Map(Null[int](), strconv.Itoa))
	assert.Equal(t, Field[string]{}, Map(Field[int]{}, strconv.Itoa))
}
