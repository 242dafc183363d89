package sqlgen

import (
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func TestInsert(t *testing.T) {
	sql, args, err := Insert("peeps",
		[]string{"id", "name"},
		[]map[string]any{
			{"id": 1, "name": "Bob"},
			{"id": 2, "name": "Sue"},
		})
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(sql, "INSERT INTO peeps (id,name) VALUES ($1,$2),($3,$4)"))
	assert.DeepEqual(t, args, []any{1, "Bob", 2, "Sue"})
}

func TestInsert_MissingColumn(t *testing.T) {
	_, _, err := Insert("peeps",
		[]string{"id", "name"},
		[]map[string]any{{"id": 1}})
	assert.ErrorContains(t, err, `row 0 has no value for column "name"`)
}

func TestInsert_RequiresColumnsAndRows(t *testing.T) {
	_, _, err := Insert("peeps", nil, []map[string]any{{"id": 1}})
	assert.ErrorContains(t, err, "at least one column")

	_, _, err = Insert("peeps", []string{"id"}, nil)
	assert.ErrorContains(t, err, "at least one row")
}

func TestUpdate(t *testing.T) {
	sql, args, err := Update("peeps",
		map[string]any{"name": "Bob"},
		map[string]any{"id": 7})
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(sql, "UPDATE peeps SET name = $1 WHERE id = $2"))
	assert.DeepEqual(t, args, []any{"Bob", 7})
}

func TestUpdate_NoWhere(t *testing.T) {
	sql, args, err := Update("peeps", map[string]any{"name": "Bob"}, nil)
	assert.NilError(t, err)
	assert.Check(t, cmp.Equal(sql, "UPDATE peeps SET name = $1"))
	assert.DeepEqual(t, args, []any{"Bob"})
}

func TestUpdate_RequiresSet(t *testing.T) {
	_, _, err := Update("peeps", nil, nil)
	assert.ErrorContains(t, err, "at least one column to set")
}
