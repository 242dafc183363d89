package keycase

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/villekah/pg-promise/pgtask"
)

func TestCamel(t *testing.T) {
	in := []pgtask.Row{
		{"user_id": 1, "first_name": "Bob"},
		{"user_id": 2, "first_name": "Sue"},
	}
	got := Camel().Convert(in)
	assert.DeepEqual(t, got, []pgtask.Row{
		{"userId": 1, "firstName": "Bob"},
		{"userId": 2, "firstName": "Sue"},
	})
	// the input rows are untouched
	assert.DeepEqual(t, in[0], pgtask.Row{"user_id": 1, "first_name": "Bob"})
}

func TestSnake(t *testing.T) {
	got := Snake().Convert([]pgtask.Row{{"userId": 1, "firstName": "Bob"}})
	assert.DeepEqual(t, got, []pgtask.Row{{"user_id": 1, "first_name": "Bob"}})
}

func TestConvert_Empty(t *testing.T) {
	assert.DeepEqual(t, Camel().Convert([]pgtask.Row{}), []pgtask.Row{})
}
