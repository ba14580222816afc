package jsonpatch

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestDiffObjects(t *testing.T) {
	a := decode(t, `{"summary":{"estimated_payout":12600,"out_of_pocket_expense":5900},"gone":1,"a/b":true}`)
	b := decode(t, `{"summary":{"estimated_payout":16200,"out_of_pocket_expense":2300},"new":"x","a/b":true}`)

	fwd, bwd := DiffBoth(a, b, "")

	assert.Equal(t, []Op{
		{"op": "remove", "path": "/gone"},
		{"op": "add", "path": "/new", "value": "x"},
		{"op": "replace", "path": "/summary/estimated_payout", "value": float64(16200)},
		{"op": "replace", "path": "/summary/out_of_pocket_expense", "value": float64(2300)},
	}, fwd)
	assert.Equal(t, []Op{
		{"op": "add", "path": "/gone", "value": float64(1)},
		{"op": "remove", "path": "/new"},
		{"op": "replace", "path": "/summary/estimated_payout", "value": float64(12600)},
		{"op": "replace", "path": "/summary/out_of_pocket_expense", "value": float64(5900)},
	}, bwd)
}

func TestDiffArrays(t *testing.T) {
	a := decode(t, `[1,2,3]`)
	b := decode(t, `[1,5]`)

	assert.Equal(t, []Op{
		{"op": "replace", "path": "/1", "value": float64(5)},
		{"op": "remove", "path": "/2"},
	}, forward(a, b, ""))

	assert.Equal(t, []Op{
		{"op": "replace", "path": "/1", "value": float64(2)},
		{"op": "add", "path": "/2", "value": float64(3)},
	}, forward(b, a, ""))
}

func TestDiffTypeChangeAndEqual(t *testing.T) {
	assert.Equal(t, []Op{{"op": "replace", "path": "/advice", "value": []any{}}},
		forward(decode(t, `{"advice":null}`), decode(t, `{"advice":[]}`), ""))
	assert.Nil(t, forward(decode(t, `{"x":[1,{"y":2}]}`), decode(t, `{"x":[1,{"y":2}]}`), ""))
	assert.Equal(t, []Op{{"op": "replace", "path": "/x", "value": "1"}},
		forward(decode(t, `{"x":{"a":1}}`), decode(t, `{"x":"1"}`), ""))
}

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, "a~1b~0c", escapeKey("a/b~c"))
}

func forward(a, b any, path string) []Op {
	fwd, _ := DiffBoth(a, b, path)
	return fwd
}
