package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLastWriteWins(t *testing.T) {
	r := New()
	r.Set("seed", 1)
	r.Set("steps", 30)
	r.Set("seed", 99)

	v, ok := r.Get("seed")
	require.True(t, ok)
	assert.Equal(t, 99, v)
	assert.Equal(t, []string{"seed", "steps"}, r.Keys(), "repeated key keeps original position")
	assert.Equal(t, 2, r.Len())
}

func TestMerge(t *testing.T) {
	base := New()
	base.Set("seed", 1)
	base.Set("cfg_scale", 7.5)

	later := New()
	later.Set("seed", 2)
	later.Set("generation_mode", "txt2img")

	base.Merge(later)

	v, _ := base.Get("seed")
	assert.Equal(t, 2, v, "later merge wins per key")
	assert.Equal(t, []string{"seed", "cfg_scale", "generation_mode"}, base.Keys())
}

func TestMarshalJSONOrdered(t *testing.T) {
	r := New()
	r.Set("b", 2)
	r.Set("a", 1)
	r.Set("c", "x")

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1,"c":"x"}`, string(raw))
}

func TestMarshalJSONEmpty(t *testing.T) {
	raw, err := json.Marshal(New())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}
