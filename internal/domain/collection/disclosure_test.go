package collection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisclosure_Toggle(t *testing.T) {
	d := NewDisclosure()

	assert.True(t, d.Toggle("a"))
	assert.True(t, d.IsOpen("a"))
	assert.False(t, d.Toggle("a"))
	assert.False(t, d.IsOpen("a"))
}

func TestDisclosure_ZeroValueIsUsable(t *testing.T) {
	var d Disclosure
	d.Open("x")
	assert.True(t, d.IsOpen("x"))
	d.Close("x")
	assert.Equal(t, 0, d.Len())
}

func TestDisclosure_Retain(t *testing.T) {
	d := NewDisclosure("a", "b", "c")
	d.Retain([]string{"b", "z"})
	assert.Equal(t, []string{"b"}, d.IDs())
}

func TestDisclosure_JSON(t *testing.T) {
	d := NewDisclosure("b", "a")

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(raw))

	var back Disclosure
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.IsOpen("a"))
	assert.True(t, back.IsOpen("b"))
}
