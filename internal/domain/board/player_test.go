package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpponent(t *testing.T) {
	assert.Equal(t, White, Black.Opponent())
	assert.Equal(t, Black, White.Opponent())
	assert.Equal(t, none, none.Opponent())
}

func TestParsePlayer(t *testing.T) {
	for in, want := range map[string]Player{"black": Black, "B": Black, " White ": White, "w": White} {
		got, err := ParsePlayer(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePlayer("red")
	assert.Error(t, err)
}

func TestPlayerJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		P Player `json:"p"`
	}{White})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"white"}`, string(out))

	var in struct {
		P Player `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p":"black"}`), &in))
	assert.Equal(t, Black, in.P)

	_, err = json.Marshal(struct{ P Player }{none})
	assert.Error(t, err)
}
