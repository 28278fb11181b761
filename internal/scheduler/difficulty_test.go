package scheduler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{input: "again", want: Again},
		{input: "Hard", want: Hard},
		{input: " GOOD ", want: Good},
		{input: "easy", want: Easy},
		{input: "", wantErr: true},
		{input: "medium", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficulty_String(t *testing.T) {
	assert.Equal(t, "again", Again.String())
	assert.Equal(t, "easy", Easy.String())
	assert.Equal(t, "Difficulty(7)", Difficulty(7).String())
}

func TestDifficulty_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		D Difficulty `json:"d"`
	}{D: Hard})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"hard"}`, string(data))

	var got struct {
		D Difficulty `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"good"}`), &got))
	assert.Equal(t, Good, got.D)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"d":"okay"}`), &got), ErrInvalidDifficulty)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"d":3}`), &got), ErrInvalidDifficulty)

	_, err = json.Marshal(Difficulty(0))
	assert.Error(t, err)
}

func TestDifficulty_YAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]Difficulty{"d": Easy})
	require.NoError(t, err)
	assert.Equal(t, "d: easy\n", string(data))

	var got map[string]Difficulty
	require.NoError(t, yaml.Unmarshal([]byte("d: again\n"), &got))
	assert.Equal(t, Again, got["d"])

	assert.ErrorIs(t, yaml.Unmarshal([]byte("d: never\n"), &got), ErrInvalidDifficulty)
}
