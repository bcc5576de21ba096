package render

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_Render(t *testing.T) {
	out := NewJSON("run-1").Render(samplePatterns())

	var doc struct {
		Version  string `json:"version"`
		RunID    string `json:"run_id"`
		Patterns []struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, "run-1", doc.RunID)

	var types []string
	for _, p := range doc.Patterns {
		types = append(types, p.Type)
	}
	assert.Equal(t, []string{
		"summary", "section", "summary", "leaderboard", "section", "pie", "section", "leaderboard",
	}, types)

	var board struct {
		Label string
		Items []struct {
			Name  string
			Value float64
			Rank  int
		}
	}
	require.NoError(t, json.Unmarshal(doc.Patterns[3].Data, &board))
	assert.Equal(t, "Total Order by Payment Type", board.Label)
	require.Len(t, board.Items, 4)
	assert.Equal(t, "Credit Card", board.Items[0].Name)
	assert.Equal(t, 76795.0, board.Items[0].Value)
}

func TestJSON_GeneratesRunID(t *testing.T) {
	out := NewJSON("").Render(nil)

	var doc struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	_, err := uuid.Parse(doc.RunID)
	assert.NoError(t, err)
}
