package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPlan struct {
	Interventions []struct {
		Lot   string `json:"lot"`
		Title string `json:"title"`
	} `json:"interventions"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	result, err := ExtractJSON[testPlan](`{"interventions":[{"lot":"Gros oeuvre","title":"Fondations"}]}`, nil)
	require.NoError(t, err)
	require.Len(t, result.Interventions, 1)
	assert.Equal(t, "Fondations", result.Interventions[0].Title)
}

func TestExtractJSON_FencedWithProse(t *testing.T) {
	raw := "Here is the schedule:\n```json\n{\"interventions\":[{\"lot\":\"Electricite\",\"title\":\"Gaines\"}]}\n```\nGood luck!"
	result, err := ExtractJSON[testPlan](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Electricite", result.Interventions[0].Lot)
}

func TestExtractJSON_CommentsAndTrailingCommas(t *testing.T) {
	raw := `{
		// first phase
		"interventions": [
			{"lot": "Gros oeuvre", "title": "Dalle // not a comment", },
			/* second */ {"lot": "Toiture", "title": "Charpente"},
		],
	}`
	result, err := ExtractJSON[testPlan](raw, nil)
	require.NoError(t, err)
	require.Len(t, result.Interventions, 2)
	assert.Equal(t, "Dalle // not a comment", result.Interventions[0].Title)
	assert.Equal(t, "Toiture", result.Interventions[1].Lot)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	result, err := ExtractJSON[testPlan](`{"interventions":[{"lot":"A","title":"use {braces} \"quoted\""}]} trailing }`, nil)
	require.NoError(t, err)
	assert.Equal(t, `use {braces} "quoted"`, result.Interventions[0].Title)
}

func TestExtractJSON_Failures(t *testing.T) {
	_, err := ExtractJSON[testPlan]("I cannot plan this site.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	_, err = ExtractJSON[testPlan](`{"interventions": broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	_, err = ExtractJSON[testPlan](`{"interventions": [`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Validator(t *testing.T) {
	nonEmpty := func(p testPlan) error {
		if len(p.Interventions) == 0 {
			return fmt.Errorf("no interventions")
		}
		return nil
	}
	_, err := ExtractJSON[testPlan](`{"interventions":[]}`, nonEmpty)
	require.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "no interventions")
}
