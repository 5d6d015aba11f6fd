package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRules_Normalize(t *testing.T) {
	in := FilterRules{
		Status:    []string{"Watched", "completed", " in_progress "},
		MediaType: []string{"tv", "movie", "series"},
		Labels:    []string{" Cozy ", "cozy", ""},
		Genres:    []string{"Drama"},
	}

	out, err := in.Normalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"finished", "watching"}, out.Status)
	assert.Equal(t, []string{"show", "movie"}, out.MediaType)
	assert.Equal(t, []string{"cozy"}, out.Labels)
	assert.Equal(t, []string{"drama"}, out.Genres)
	// The receiver is left untouched.
	assert.Equal(t, "Watched", in.Status[0])
}

func TestFilterRules_NormalizeRejectsUnknown(t *testing.T) {
	_, err := FilterRules{Status: []string{"abandoned"}}.Normalize()
	assert.ErrorContains(t, err, "abandoned")

	_, err = FilterRules{MediaType: []string{"podcast"}}.Normalize()
	assert.ErrorContains(t, err, "podcast")
}

func TestUnmatchableRules_SurviveLenient(t *testing.T) {
	out := UnmatchableRules().Lenient()
	assert.Equal(t, []string{unmatchable}, out.Status)
}

func TestFilterRules_Lenient(t *testing.T) {
	out := FilterRules{Status: []string{"abandoned", "planned"}}.Lenient()
	assert.Equal(t, []string{"watchlist"}, out.Status)

	// Every value unknown: the set matches nothing instead of disappearing.
	out = FilterRules{MediaType: []string{"podcast"}}.Lenient()
	assert.Equal(t, []string{unmatchable}, out.MediaType)
	assert.False(t, out.IsEmpty())
}

func TestFilterRules_IsEmpty(t *testing.T) {
	assert.True(t, FilterRules{}.IsEmpty())
	assert.True(t, FilterRules{Status: []string{}}.IsEmpty())

	no := false
	assert.True(t, FilterRules{IsFavorite: &no}.IsEmpty())

	yes := true
	assert.False(t, FilterRules{IsFavorite: &yes}.IsEmpty())

	year := 2020
	assert.False(t, FilterRules{WatchedYear: &year}.IsEmpty())
}
