package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"sowing_season":            "Sowing Season",
		"estimated_cost_per_acre":  "Estimated Cost Per Acre",
		"best_selling_price_range": "Best Selling Price Range",
		"profitability_comment":    "Profitability Comment",
		"notes":                    "Notes",
	}
	for key, want := range tests {
		assert.Equal(t, want, Label(key), key)
	}
}

func TestAnalysisResult_FieldsOrder(t *testing.T) {
	r := NewAnalysisResult(map[string]string{
		"profitability_comment":    "Good",
		"zeta":                     "z",
		"harvest_time":             "Oct",
		"sowing_season":            "June",
		"alpha":                    "a",
		"best_selling_price_range": "1800-2200",
	})

	var keys []string
	for _, f := range r.Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		"sowing_season",
		"harvest_time",
		"best_selling_price_range",
		"profitability_comment",
		"alpha",
		"zeta",
	}, keys)
	assert.Equal(t, "Harvest Time", r.Fields()[1].Label)
}

func TestAnalysisResult_UnmarshalKeepsNonStringsAsText(t *testing.T) {
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"sowing_season":"June","estimated_cost_per_acre":15000,"extra":{"a": [1, 2]},"flag":true}`), &r))

	v, ok := r.Get("estimated_cost_per_acre")
	assert.True(t, ok)
	assert.Equal(t, "15000", v)

	v, _ = r.Get("extra")
	assert.Equal(t, `{"a":[1,2]}`, v)

	v, _ = r.Get("flag")
	assert.Equal(t, "true", v)
	assert.Equal(t, 4, r.Len())
}

func TestAnalysisResult_UnmarshalRejectsNonObjects(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"text"`, `null`, `42`} {
		var r AnalysisResult
		assert.Error(t, json.Unmarshal([]byte(in), &r), in)
	}
}

func TestAnalysisResult_IsACopy(t *testing.T) {
	src := map[string]string{"sowing_season": "June"}
	r := NewAnalysisResult(src)
	src["sowing_season"] = "July"

	m := r.Map()
	m["sowing_season"] = "August"

	v, _ := r.Get("sowing_season")
	assert.Equal(t, "June", v)
}

func TestCropQuery_RoundTripsResult(t *testing.T) {
	r := NewAnalysisResult(map[string]string{"sowing_season": "June", "harvest_time": "Oct"})
	q, err := NewCropQuery("a@b.com", RoleUser, "Tomato", r, time.Unix(0, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sowing_season":"June","harvest_time":"Oct"}`, q.Result)

	back, err := q.Analysis()
	require.NoError(t, err)
	assert.Equal(t, r.Map(), back.Map())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)
	assert.True(t, r.IsAdmin())

	r, ok = ParseRole("User")
	assert.True(t, ok)
	assert.False(t, r.IsAdmin())

	_, ok = ParseRole("root")
	assert.False(t, ok)
}
