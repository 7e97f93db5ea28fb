package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Keys of the six fields the model is asked for, in display order.
const (
	FieldSowingSeason          = "sowing_season"
	FieldHarvestTime           = "harvest_time"
	FieldEstimatedCostPerAcre  = "estimated_cost_per_acre"
	FieldTransportCostEstimate = "transport_cost_estimate"
	FieldBestSellingPriceRange = "best_selling_price_range"
	FieldProfitabilityComment  = "profitability_comment"
)

// AnalysisFields lists the defined keys in display order.
var AnalysisFields = []string{
	FieldSowingSeason,
	FieldHarvestTime,
	FieldEstimatedCostPerAcre,
	FieldTransportCostEstimate,
	FieldBestSellingPriceRange,
	FieldProfitabilityComment,
}

var errNotObject = errors.New("analysis result must be a JSON object")

// AnalysisResult is the parsed model answer for one crop. The zero value is empty.
// It is never modified after construction.
type AnalysisResult struct {
	fields map[string]string
}

// Field is one labelled entry of an AnalysisResult.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// NewAnalysisResult copies m into a new result.
func NewAnalysisResult(m map[string]string) AnalysisResult {
	fields := make(map[string]string, len(m))
	for k, v := range m {
		fields[k] = v
	}
	return AnalysisResult{fields: fields}
}

// Get returns the value stored under key.
func (r AnalysisResult) Get(key string) (string, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Len returns the number of keys, defined or not.
func (r AnalysisResult) Len() int {
	return len(r.fields)
}

// Map returns a copy of the underlying key/value pairs.
func (r AnalysisResult) Map() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Fields returns the labelled entries: the defined keys in display order
// (absent ones skipped), then any other keys sorted by name.
func (r AnalysisResult) Fields() []Field {
	out := make([]Field, 0, len(r.fields))
	known := make(map[string]bool, len(AnalysisFields))
	for _, key := range AnalysisFields {
		known[key] = true
		if v, ok := r.fields[key]; ok {
			out = append(out, Field{Key: key, Label: Label(key), Value: v})
		}
	}

	extra := make([]string, 0)
	for key := range r.fields {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		out = append(out, Field{Key: key, Label: Label(key), Value: r.fields[key]})
	}
	return out
}

// MarshalJSON encodes the result as a flat JSON object.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

// UnmarshalJSON accepts any JSON object. String values are kept verbatim;
// other values are kept as their compact JSON text.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotObject
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[k] = s
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return err
		}
		fields[k] = buf.String()
	}
	r.fields = fields
	return nil
}

// Label turns a field key into display text: "harvest_time" becomes "Harvest Time".
func Label(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}
