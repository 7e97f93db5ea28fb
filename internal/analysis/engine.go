// Package analysis turns a crop name into a structured market analysis.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "agrisense/internal/errors"
	"agrisense/internal/inference"
	"agrisense/internal/model"
)

const promptTemplate = `
You are an Indian agriculture and crop market expert.

Given a crop name, analyze and return STRICT JSON:

{
 "sowing_season": "",
 "harvest_time": "",
 "estimated_cost_per_acre": "",
 "transport_cost_estimate": "",
 "best_selling_price_range": "",
 "profitability_comment": ""
}

Keep language simple.
All prices in INR.
`

var (
	errNoJSON     = errors.New("no JSON object in model output")
	errBadBracket = errors.New("closing brace before opening brace")
)

// Engine runs crop analyses against a text generator.
type Engine struct {
	generator inference.Generator
}

// NewEngine creates an analysis engine.
func NewEngine(generator inference.Generator) *Engine {
	return &Engine{generator: generator}
}

// BuildPrompt embeds cropName verbatim after the fixed instructions.
func BuildPrompt(cropName string) string {
	return promptTemplate + "\nCrop: " + cropName + "\nJSON:"
}

// Analyze asks the model about cropName and parses its answer. Every failure
// wraps ErrInference; no partial result is returned.
func (e *Engine) Analyze(ctx context.Context, cropName string) (model.AnalysisResult, error) {
	text, err := e.generator.Generate(ctx, BuildPrompt(cropName))
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", apperrors.ErrInference, err)
	}

	result, err := Parse(text)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", apperrors.ErrInference, err)
	}
	return result, nil
}

// Parse extracts the JSON object from generated text and decodes it.
func Parse(text string) (model.AnalysisResult, error) {
	candidate, err := ExtractJSON(text)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("parse model output: %w", err)
	}
	return result, nil
}

// ExtractJSON returns the substring from the first '{' to the last '}'.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 {
		return "", errNoJSON
	}
	if end < start {
		return "", errBadBracket
	}
	return text[start : end+1], nil
}
