// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package params

import "github.com/gaurav3000R/gemma-chat/internal/model"

// Preset is a named, fixed bundle of hyperparameter values.
type Preset struct {
	Key         string
	Label       string
	Description string
	Params      model.GenerationParams
}

// CustomKey is reported as the active preset when no bundle matches.
const CustomKey = "custom"

// presets is ordered as shown in the preset selector.
var presets = []Preset{
	{
		Key:         "concise_answer",
		Label:       "Concise Answer",
		Description: "Gives short and direct factual responses.",
		Params:      model.GenerationParams{MaxNewTokens: 100, Temperature: 0.2, TopP: 0.9, RepetitionPenalty: 1.05},
	},
	{
		Key:         "detailed_explanation",
		Label:       "Detailed Explanation",
		Description: "Provides longer, well-structured explanations with details.",
		Params:      model.GenerationParams{MaxNewTokens: 300, Temperature: 0.5, TopP: 0.95, RepetitionPenalty: 1.05},
	},
	{
		Key:         "creative_writing",
		Label:       "Creative Writing",
		Description: "Generates stories, poems, and imaginative text.",
		Params:      model.GenerationParams{MaxNewTokens: 400, Temperature: 1.0, TopP: 0.95, RepetitionPenalty: 1.0},
	},
	{
		Key:         "brainstorming",
		Label:       "Brainstorming",
		Description: "Suggests multiple ideas, options, or approaches.",
		Params:      model.GenerationParams{MaxNewTokens: 250, Temperature: 0.9, TopP: 1.0, RepetitionPenalty: 1.05},
	},
	{
		Key:         "summarization",
		Label:       "Summarization",
		Description: "Condenses long text into short and clear summaries.",
		Params:      model.GenerationParams{MaxNewTokens: 120, Temperature: 0.3, TopP: 0.85, RepetitionPenalty: 1.1},
	},
	{
		Key:         "translation",
		Label:       "Translation",
		Description: "Translates text between languages with high accuracy.",
		Params:      model.GenerationParams{MaxNewTokens: 200, Temperature: 0.4, TopP: 0.9, RepetitionPenalty: 1.0},
	},
	{
		Key:         "code_generation",
		Label:       "Code Generation",
		Description: "Writes code snippets or fixes programming errors.",
		Params:      model.GenerationParams{MaxNewTokens: 250, Temperature: 0.3, TopP: 0.85, RepetitionPenalty: 1.1},
	},
	{
		Key:         "step_by_step_reasoning",
		Label:       "Step-by-Step Reasoning",
		Description: "Solves math, logic, or technical problems step by step.",
		Params:      model.GenerationParams{MaxNewTokens: 300, Temperature: 0.4, TopP: 0.9, RepetitionPenalty: 1.05},
	},
	{
		Key:         "storytelling",
		Label:       "Storytelling",
		Description: "Writes long narrative stories with creativity.",
		Params:      model.GenerationParams{MaxNewTokens: 500, Temperature: 1.1, TopP: 0.98, RepetitionPenalty: 1.0},
	},
	{
		Key:         "bullet_points",
		Label:       "Bullet Points",
		Description: "Structures answers as lists or outlines.",
		Params:      model.GenerationParams{MaxNewTokens: 150, Temperature: 0.4, TopP: 0.85, RepetitionPenalty: 1.1},
	},
	{
		Key:         "qa_factual",
		Label:       "Strict Q&A",
		Description: "Answers with only factual information, no creativity.",
		Params:      model.GenerationParams{MaxNewTokens: 120, Temperature: 0.2, TopP: 0.8, RepetitionPenalty: 1.1},
	},
	{
		Key:         "chatty_casual",
		Label:       "Chatty & Casual",
		Description: "Acts like a friendly chatbot with informal responses.",
		Params:      model.GenerationParams{MaxNewTokens: 250, Temperature: 0.8, TopP: 0.95, RepetitionPenalty: 1.0},
	},
}

// Presets returns the preset bundles in selector order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetKeys returns the preset keys in selector order.
func PresetKeys() []string {
	keys := make([]string, len(presets))
	for i, p := range presets {
		keys[i] = p.Key
	}
	return keys
}

// LookupPreset finds a preset by key.
func LookupPreset(key string) (Preset, bool) {
	for _, p := range presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// MatchPreset returns the key of the first preset whose four values equal p
// within Tolerance, or CustomKey.
func MatchPreset(p model.GenerationParams) string {
	for _, preset := range presets {
		if Equal(preset.Params, p) {
			return preset.Key
		}
	}
	return CustomKey
}

// PresetLabel returns the display label for a key, "Custom" for CustomKey.
func PresetLabel(key string) string {
	if preset, ok := LookupPreset(key); ok {
		return preset.Label
	}
	return "Custom"
}
