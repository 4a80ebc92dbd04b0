// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package params holds the generation hyperparameter panel: four bounded
// sliders and the named presets that set all four at once.
package params

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gaurav3000R/gemma-chat/internal/model"
)

// Tolerance is the absolute difference under which two slider values are
// considered equal when matching presets.
const Tolerance = 1e-9

// =============================================================================
// FIELDS
// =============================================================================

// Field identifies one of the four sliders.
type Field int

const (
	FieldTemperature Field = iota
	FieldMaxNewTokens
	FieldTopP
	FieldRepetitionPenalty
)

// Fields returns the sliders in panel order.
func Fields() []Field {
	return []Field{FieldTemperature, FieldMaxNewTokens, FieldTopP, FieldRepetitionPenalty}
}

// Bounds is a slider's [min, max, step] range.
type Bounds struct {
	Min      float64
	Max      float64
	Step     float64
	Decimals int
}

var fieldBounds = map[Field]Bounds{
	FieldTemperature:       {Min: 0.01, Max: 1.5, Step: 0.01, Decimals: 2},
	FieldMaxNewTokens:      {Min: 10, Max: 2048, Step: 1, Decimals: 0},
	FieldTopP:              {Min: 0.1, Max: 1.0, Step: 0.01, Decimals: 2},
	FieldRepetitionPenalty: {Min: 1.0, Max: 2.0, Step: 0.01, Decimals: 2},
}

// Bounds returns the slider range for the field.
func (f Field) Bounds() Bounds {
	return fieldBounds[f]
}

// Key returns the wire name of the field.
func (f Field) Key() string {
	switch f {
	case FieldTemperature:
		return "temperature"
	case FieldMaxNewTokens:
		return "max_new_tokens"
	case FieldTopP:
		return "top_p"
	case FieldRepetitionPenalty:
		return "repetition_penalty"
	default:
		return "unknown"
	}
}

// Label returns the display name of the field.
func (f Field) Label() string {
	switch f {
	case FieldTemperature:
		return "Temperature"
	case FieldMaxNewTokens:
		return "Max New Tokens"
	case FieldTopP:
		return "Top-P"
	case FieldRepetitionPenalty:
		return "Repetition Penalty"
	default:
		return "Unknown"
	}
}

// Format renders a value with the field's precision.
func (f Field) Format(v float64) string {
	return strconv.FormatFloat(v, 'f', f.Bounds().Decimals, 64)
}

// ParseField resolves a field name or common alias.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_")) {
	case "temperature", "temp", "t":
		return FieldTemperature, nil
	case "max_new_tokens", "max_tokens", "max", "tokens":
		return FieldMaxNewTokens, nil
	case "top_p", "topp", "p":
		return FieldTopP, nil
	case "repetition_penalty", "rep", "penalty":
		return FieldRepetitionPenalty, nil
	default:
		return 0, fmt.Errorf("unknown parameter %q (want temperature, max_new_tokens, top_p or repetition_penalty)", name)
	}
}

// snap clamps v to the bounds and rounds it to the step grid.
func (b Bounds) snap(v float64) float64 {
	if math.IsNaN(v) {
		v = b.Min
	}
	if v < b.Min {
		v = b.Min
	}
	if v > b.Max {
		v = b.Max
	}
	factor := math.Pow(10, float64(b.Decimals))
	return math.Round(v*factor) / factor
}

// =============================================================================
// PARAMETER HELPERS
// =============================================================================

// DefaultParams returns the values the panel starts with.
func DefaultParams() model.GenerationParams {
	return model.GenerationParams{
		MaxNewTokens:      512,
		Temperature:       0.7,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
	}
}

// Equal compares two parameter bundles with Tolerance.
func Equal(a, b model.GenerationParams) bool {
	return a.MaxNewTokens == b.MaxNewTokens &&
		math.Abs(a.Temperature-b.Temperature) <= Tolerance &&
		math.Abs(a.TopP-b.TopP) <= Tolerance &&
		math.Abs(a.RepetitionPenalty-b.RepetitionPenalty) <= Tolerance
}

// InBounds reports whether every value lies within its slider range.
func InBounds(p model.GenerationParams) error {
	for _, f := range Fields() {
		b := f.Bounds()
		v := get(p, f)
		if v < b.Min-Tolerance || v > b.Max+Tolerance {
			return fmt.Errorf("%s %s out of range [%s, %s]", f.Key(), f.Format(v), f.Format(b.Min), f.Format(b.Max))
		}
	}
	return nil
}

func get(p model.GenerationParams, f Field) float64 {
	switch f {
	case FieldTemperature:
		return p.Temperature
	case FieldMaxNewTokens:
		return float64(p.MaxNewTokens)
	case FieldTopP:
		return p.TopP
	case FieldRepetitionPenalty:
		return p.RepetitionPenalty
	}
	return 0
}

func set(p *model.GenerationParams, f Field, v float64) {
	switch f {
	case FieldTemperature:
		p.Temperature = v
	case FieldMaxNewTokens:
		p.MaxNewTokens = int(math.Round(v))
	case FieldTopP:
		p.TopP = v
	case FieldRepetitionPenalty:
		p.RepetitionPenalty = v
	}
}

// =============================================================================
// PANEL
// =============================================================================

// Panel holds the current slider values and the last applied preset.
// It is not safe for concurrent use; the UI loop owns it.
type Panel struct {
	values      model.GenerationParams
	lastApplied string
}

// NewPanel creates a panel starting at the given values. Values are clamped
// to the slider bounds; if they match a preset, that preset is active.
func NewPanel(initial model.GenerationParams) *Panel {
	p := &Panel{}
	for _, f := range Fields() {
		set(&p.values, f, f.Bounds().snap(get(initial, f)))
	}
	p.lastApplied = MatchPreset(p.values)
	return p
}

// Params returns a snapshot of the current values.
func (p *Panel) Params() model.GenerationParams {
	return p.values
}

// Value returns one slider's current value.
func (p *Panel) Value(f Field) float64 {
	return get(p.values, f)
}

// Set moves one slider, clamping and snapping to its step.
func (p *Panel) Set(f Field, v float64) {
	set(&p.values, f, f.Bounds().snap(v))
}

// Nudge moves a slider by whole steps (negative steps move down).
func (p *Panel) Nudge(f Field, steps int) {
	b := f.Bounds()
	p.Set(f, p.Value(f)+float64(steps)*b.Step)
}

// ApplyPreset overwrites all four values with the bundle's literal values.
func (p *Panel) ApplyPreset(key string) error {
	preset, ok := LookupPreset(key)
	if !ok {
		return fmt.Errorf("unknown preset %q", key)
	}
	p.values = preset.Params
	p.lastApplied = preset.Key
	return nil
}

// ActivePreset returns the key of the last applied preset while the sliders
// still hold its values, otherwise CustomKey.
func (p *Panel) ActivePreset() string {
	preset, ok := LookupPreset(p.lastApplied)
	if !ok || !Equal(preset.Params, p.values) {
		return CustomKey
	}
	return preset.Key
}

// NextPreset steps delta presets away from the active one.
func (p *Panel) NextPreset(delta int) string {
	return CyclePreset(p.ActivePreset(), delta)
}

// CyclePreset returns the preset delta places after from in selector order,
// wrapping around. From "custom" or an unknown key it returns the first
// preset moving forward and the last moving backward.
func CyclePreset(from string, delta int) string {
	keys := PresetKeys()
	idx := slices.Index(keys, from)
	if idx == -1 {
		if delta < 0 {
			return keys[len(keys)-1]
		}
		return keys[0]
	}
	n := len(keys)
	return keys[((idx+delta)%n+n)%n]
}
