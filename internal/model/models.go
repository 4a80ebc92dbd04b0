// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// =============================================================================
// GENERATION PARAMETERS
// =============================================================================

// GenerationParams are the four sampling knobs passed through to the backend.
type GenerationParams struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// String formats the parameters compactly for status lines.
func (p GenerationParams) String() string {
	return fmt.Sprintf("T=%.2f top_p=%.2f max=%d rep=%.2f",
		p.Temperature, p.TopP, p.MaxNewTokens, p.RepetitionPenalty)
}

// =============================================================================
// MODEL METADATA
// =============================================================================

// ModelMeta describes the model that produced a response.
type ModelMeta struct {
	Model  string `json:"model"`
	Device string `json:"device"`
	Dtype  string `json:"dtype"`
}

// String returns "model (device, dtype)", omitting empty parts.
func (m ModelMeta) String() string {
	switch {
	case m.Device != "" && m.Dtype != "":
		return fmt.Sprintf("%s (%s, %s)", m.Model, m.Device, m.Dtype)
	case m.Device != "":
		return fmt.Sprintf("%s (%s)", m.Model, m.Device)
	default:
		return m.Model
	}
}
