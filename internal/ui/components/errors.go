// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
)

// =============================================================================
// ERROR HINTS
// =============================================================================

// ErrorCategory groups request failures for display.
type ErrorCategory string

const (
	CategoryNetwork ErrorCategory = "Network"
	CategoryTimeout ErrorCategory = "Timeout"
	CategoryServer  ErrorCategory = "Server"
	CategoryRequest ErrorCategory = "Request"
	CategoryParse   ErrorCategory = "Parse"
	CategoryUnknown ErrorCategory = "Error"
)

// ErrorHint is a short classification of a failed request plus what the
// user can do about it.
type ErrorHint struct {
	Category   ErrorCategory
	Suggestion string
}

// hintPattern matches error text case-insensitively; any keyword hits.
type hintPattern struct {
	keywords []string
	hint     ErrorHint
}

var networkPatterns = []hintPattern{
	{
		keywords: []string{"timeout", "deadline exceeded"},
		hint:     ErrorHint{CategoryTimeout, "The backend is slow to answer. Try fewer max new tokens or raise backend.timeout."},
	},
	{
		keywords: []string{"connection refused", "no such host", "connect:", "not reachable"},
		hint:     ErrorHint{CategoryNetwork, "Is the backend running? Start one with `gemmachat serve-dev`."},
	},
	{
		keywords: []string{"decode", "malformed", "invalid character", "unexpected end"},
		hint:     ErrorHint{CategoryParse, "The backend answered with something other than the chat JSON."},
	},
}

// HintFor classifies err. It returns false for nil.
func HintFor(err error) (ErrorHint, bool) {
	if err == nil {
		return ErrorHint{}, false
	}

	var ce *backend.ClientError
	if errors.As(err, &ce) && ce.Type == backend.ErrTypeHTTP {
		switch {
		case ce.StatusCode == http.StatusTooManyRequests:
			return ErrorHint{CategoryRequest, "Rate limited. Wait a moment and send again."}, true
		case ce.StatusCode >= 500:
			return ErrorHint{CategoryServer, "The backend failed while generating. Check its log."}, true
		default:
			return ErrorHint{CategoryRequest, "The backend rejected the request."}, true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, p := range networkPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(msg, kw) {
				return p.hint, true
			}
		}
	}
	return ErrorHint{Category: CategoryUnknown}, true
}

// DescribeError renders err with its category and suggestion on one line.
func DescribeError(err error) string {
	h, ok := HintFor(err)
	if !ok {
		return ""
	}
	out := string(h.Category) + ": " + err.Error()
	if h.Suggestion != "" {
		out += ". " + h.Suggestion
	}
	return out
}
