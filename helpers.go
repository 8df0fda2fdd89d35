// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package taskstream

import (
	"strings"

	"github.com/google/uuid"
)

// NewTaskID generates a new opaque task identifier.
func NewTaskID() string {
	return "task_" + shortID()
}

// NewContextID generates a new opaque context identifier.
func NewContextID() string {
	return "ctx_" + shortID()
}

// shortID returns the first eight hex characters of a random UUID.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// TextContent joins the text content of all text parts using the delimiter.
func TextContent(parts Parts, delimiter string) string {
	return strings.Join(GetTextParts(parts), delimiter)
}

// NewTextParts builds a parts sequence with one text part per string.
func NewTextParts(texts ...string) Parts {
	parts := make(Parts, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, NewTextPart(t))
	}
	return parts
}
