// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package taskstream

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Part kind discriminator values.
const (
	PartKindText = "text"
	PartKindData = "data"
)

// Part represents one typed fragment of streamed content.
// It is either a plain text segment or a structured data segment.
type Part interface {
	GetKind() string
	Validate() error
}

// TextPart is a plain text content fragment.
type TextPart struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// NewTextPart creates a text part with the given content.
func NewTextPart(text string) *TextPart {
	return &TextPart{Kind: PartKindText, Text: text}
}

// GetKind returns the part kind.
func (p TextPart) GetKind() string {
	return p.Kind
}

// Validate ensures the TextPart is valid.
func (p TextPart) Validate() error {
	if p.Kind != PartKindText {
		return fmt.Errorf("text part kind must be %q, got %q", PartKindText, p.Kind)
	}
	if p.Text == "" {
		return fmt.Errorf("text part text cannot be empty")
	}
	return nil
}

// DataPart is a structured (or binary-as-JSON) content fragment.
type DataPart struct {
	Kind string         `json:"kind"`
	Data map[string]any `json:"data"`
}

// NewDataPart creates a data part with the given payload.
func NewDataPart(data map[string]any) *DataPart {
	return &DataPart{Kind: PartKindData, Data: data}
}

// GetKind returns the part kind.
func (p DataPart) GetKind() string {
	return p.Kind
}

// Validate ensures the DataPart is valid.
func (p DataPart) Validate() error {
	if p.Kind != PartKindData {
		return fmt.Errorf("data part kind must be %q, got %q", PartKindData, p.Kind)
	}
	if p.Data == nil {
		return fmt.Errorf("data part data cannot be nil")
	}
	return nil
}

// Parts is an ordered sequence of content fragments.
type Parts []Part

// Validate ensures the sequence is non-empty and every part is valid.
func (ps Parts) Validate() error {
	if len(ps) == 0 {
		return fmt.Errorf("parts cannot be empty")
	}
	for i, p := range ps {
		if p == nil {
			return fmt.Errorf("part %d is nil", i)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
	}
	return nil
}

// UnmarshalJSON decodes the part union by probing the kind discriminator.
func (ps *Parts) UnmarshalJSON(data []byte) error {
	var raw []jsontext.Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parts := make(Parts, 0, len(raw))
	for i, value := range raw {
		var probe struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(value, &probe); err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}

		switch probe.Kind {
		case PartKindText:
			var p TextPart
			if err := json.Unmarshal(value, &p); err != nil {
				return fmt.Errorf("part %d: %w", i, err)
			}
			parts = append(parts, &p)
		case PartKindData:
			var p DataPart
			if err := json.Unmarshal(value, &p); err != nil {
				return fmt.Errorf("part %d: %w", i, err)
			}
			parts = append(parts, &p)
		default:
			return fmt.Errorf("part %d: unknown part kind %q", i, probe.Kind)
		}
	}

	*ps = parts
	return nil
}

// GetTextParts extracts the text content from all text parts in the sequence.
func GetTextParts(parts Parts) []string {
	var texts []string
	for _, p := range parts {
		if tp, ok := p.(*TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return texts
}
