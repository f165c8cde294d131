package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ClassifyRequest is the body of POST /classify on a generated inference service.
type ClassifyRequest struct {
	// Texts to classify.
	// example: ["Central bank raises key rate"]
	Texts []string `json:"texts"`
	// Candidate labels, shared by all texts or given per text.
	Labels Labels `json:"labels" swaggertype:"array,string"`
	// Optional inference batch size; the service picks one when omitted.
	// example: 5
	BatchSize int `json:"batch_size,omitempty" example:"5"`
}

// ClassifyResponse holds one predicted label per input text, in input order.
type ClassifyResponse struct {
	// example: ["economy"]
	Result []string `json:"result"`
}

// Validate checks the request before it is sent.
func (r ClassifyRequest) Validate() error {
	if len(r.Texts) == 0 {
		return errors.New("texts is required")
	}
	if r.BatchSize < 0 {
		return fmt.Errorf("batch_size must be positive, got %d", r.BatchSize)
	}
	return r.Labels.Validate(len(r.Texts))
}

// LabelsKind tells the two label shapes apart.
type LabelsKind int

const (
	// SharedLabels: one label set applies to every text.
	SharedLabels LabelsKind = iota + 1
	// PerItemLabels: labels[i] applies to texts[i].
	PerItemLabels
)

// Labels is either a shared label set or per-text label sets. The shape is
// decided once when the value is built or decoded.
type Labels struct {
	kind    LabelsKind
	shared  []string
	perItem [][]string
}

// Shared returns labels applied to every text.
func Shared(labels ...string) Labels {
	return Labels{kind: SharedLabels, shared: append([]string(nil), labels...)}
}

// PerItem returns labels aligned with texts.
func PerItem(labels [][]string) Labels {
	cp := make([][]string, len(labels))
	for i, l := range labels {
		cp[i] = append([]string(nil), l...)
	}
	return Labels{kind: PerItemLabels, perItem: cp}
}

// Kind reports the label shape; zero means unset.
func (l Labels) Kind() LabelsKind { return l.kind }

// For returns the candidate labels for text i.
func (l Labels) For(i int) []string {
	switch l.kind {
	case SharedLabels:
		return l.shared
	case PerItemLabels:
		if i >= 0 && i < len(l.perItem) {
			return l.perItem[i]
		}
	}
	return nil
}

// Validate checks the labels against n texts.
func (l Labels) Validate(n int) error {
	switch l.kind {
	case SharedLabels:
		if len(l.shared) == 0 {
			return errors.New("labels must not be empty")
		}
	case PerItemLabels:
		if len(l.perItem) != n {
			return fmt.Errorf("per-text labels: got %d sets for %d texts", len(l.perItem), n)
		}
		for i, set := range l.perItem {
			if len(set) == 0 {
				return fmt.Errorf("per-text labels: set %d is empty", i)
			}
		}
	default:
		return errors.New("labels is required")
	}
	return nil
}

// MarshalJSON writes a flat list for shared labels and a list of lists otherwise.
func (l Labels) MarshalJSON() ([]byte, error) {
	switch l.kind {
	case SharedLabels:
		return json.Marshal(l.shared)
	case PerItemLabels:
		return json.Marshal(l.perItem)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts ["a","b"] or [["a","b"],["c"]].
func (l *Labels) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	if len(items) == 0 {
		*l = Labels{}
		return errors.New("labels: empty list")
	}
	if first := bytes.TrimSpace(items[0]); len(first) > 0 && first[0] == '[' {
		var per [][]string
		if err := json.Unmarshal(data, &per); err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		*l = Labels{kind: PerItemLabels, perItem: per}
		return nil
	}
	var shared []string
	if err := json.Unmarshal(data, &shared); err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	*l = Labels{kind: SharedLabels, shared: shared}
	return nil
}
