package classifier

import (
	"context"
	"encoding/json"
)

// MockClassifier replies with a fixed raw payload, for tests and local
// development.
type MockClassifier struct {
	Raw json.RawMessage
	Err error
}

// NewMockClassifier returns a classifier that always replies with raw.
func NewMockClassifier(raw json.RawMessage) *MockClassifier {
	return &MockClassifier{Raw: raw}
}

func (m *MockClassifier) Available() bool { return true }

func (m *MockClassifier) Classify(context.Context, string) (json.RawMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Raw, nil
}
