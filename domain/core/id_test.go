package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestParseVersionID(t *testing.T) {
	tests := []struct {
		input    string
		expected VersionID
		hasError bool
	}{
		{"v-123", VersionID("v-123"), false},
		{"  v-123 ", VersionID("v-123"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseVersionID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if test.hasError && !IsInputError(err) {
			t.Errorf("Expected input error for '%s', got %v", test.input, err)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestParseUploadID(t *testing.T) {
	valid := NewUploadID().String()
	tests := []struct {
		input    string
		hasError bool
	}{
		{valid, false},
		{"../../etc/passwd", true},
		{"", true},
	}

	for _, test := range tests {
		_, err := ParseUploadID(test.input)
		if test.hasError != (err != nil) {
			t.Errorf("ParseUploadID(%q) error = %v, wantErr %v", test.input, err, test.hasError)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		input     bool
		notFound  bool
		query     bool
		forbidden bool
	}{
		{"empty dataset", ErrEmptyDataset, true, false, false, false},
		{"config", NewConfigError("knn_neighbors", "must be between 1 and 20"), true, false, false, false},
		{"version", NewVersionNotFoundError("abc"), false, true, false, false},
		{"syntax", ErrQuerySyntax, false, false, true, false},
		{"forbidden", NewQueryForbiddenError("DROP"), false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsInputError(tt.err) != tt.input {
				t.Errorf("IsInputError = %v, want %v", !tt.input, tt.input)
			}
			if IsNotFoundError(tt.err) != tt.notFound {
				t.Errorf("IsNotFoundError = %v, want %v", !tt.notFound, tt.notFound)
			}
			if IsQueryError(tt.err) != tt.query {
				t.Errorf("IsQueryError = %v, want %v", !tt.query, tt.query)
			}
			if IsForbiddenError(tt.err) != tt.forbidden {
				t.Errorf("IsForbiddenError = %v, want %v", !tt.forbidden, tt.forbidden)
			}
		})
	}
}
