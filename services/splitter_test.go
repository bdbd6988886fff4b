package services

import (
	"strings"
	"testing"
)

func TestSplitTaggedDescriptions(t *testing.T) {
	input := strings.Join([]string{
		"9780002005883 A novel about an aging preacher in Iowa.",
		"",
		`"9780002261982" A sweeping family saga.`,
		"9780006163831\tA detective story set in a quiet village.",
	}, "\n")

	descriptions, err := SplitTaggedDescriptions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(descriptions) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(descriptions))
	}

	expectedISBNs := []int64{9780002005883, 9780002261982, 9780006163831}
	for i, isbn := range expectedISBNs {
		if descriptions[i].ISBN13 != isbn {
			t.Errorf("Record %d: ISBN = %d, want %d", i, descriptions[i].ISBN13, isbn)
		}
	}

	// text keeps the full line, leading token included
	if !strings.HasPrefix(descriptions[0].Text, "9780002005883 ") {
		t.Errorf("Record 0 text lost its leading token: %q", descriptions[0].Text)
	}
}

func TestSplitTaggedDescriptionsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "non-numeric leading token",
			input: "not-an-isbn some description text",
		},
		{
			name:  "missing isbn entirely",
			input: "A description with no tag at all?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SplitTaggedDescriptions(strings.NewReader(tt.input)); err == nil {
				t.Fatal("Expected an error for malformed line")
			}
		})
	}
}

func TestSplitTaggedDescriptionsEmptyInput(t *testing.T) {
	descriptions, err := SplitTaggedDescriptions(strings.NewReader("\n\n"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(descriptions) != 0 {
		t.Fatalf("Expected 0 records, got %d", len(descriptions))
	}
}
