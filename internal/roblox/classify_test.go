package roblox

import "testing"

func TestDefaultClassifier(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected Category
	}{
		{name: "rate limit", message: "You are uploading too much, please try again later.", expected: RateLimited},
		{name: "rate limit upper case", message: "YOU ARE UPLOADING TOO MUCH", expected: RateLimited},
		{name: "inappropriate", message: "Inappropriate name or description.", expected: ContentFiltered},
		{name: "other", message: "Something went wrong", expected: Unknown},
		{name: "empty", message: "", expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultClassifier(tt.message); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRuleClassifier_FirstMatchWins(t *testing.T) {
	classify := RuleClassifier(
		Rule{Contains: "flood", Category: RateLimited},
		Rule{Contains: "", Category: ContentFiltered},
		Rule{Contains: "FLOOD of bad words", Category: ContentFiltered},
	)

	if got := classify("a flood of bad words"); got != RateLimited {
		t.Errorf("Expected %v, got %v", RateLimited, got)
	}
	if got := classify("anything else"); got != Unknown {
		t.Errorf("Expected %v, got %v", Unknown, got)
	}
}

func TestCategoryString(t *testing.T) {
	if RateLimited.String() != "rate limiting" {
		t.Errorf("unexpected %q", RateLimited.String())
	}
	if ContentFiltered.String() != "text filtering" {
		t.Errorf("unexpected %q", ContentFiltered.String())
	}
	if Unknown.String() != "unknown" {
		t.Errorf("unexpected %q", Unknown.String())
	}
}
