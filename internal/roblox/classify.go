package roblox

import "strings"

// Category is the kind of upload failure, derived from the server's message.
type Category int

const (
	Unknown Category = iota
	RateLimited
	ContentFiltered
)

func (c Category) String() string {
	switch c {
	case RateLimited:
		return "rate limiting"
	case ContentFiltered:
		return "text filtering"
	default:
		return "unknown"
	}
}

// Classifier maps a failure message from the upload endpoint to a Category.
// The endpoint has no structured error codes, so rules match message text.
type Classifier func(message string) Category

// Rule matches a lower-cased substring of a failure message.
type Rule struct {
	Contains string
	Category Category
}

// DefaultRules are the message fragments the upload endpoint is known to use.
var DefaultRules = []Rule{
	{Contains: "you are uploading too much", Category: RateLimited},
	{Contains: "inappropriate", Category: ContentFiltered},
}

// RuleClassifier builds a Classifier that returns the category of the first
// rule whose fragment appears in the message, case-insensitively.
func RuleClassifier(rules ...Rule) Classifier {
	lowered := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Contains == "" {
			continue
		}
		lowered = append(lowered, Rule{Contains: strings.ToLower(r.Contains), Category: r.Category})
	}
	return func(message string) Category {
		msg := strings.ToLower(message)
		for _, r := range lowered {
			if strings.Contains(msg, r.Contains) {
				return r.Category
			}
		}
		return Unknown
	}
}

// DefaultClassifier applies DefaultRules.
var DefaultClassifier = RuleClassifier(DefaultRules...)
