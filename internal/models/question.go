package models

import (
	"fmt"
	"strings"
)

// Question is one authored scenario. Questions are loaded once from the
// catalog and never mutated afterwards.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        string   `json:"kind" yaml:"kind"`
	Prompt      string   `json:"prompt" yaml:"prompt"`
	IsPhishing  bool     `json:"is_phishing" yaml:"is_phishing"`
	Clues       []string `json:"clues" yaml:"clues"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// Verdict labels used by both front-ends.
const (
	VerdictPhish = "phish"
	VerdictLegit = "legit"
)

// VerdictLabel renders a boolean verdict as its label.
func VerdictLabel(isPhishing bool) string {
	if isPhishing {
		return VerdictPhish
	}
	return VerdictLegit
}

// ParseVerdict accepts "phish"/"legit" and a few common aliases.
func ParseVerdict(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case VerdictPhish, "phishing", "suspicious", "true", "p":
		return true, nil
	case VerdictLegit, "legitimate", "safe", "false", "l":
		return false, nil
	default:
		return false, fmt.Errorf("unknown verdict %q", s)
	}
}
