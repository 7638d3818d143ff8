package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"

	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// maxFlagTypoDistance bounds how far a misspelled flag value can be from a
// valid choice before suggestFlagValue gives up rather than guessing wildly.
const maxFlagTypoDistance = 3

// validateFlagChoice checks got against the allowed choices for a flag,
// returning an error with a "did you mean" suggestion via Levenshtein
// distance when got is a near-miss typo rather than a valid value.
func validateFlagChoice(flag, got string, choices []string) error {
	for _, c := range choices {
		if got == c {
			return nil
		}
	}

	msg := fmt.Sprintf("invalid --%s value %q (choices: %s)", flag, got, strings.Join(choices, ", "))
	if suggestion := suggestFlagValue(got, choices); suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return coreerr.New(coreerr.ErrInvalidInput.Kind, coreerr.ErrInvalidInput.Code, msg)
}

// suggestFlagValue returns the choice closest to input by Levenshtein
// distance, or "" if every choice is farther than maxFlagTypoDistance.
func suggestFlagValue(input string, choices []string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string

	for _, choice := range choices {
		dist := levenshtein.ComputeDistance(input, choice)
		if dist < minDist {
			minDist = dist
			suggestion = choice
		}
	}

	if minDist <= maxFlagTypoDistance {
		return suggestion
	}
	return ""
}
