// Package classify maps a registration number to the question the candidate
// has to solve.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	OddQuestion  = "Question 1 (Odd)"
	EvenQuestion = "Question 2 (Even)"

	UnparsableMessage = "Could not parse last two digits from regNo. Manually check your question link."
)

var nonDigits = regexp.MustCompile(`\D`)

// LastTwoDigits returns the trailing (at most two) ASCII digits of regNo.
func LastTwoDigits(regNo string) string {
	digits := nonDigits.ReplaceAllString(regNo, "")
	if len(digits) > 2 {
		return digits[len(digits)-2:]
	}
	return digits
}

// Derive returns the human-readable question assignment for regNo.
func Derive(regNo string) string {
	last2 := LastTwoDigits(regNo)
	if len(last2) < 2 {
		return UnparsableMessage
	}

	val, err := strconv.Atoi(last2)
	if err != nil {
		return UnparsableMessage
	}

	label := EvenQuestion
	if val%2 == 1 {
		label = OddQuestion
	}
	return fmt.Sprintf("RegNo last two digits = %s -> %s", last2, label)
}
