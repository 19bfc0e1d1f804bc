package cjson

import "strings"

// checkInteger accepts the JSON integer grammar -?(0|[1-9][0-9]*). Digits
// beyond 64 bits are fine; fractions, exponents and -0 are not.
func checkInteger(s string) error {
	if strings.ContainsAny(s, ".eE") {
		return errFloatString
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return errBadNumber
	}
	if digits[0] == '0' && len(digits) > 1 {
		return errBadNumber
	}
	if digits == "0" && len(s) > 1 {
		return errNegativeZero
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return errBadNumber
		}
	}
	return nil
}
