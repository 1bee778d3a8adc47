package util

import (
	"slices"
	"strings"
)

// StringTakeUntil returns the string up to and excluding char as well as the remainder excluding char
//
// if char was not found, then tail returns the empty string
func StringTakeUntil(s string, char rune) (head string, tail string) {
	for i, r := range s {
		if r == char && len(s[i:]) != 0 {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// JoinSorted renders elems with f, sorts the results lexically and joins them with sep
func JoinSorted[A any](elems []A, f func(A) string, sep string) string {
	strs := make([]string, 0, len(elems))
	for _, elem := range elems {
		strs = append(strs, f(elem))
	}
	slices.Sort(strs)
	return strings.Join(strs, sep)
}
