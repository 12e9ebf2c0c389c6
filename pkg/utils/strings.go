package utils

import "strings"

// SplitList splits a comma separated value, trims every item and drops empty ones.
// An empty input yields a nil slice.
func SplitList(s string) []string {
	var result []string

	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}

	return result
}
