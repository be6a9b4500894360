// Package strings holds small parsing helpers for configuration values.
package strings

import (
	"strings"
)

// SplitList splits a comma-separated value, trimming each entry and dropping
// empty and repeated ones. Order of first appearance is preserved. Returns nil
// when nothing remains.
//
//	SplitList(" a:9092, b:9092,,a:9092 ") // []string{"a:9092", "b:9092"}
func SplitList(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
