package schedule

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// MergeSubjects keeps the schedule order and appends homework-only subjects
// in the order they were first seen. Matching is exact.
func MergeSubjects(scheduled, fromHomework []string) []string {
	merged := make([]string, 0, len(scheduled)+len(fromHomework))
	seen := make(map[string]struct{}, len(scheduled)+len(fromHomework))
	for _, list := range [][]string{scheduled, fromHomework} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			merged = append(merged, s)
		}
	}
	return merged
}

// ResolveTruncated maps a shortened subject back to the first full subject it
// prefixes. Without a match the input is returned as is.
func ResolveTruncated(truncated string, subjects []string) string {
	for _, s := range subjects {
		if strings.HasPrefix(s, truncated) {
			return s
		}
	}
	return truncated
}

// SubjectKey is a short stable id for a subject, small enough for callback data.
func SubjectKey(subject string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return fmt.Sprintf("%08x", h.Sum32())
}

// FindByKey returns the subject whose SubjectKey equals key.
func FindByKey(key string, subjects []string) (string, bool) {
	for _, s := range subjects {
		if SubjectKey(s) == key {
			return s, true
		}
	}
	return "", false
}
