package store

import (
	"fmt"
	"strings"
	"time"
)

// sortableTimestamp renders a time as a fixed-width UTC string that sorts
// lexicographically in chronological order. Nanoseconds are zero-padded to
// nine digits so the width never varies.
// Format: 2006-01-02T15:04:05.NNNNNNNNNZ (30 characters).
func sortableTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + fmt.Sprintf(".%09d", t.Nanosecond()) + "Z"
}

const sortableTimestampLen = 30

// parseTimedIndexKey extracts the entity ID from a timestamp-ordered index
// key of the form {prefix}{timestamp}:{id}.
func parseTimedIndexKey(key []byte, prefix string) (string, error) {
	keyStr := string(key)
	if !strings.HasPrefix(keyStr, prefix) {
		return "", fmt.Errorf("invalid index key: missing prefix %s", prefix)
	}

	remainder := keyStr[len(prefix):]
	if len(remainder) < sortableTimestampLen+2 {
		return "", fmt.Errorf("invalid index key format: %s", keyStr)
	}

	return remainder[sortableTimestampLen+1:], nil
}

// lastSegment returns everything after the last colon in a key.
// Used for indexes of the form idx:...:{parentID}:{childID}.
func lastSegment(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 && i < len(key)-1 {
		return key[i+1:]
	}
	return ""
}
