package store

import "strconv"

// parseInt64 and formatInt64 isolate the textual integer encoding used for
// INCR/DECR (spec.md §4.B: "parses the current stored value as a signed
// 64-bit integer ... writes back as decimal text").
func parseInt64(value []byte) (int64, error) {
	return strconv.ParseInt(string(value), 10, 64)
}

func formatInt64(n int64) []byte {
	return []byte(strconv.FormatInt(n, 10))
}
