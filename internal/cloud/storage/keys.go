package storage

import (
	"strings"
)

// JoinKey joins a key prefix and an object name into a bucket key.
//
// Empty prefix means the bucket root. Redundant slashes on either side are
// collapsed so that "builds/" + "app.zip" and "builds" + "app.zip" produce
// the same key, and a leading slash never appears in the result (S3 treats
// "/x" and "x" as distinct keys, which is never what a caller wants here).
func JoinKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	name = strings.TrimLeft(name, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
