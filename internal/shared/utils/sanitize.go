package utils

import "github.com/microcosm-cc/bluemonday"

var memoPolicy = bluemonday.StrictPolicy()

// SanitizeMemo strips markup from user-entered memo text. Memos render in
// the portal without escaping, so anything but plain text is dropped here.
func SanitizeMemo(s string) string {
	return memoPolicy.Sanitize(s)
}
