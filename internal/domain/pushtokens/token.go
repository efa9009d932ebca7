package pushtokens

import "strings"

// Valid reports whether token has the ExponentPushToken[...] or
// ExpoPushToken[...] shape.
func Valid(token string) bool {
	for _, prefix := range []string{"ExponentPushToken[", "ExpoPushToken["} {
		if strings.HasPrefix(token, prefix) && strings.HasSuffix(token, "]") && len(token) > len(prefix)+1 {
			return true
		}
	}
	return false
}
