package profile

import "strings"

// AvatarURL joins the API base URL and the record's relative avatar path
// with exactly one slash between them. An empty path yields the base URL.
func AvatarURL(baseURL, path string) string {
	if path == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
