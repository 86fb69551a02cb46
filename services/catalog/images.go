package catalog

import "strings"

const (
	ImageBaseURL = "https://image.tmdb.org/t/p"

	PosterSize   = "w500"
	BackdropSize = "w1280"
	LogoSize     = "w92"
	ProfileSize  = "w185"
)

// ImageURL joins an image path fragment returned by the catalog onto the CDN
// base. An empty fragment yields "" so views render a placeholder instead.
func ImageURL(imagePath, size string) string {
	trimmed := strings.TrimSpace(imagePath)
	if trimmed == "" {
		return ""
	}
	return ImageBaseURL + "/" + size + "/" + strings.TrimPrefix(trimmed, "/")
}

// ImageURLPtr is ImageURL for optional fields.
func ImageURLPtr(imagePath *string, size string) string {
	if imagePath == nil {
		return ""
	}
	return ImageURL(*imagePath, size)
}
