package model

// ImageBaseURL is the TMDB image CDN root.
const ImageBaseURL = "https://image.tmdb.org/t/p"

// ImageSize is a TMDB image rendition.
type ImageSize string

const (
	ImageSizeW185     ImageSize = "w185"
	ImageSizeW300     ImageSize = "w300"
	ImageSizeW500     ImageSize = "w500"
	ImageSizeW780     ImageSize = "w780"
	ImageSizeOriginal ImageSize = "original"
)

// ImageURL returns the CDN URL for a TMDB image path, or "" when path is empty.
func ImageURL(path string, size ImageSize) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + "/" + string(size) + path
}

func PosterURL(path string) string {
	return ImageURL(path, ImageSizeW500)
}

func BackdropURL(path string) string {
	return ImageURL(path, ImageSizeW780)
}

func StillURL(path string) string {
	return ImageURL(path, ImageSizeW500)
}
