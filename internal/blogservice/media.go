package blogservice

import "strings"

type MediaKind string

const (
	MediaNone     MediaKind = "none"
	MediaPath     MediaKind = "path"
	MediaFilename MediaKind = "filename"
)

// MediaRef is the single media reference of a blog. The backend sends either
// an imageUrl (path based) or a legacy thumbnail filename; both are resolved
// here once, at ingestion.
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url,omitempty"`
	Name string    `json:"name,omitempty"`
}

func resolveMedia(thumbnail, imageURL string) MediaRef {
	imageURL = strings.TrimSpace(imageURL)
	thumbnail = strings.TrimSpace(thumbnail)

	switch {
	case imageURL != "":
		return MediaRef{Kind: MediaPath, URL: imageURL}
	case thumbnail != "":
		return MediaRef{Kind: MediaFilename, Name: thumbnail}
	default:
		return MediaRef{Kind: MediaNone}
	}
}

// wire splits the reference back into the backend's two optional fields.
func (m MediaRef) wire() (thumbnail, imageURL string) {
	switch m.Kind {
	case MediaPath:
		return "", m.URL
	case MediaFilename:
		return m.Name, ""
	default:
		return "", ""
	}
}

// Href returns an absolute location for the media, relative paths and legacy
// filenames are served by the backend under assetBase.
func (m MediaRef) Href(assetBase string) string {
	assetBase = strings.TrimRight(assetBase, "/")

	switch m.Kind {
	case MediaPath:
		if strings.HasPrefix(m.URL, "http://") || strings.HasPrefix(m.URL, "https://") {
			return m.URL
		}
		return assetBase + "/" + strings.TrimLeft(m.URL, "/")
	case MediaFilename:
		return assetBase + "/uploads/" + m.Name
	default:
		return ""
	}
}
