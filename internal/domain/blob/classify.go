package blob

import "strings"

type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
	ResourceRaw   ResourceType = "raw"
)

// resourceTypes must stay stable: objects already uploaded are addressed
// through the category computed here.
var resourceTypes = map[string]ResourceType{
	".jpg":  ResourceImage,
	".jpeg": ResourceImage,
	".png":  ResourceImage,
	".gif":  ResourceImage,
	".webp": ResourceImage,
	".bmp":  ResourceImage,
	".svg":  ResourceImage,
	".tif":  ResourceImage,
	".tiff": ResourceImage,
	".ico":  ResourceImage,
	".heic": ResourceImage,
	".avif": ResourceImage,

	".mp4":  ResourceVideo,
	".mov":  ResourceVideo,
	".avi":  ResourceVideo,
	".mkv":  ResourceVideo,
	".webm": ResourceVideo,
	".flv":  ResourceVideo,
	".wmv":  ResourceVideo,
	".m4v":  ResourceVideo,
	".mp3":  ResourceVideo,
	".wav":  ResourceVideo,
	".ogg":  ResourceVideo,
	".flac": ResourceVideo,
	".aac":  ResourceVideo,
}

// Classify derives the resource category from the extension of name only.
func Classify(name string) ResourceType {
	if rt, ok := resourceTypes[strings.ToLower(Ext(name))]; ok {
		return rt
	}
	return ResourceRaw
}
