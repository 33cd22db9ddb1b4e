package dto

// ThumbnailUploadResponse reports a stored video thumbnail.
type ThumbnailUploadResponse struct {
	VideoID   uint   `json:"video_id"`
	URL       string `json:"url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}
