package model

// StreamFormat is one encoded stream offered by the engine
type StreamFormat struct {
	ID     string  `json:"id,omitempty"`
	Ext    string  `json:"ext,omitempty"`
	Height int     `json:"height,omitempty"`
	FPS    float64 `json:"fps,omitempty"`
}

// VideoInfo is the display record produced by a preview request
type VideoInfo struct {
	Title       string         `json:"title"`
	Uploader    string         `json:"uploader"`
	Duration    int            `json:"duration"`    // seconds, 0 if unknown
	ViewCount   int64          `json:"view_count"`  // 0 if unknown
	UploadDate  string         `json:"upload_date"` // YYYYMMDD as delivered by the engine
	Description string         `json:"description"`
	Thumbnail   string         `json:"thumbnail"`
	Formats     []StreamFormat `json:"formats"`
}

// DownloadRequest describes a single delegated download call
type DownloadRequest struct {
	URL       string      `json:"url"`
	Quality   QualityTier `json:"quality"`
	OutputDir string      `json:"dir"`
}
