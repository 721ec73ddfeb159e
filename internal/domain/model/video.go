package model

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultTitle is used when the extractor reports no title.
	DefaultTitle = "LinkedIn Video"
)

// Format is a single downloadable rendition reported by the extractor.
type Format struct {
	FormatID string `json:"format_id"`
	URL      string `json:"url"`
	Ext      string `json:"ext"`
}

// Thumbnail is a preview image reported by the extractor.
type Thumbnail struct {
	URL string `json:"url"`
}

// VideoInfo is the subset of yt-dlp's --dump-json document used by the service.
// Numeric fields are pointers because yt-dlp emits null for unknown values.
type VideoInfo struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Duration       *float64    `json:"duration"`
	URL            string      `json:"url"`
	Ext            string      `json:"ext"`
	Formats        []Format    `json:"formats"`
	Thumbnail      string      `json:"thumbnail"`
	Thumbnails     []Thumbnail `json:"thumbnails"`
	Filesize       *float64    `json:"filesize"`
	FilesizeApprox *float64    `json:"filesize_approx"`
	Uploader       string      `json:"uploader"`
	WebpageURL     string      `json:"webpage_url"`
}

// ParseVideoInfo decodes a yt-dlp JSON document.
func ParseVideoInfo(data []byte) (*VideoInfo, error) {
	var info VideoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode video info: %w", err)
	}
	return &info, nil
}

// MediaURL returns the direct media URL, preferring the top-level url
// and falling back to the first format.
func (v *VideoInfo) MediaURL() string {
	if v.URL != "" {
		return v.URL
	}
	if len(v.Formats) > 0 {
		return v.Formats[0].URL
	}
	return ""
}

// ThumbnailURL returns the preview image URL, or nil when none is known.
func (v *VideoInfo) ThumbnailURL() *string {
	if v.Thumbnail != "" {
		thumb := v.Thumbnail
		return &thumb
	}
	if len(v.Thumbnails) > 0 && v.Thumbnails[0].URL != "" {
		thumb := v.Thumbnails[0].URL
		return &thumb
	}
	return nil
}

// DurationSeconds returns the duration in seconds, or 0 when unknown.
func (v *VideoInfo) DurationSeconds() float64 {
	if v.Duration == nil {
		return 0
	}
	return *v.Duration
}

// ReportedSize returns the size yt-dlp reported, exact or approximate, or 0.
func (v *VideoInfo) ReportedSize() int64 {
	if v.Filesize != nil && *v.Filesize > 0 {
		return int64(*v.Filesize)
	}
	if v.FilesizeApprox != nil && *v.FilesizeApprox > 0 {
		return int64(*v.FilesizeApprox)
	}
	return 0
}

// Extraction is a resolved video: metadata, direct media URL, size and duration.
// It is the payload stored in the result cache.
type Extraction struct {
	Info     *VideoInfo
	MediaURL string
	// Size is the probed Content-Length in bytes, 0 when the upstream did not report one.
	Size     int64
	Duration float64
}

// Title returns the sanitized display title.
func (e *Extraction) Title() string {
	title := DefaultTitle
	if e.Info != nil && e.Info.Title != "" {
		title = e.Info.Title
	}
	return SanitizeFilename(title)
}

// DurationSeconds truncates the duration to whole seconds.
func (e *Extraction) DurationSeconds() int {
	if e.Duration <= 0 {
		return 0
	}
	return int(e.Duration)
}

// SizeBytes returns the probed size, falling back to the extractor's reported size.
// Unknown sizes are reported as 0.
func (e *Extraction) SizeBytes() int64 {
	if e.Size > 0 {
		return e.Size
	}
	if e.Info != nil {
		return e.Info.ReportedSize()
	}
	return 0
}

// ThumbnailURL returns the preview image URL, or nil.
func (e *Extraction) ThumbnailURL() *string {
	if e.Info == nil {
		return nil
	}
	return e.Info.ThumbnailURL()
}
