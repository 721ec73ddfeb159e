package extractor

import "strings"

const (
	// Message fragments emitted by yt-dlp that get a friendlier rewording.
	unableToExtractMarker = "Unable to extract video"
	privateVideoMarker    = "Private video"
)

const (
	msgParseFailure = "Failed to parse video information."
	msgTimedOut     = "Request timed out. Please try again."

	msgUnableToExtract = "Unable to extract this LinkedIn video. This might be because:\n" +
		"• The video is private or restricted\n" +
		"• The video requires LinkedIn login\n" +
		"• LinkedIn has changed their video format\n\n" +
		"Try:\n" +
		"• Making sure the video is public\n" +
		"• Using a different LinkedIn video URL\n" +
		"• Checking if you're logged into LinkedIn when accessing the video"

	msgPrivate = "This video appears to be private or restricted. " +
		"Please ensure the video is publicly accessible."
)

// isKnownFailure reports whether stderr carries one of the failures we reword.
func isKnownFailure(stderr string) bool {
	return strings.Contains(stderr, unableToExtractMarker) || strings.Contains(stderr, privateVideoMarker)
}

// FriendlyMessage rewrites known yt-dlp failures into caller-facing text.
// Unknown messages are returned unchanged.
func FriendlyMessage(msg string) string {
	switch {
	case strings.Contains(msg, unableToExtractMarker):
		return msgUnableToExtract
	case strings.Contains(msg, privateVideoMarker), strings.Contains(strings.ToLower(msg), "private"):
		return msgPrivate
	default:
		return msg
	}
}

// failureMessage converts a failed run's stderr into the message kept as the last error.
func failureMessage(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if isKnownFailure(stderr) {
		return FriendlyMessage(stderr)
	}
	return stderr
}
