package component

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID accepts a bare video id or any of the common YouTube URL
// shapes (watch, youtu.be, embed, shorts) and returns the id.
func ExtractVideoID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if videoIDPattern.MatchString(input) {
		return input, true
	}

	u, err := url.Parse(input)
	if err != nil || len(u.Host) == 0 {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var candidate string

	switch host {
	case "youtu.be":
		candidate = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			candidate = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			candidate = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			candidate = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}

	if i := strings.IndexByte(candidate, '/'); i >= 0 {
		candidate = candidate[:i]
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", false
	}

	return candidate, true
}

// EmbedURL is the iframe source for a video.
func EmbedURL(videoID string, autoplay bool) string {
	u := youtubeEmbedBase + url.PathEscape(videoID)
	if autoplay {
		u = fmt.Sprintf("%s?autoplay=1", u)
	}

	return u
}
