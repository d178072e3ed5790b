package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"skilltrack/config"

	"github.com/go-resty/resty/v2"
)

// youtubeVideosAPI is the Data API v3 endpoint for video details.
const youtubeVideosAPI = "https://www.googleapis.com/youtube/v3/videos"

// FallbackDuration is used when the YouTube lookup fails or returns an
// unparsable duration, so imported lessons never end up with zero seconds.
const FallbackDuration = 600

type youtubeVideosResponse struct {
	Items []struct {
		ContentDetails struct {
			Duration string `json:"duration"` // ISO-8601, e.g. PT1H2M30S
		} `json:"contentDetails"`
	} `json:"items"`
}

// FetchVideoDuration looks up a YouTube video's duration in seconds.
// Any failure falls back to FallbackDuration rather than erroring, since a
// wrong-but-sane duration is preferable to blocking a course import.
func FetchVideoDuration(videoID string) int {
	apiKey := config.AppConfig.YoutubeApiKey
	if apiKey == "" || videoID == "" {
		return FallbackDuration
	}

	client := resty.New()
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"part": "contentDetails",
			"id":   videoID,
			"key":  apiKey,
		}).
		Get(youtubeVideosAPI)
	if err != nil {
		log.Printf("[YOUTUBE] Duration lookup failed for %s: %v", videoID, err)
		return FallbackDuration
	}
	if resp.StatusCode() != 200 {
		log.Printf("[YOUTUBE] Duration lookup for %s returned %d", videoID, resp.StatusCode())
		return FallbackDuration
	}

	var parsed youtubeVideosResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil || len(parsed.Items) == 0 {
		log.Printf("[YOUTUBE] Unexpected response for %s", videoID)
		return FallbackDuration
	}

	seconds, err := ParseISO8601Duration(parsed.Items[0].ContentDetails.Duration)
	if err != nil || seconds <= 0 {
		return FallbackDuration
	}
	return seconds
}

var iso8601DurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISO8601Duration converts a YouTube-style ISO-8601 duration (PT#H#M#S)
// into seconds.
func ParseISO8601Duration(duration string) (int, error) {
	matches := iso8601DurationRe.FindStringSubmatch(duration)
	if matches == nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", duration)
	}

	seconds := 0
	units := []int{3600, 60, 1}
	for i, unit := range units {
		if matches[i+1] == "" {
			continue
		}
		value, err := strconv.Atoi(matches[i+1])
		if err != nil {
			return 0, err
		}
		seconds += value * unit
	}
	return seconds, nil
}
