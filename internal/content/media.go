package content

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CalmnessPoint is one bar of the "Calmness Level by Activity" chart.
type CalmnessPoint struct {
	Activity      string `json:"activity"`
	CalmnessLevel int    `json:"calmness_level"`
}

// CalmnessData returns the sample dataset behind the home page chart.
func CalmnessData() []CalmnessPoint {
	return []CalmnessPoint{
		{Activity: "Meditation", CalmnessLevel: 85},
		{Activity: "Yoga", CalmnessLevel: 78},
		{Activity: "Breathing", CalmnessLevel: 90},
		{Activity: "Journaling", CalmnessLevel: 75},
		{Activity: "Music", CalmnessLevel: 88},
	}
}

// Sound is an ambient track offered in the Calm Space.
type Sound struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var sounds = []Sound{
	{Name: "Rain Sounds", URL: "https://www.youtube.com/watch?v=mnW1n8eG7yI"},
	{Name: "Ocean Waves", URL: "https://www.youtube.com/watch?v=WjHc_EvJlOw"},
	{Name: "Forest Ambience", URL: "https://www.youtube.com/watch?v=7yO9B6SmbN8"},
	{Name: "Soft Piano", URL: "https://www.youtube.com/watch?v=O8S8Hn_3mYk"},
}

// Sounds returns the catalogue in display order.
func Sounds() []Sound {
	out := make([]Sound, len(sounds))
	copy(out, sounds)
	return out
}

// SoundByName looks a sound up by its display name. An empty or unknown
// name yields the first sound and false.
func SoundByName(name string) (Sound, bool) {
	for _, s := range sounds {
		if s.Name == name {
			return s, true
		}
	}
	return sounds[0], false
}

// Video is an embeddable clip with an optional start offset.
type Video struct {
	URL   string
	Start time.Duration
}

// Image is a remote picture with its caption.
type Image struct {
	URL     string
	Caption string
}

var (
	HeroImage = Image{
		URL:     "https://images.pexels.com/photos/185801/pexels-photo-185801.jpeg?auto=compress&cs=tinysrgb&w=600",
		Caption: "Breathe and Relax",
	}

	WellnessVideo = Video{
		URL:   "https://www.youtube.com/watch?v=inpok4MKVLM",
		Start: 10 * time.Second,
	}
)

// EmbedURL turns a YouTube watch link into its embeddable form. Links that
// are not watch links are returned unchanged.
func EmbedURL(watchURL string, start time.Duration) string {
	u, err := url.Parse(watchURL)
	if err != nil {
		return watchURL
	}
	id := u.Query().Get("v")
	if id == "" || !strings.HasSuffix(u.Host, "youtube.com") {
		return watchURL
	}

	embed := "https://www.youtube.com/embed/" + url.PathEscape(id)
	if secs := int(start.Seconds()); secs > 0 {
		embed += "?start=" + strconv.Itoa(secs)
	}
	return embed
}
