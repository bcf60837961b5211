package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"serenifi/internal/content"
	"serenifi/internal/guidance"
)

var templateFuncs = template.FuncMap{
	"embedURL": func(watchURL string, start time.Duration) string {
		return content.EmbedURL(watchURL, start)
	},
}

// pageData is shared by every page template.
type pageData struct {
	Title      string
	Active     string
	Background template.URL
	RequestID  string
}

type homePage struct {
	pageData

	Hero                 content.Image
	Video                content.Video
	BreathingInstruction string
	Calmness             []content.CalmnessPoint

	TipLevels   []content.TipLevel
	Tip         string
	TipLevel    string
	Moods       []string
	StressLevel []string

	GuidanceEnabled bool
	GuidanceForm    guidance.Request
	GuidanceText    string
	GuidanceError   string
}

type calmSpacePage struct {
	pageData

	Sounds   []content.Sound
	Selected content.Sound
}

type aboutPage struct {
	pageData

	FeedbackMessage string
	FeedbackError   string
}

func (s *Server) basePage(c echo.Context, title, active string) pageData {
	p := pageData{Title: title, Active: active}
	if id, ok := c.Get("request_id").(string); ok {
		p.RequestID = id
	}
	if s.images != nil && s.cfg.BackgroundImage != "" {
		uri, err := s.images.DataURI(s.cfg.BackgroundImage)
		if err != nil {
			requestLogger(c).Warn().Err(err).Str("path", s.cfg.BackgroundImage).Msg("Background image unavailable")
		} else {
			p.Background = template.URL(uri)
		}
	}
	return p
}

func (s *Server) newHomePage(c echo.Context) *homePage {
	return &homePage{
		pageData:             s.basePage(c, "Home", "home"),
		Hero:                 content.HeroImage,
		Video:                content.WellnessVideo,
		BreathingInstruction: content.BreathingInstruction,
		Calmness:             content.CalmnessData(),
		TipLevels:            content.TipLevels(),
		Moods:                content.GuidanceMoods(),
		StressLevel:          content.StressLevels(),
		GuidanceEnabled:      s.guidance != nil && s.guidance.Configured(),
	}
}

// homeHandler serves the landing page. A tip chosen in the survey arrives
// as a flash message from tipFormHandler.
func (s *Server) homeHandler(c echo.Context) error {
	page := s.newHomePage(c)

	if flashes := s.popFlashes(c, flashTip); len(flashes) > 0 {
		page.TipLevel = flashes[0]
		page.Tip, _ = content.Tip(content.TipLevel(flashes[0]))
	}

	return c.Render(http.StatusOK, "home.html", page)
}

// calmSpaceHandler serves the soothing sounds page.
func (s *Server) calmSpaceHandler(c echo.Context) error {
	selected, _ := content.SoundByName(c.QueryParam("sound"))

	return c.Render(http.StatusOK, "calm.html", &calmSpacePage{
		pageData: s.basePage(c, "Calm Space", "calm"),
		Sounds:   content.Sounds(),
		Selected: selected,
	})
}

// aboutHandler serves the About & Feedback page.
func (s *Server) aboutHandler(c echo.Context) error {
	page := &aboutPage{pageData: s.basePage(c, "About & Feedback", "about")}

	if msgs := s.popFlashes(c, flashFeedbackOK); len(msgs) > 0 {
		page.FeedbackMessage = msgs[0]
	}
	if msgs := s.popFlashes(c, flashFeedbackError); len(msgs) > 0 {
		page.FeedbackError = msgs[0]
	}

	return c.Render(http.StatusOK, "about.html", page)
}
