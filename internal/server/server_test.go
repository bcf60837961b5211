package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serenifi/internal/config"
	"serenifi/internal/content"
	"serenifi/internal/feedback"
	"serenifi/internal/guidance"
	"serenifi/internal/llm"
	"serenifi/internal/media"
)

type fakeLLM struct {
	mu    sync.Mutex
	calls []*llm.CompletionRequest
	text  string
	err   error
}

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.text, Metadata: llm.Metadata{Provider: "fake", OutputTokens: 4}}, nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          0,
		AppEnv:        "test",
		TemplateDir:   "../../web/templates",
		StaticDir:     "../../web/public",
		SessionSecret: "test-session-secret",
		LLM:           llm.Settings{Provider: "fake"},
	}
}

// newTestServer builds the full router. A nil client leaves guidance unconfigured.
func newTestServer(t *testing.T, cfg *config.Config, client llm.Client) (*Server, http.Handler) {
	t.Helper()

	lottie, err := media.NewLottieFetcher(4)
	require.NoError(t, err)
	images, err := media.NewImageStore(4)
	require.NoError(t, err)

	s, err := New(cfg, Dependencies{
		Guidance: guidance.NewRequester(client, guidance.Options{}),
		Feedback: feedback.NewService(nil),
		Lottie:   lottie,
		Images:   images,
	})
	require.NoError(t, err)

	h, err := s.RegisterRoutes()
	require.NoError(t, err)
	return s, h
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func guidanceJSON() string {
	return `{"mood":"Anxious","feeling_description":"racing thoughts","stress_level":"High","recent_events":"exam tomorrow"}`
}

func TestHomePage(t *testing.T) {
	_, h := newTestServer(t, testConfig(), &fakeLLM{text: "ok"})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := rec.Body.String()
	assert.Contains(t, body, "Welcome to SereniFi")
	assert.Contains(t, body, "Personalized Tips for You")
	assert.Contains(t, body, "https://www.youtube.com/embed/inpok4MKVLM?start=10")
	assert.Contains(t, body, `"activity":"Meditation"`)
	assert.NotContains(t, body, "not configured")
}

func TestHomePageKeepsRequestID(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := do(h, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), "The AI guide is not configured on this server.")
}

func TestGuidanceAPISuccess(t *testing.T) {
	fake := &fakeLLM{text: "Try deep breathing."}
	_, h := newTestServer(t, testConfig(), fake)

	req := httptest.NewRequest(http.MethodPost, "/api/guidance", strings.NewReader(guidanceJSON()))
	req.Header.Set("Content-Type", "application/json")
	rec := do(h, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp guidance.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Try deep breathing.", resp.Text)
	assert.Equal(t, "fake", resp.Metadata.Provider)

	require.Equal(t, 1, fake.callCount())
	for _, want := range []string{"Anxious", "racing thoughts", "High", "exam tomorrow"} {
		assert.Contains(t, fake.calls[0].User, want)
	}
}

func TestGuidanceAPIUnavailable(t *testing.T) {
	_, h := newTestServer(t, testConfig(), &fakeLLM{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodPost, "/api/guidance", strings.NewReader(guidanceJSON()))
	req.Header.Set("Content-Type", "application/json")
	rec := do(h, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), msgGuidanceUnavailable)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGuidanceAPINotConfigured(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/guidance", strings.NewReader(guidanceJSON()))
	req.Header.Set("Content-Type", "application/json")
	rec := do(h, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestGuidanceAPIBadJSON(t *testing.T) {
	fake := &fakeLLM{text: "ok"}
	_, h := newTestServer(t, testConfig(), fake)

	req := httptest.NewRequest(http.MethodPost, "/api/guidance", strings.NewReader(`{"mood":`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, fake.callCount())
}

func TestGuidanceFormRendersAnswer(t *testing.T) {
	fake := &fakeLLM{text: "Try deep breathing."}
	_, h := newTestServer(t, testConfig(), fake)

	rec := do(h, postForm("/guidance", url.Values{
		"mood":                {"Anxious"},
		"feeling_description": {"racing thoughts"},
		"stress_level":        {"High"},
		"recent_events":       {"exam tomorrow"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div class="guidance-text">Try deep breathing.</div>`)
	assert.Contains(t, body, "racing thoughts")
	assert.Equal(t, 1, fake.callCount())
}

func TestGuidanceFormShowsErrorAndRestOfPage(t *testing.T) {
	_, h := newTestServer(t, testConfig(), &fakeLLM{err: errors.New("boom")})

	rec := do(h, postForm("/guidance", url.Values{"mood": {"Sad"}}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, msgGuidanceUnavailable)
	assert.Contains(t, body, "Personalized Tips for You")
	assert.Contains(t, body, "The Importance of Mental Health")
}

func TestGuidanceIsNotCached(t *testing.T) {
	fake := &fakeLLM{text: "ok"}
	_, h := newTestServer(t, testConfig(), fake)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/guidance", strings.NewReader(guidanceJSON()))
		req.Header.Set("Content-Type", "application/json")
		require.Equal(t, http.StatusOK, do(h, req).Code)
	}
	assert.Equal(t, 2, fake.callCount())
}

func TestTipFlow(t *testing.T) {
	fake := &fakeLLM{text: "ok"}
	_, h := newTestServer(t, testConfig(), fake)

	rec := do(h, postForm("/tips", url.Values{"mood": {"High"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#tips", rec.Header().Get("Location"))

	page := do(h, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "<strong>Tip:</strong> Pause and try a guided meditation.")

	// The flash is consumed by the first render.
	again := do(h, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), page))
	assert.NotContains(t, again.Body.String(), "<strong>Tip:</strong>")

	assert.Zero(t, fake.callCount())
}

func TestTipFormRejectsUnknownLevel(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)
	rec := do(h, postForm("/tips", url.Values{"mood": {"Furious"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTipAPI(t *testing.T) {
	fake := &fakeLLM{text: "ok"}
	_, h := newTestServer(t, testConfig(), fake)

	for _, level := range content.TipLevels() {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/api/tips/"+string(level), nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		want, _ := content.Tip(level)
		assert.Equal(t, want, resp["tip"])
	}

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/tips/Unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, fake.callCount())
}

func TestCalmnessAndSoundsAPI(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/calmness", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var points []content.CalmnessPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Equal(t, content.CalmnessData(), points)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/sounds", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var sounds []content.Sound
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sounds))
	assert.Len(t, sounds, 4)
}

func TestCalmSpace(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/calm-space?sound=Ocean+Waves", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://www.youtube.com/embed/WjHc_EvJlOw")

	rec = do(h, httptest.NewRequest(http.MethodGet, "/calm-space", nil))
	assert.Contains(t, rec.Body.String(), "https://www.youtube.com/embed/mnW1n8eG7yI")
}

func TestFeedbackFlow(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)

	rec := do(h, postForm("/feedback", url.Values{"feedback": {"Lovely app"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/about#feedback", rec.Header().Get("Location"))

	page := do(h, withCookies(httptest.NewRequest(http.MethodGet, "/about", nil), rec))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), feedback.ThankYou)
}

func TestFeedbackValidation(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"empty", url.Values{"feedback": {"  "}}, "Please write some feedback"},
		{"bad email", url.Values{"feedback": {"hi"}, "email": {"nope"}}, "email address does not look right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, postForm("/feedback", tt.form))
			require.Equal(t, http.StatusSeeOther, rec.Code)

			page := do(h, withCookies(httptest.NewRequest(http.MethodGet, "/about", nil), rec))
			body := page.Body.String()
			assert.Contains(t, body, tt.want)
			assert.NotContains(t, body, feedback.ThankYou)
		})
	}
}

func TestLottieAPI(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"v":"5.7.4","layers":[]}`)
	}))
	defer cdn.Close()

	cfg := testConfig()
	cfg.LottieURL = cdn.URL
	_, h := newTestServer(t, cfg, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/lottie", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"v":"5.7.4","layers":[]}`, rec.Body.String())
}

func TestLottieAPIUnavailable(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer cdn.Close()

	cfg := testConfig()
	cfg.LottieURL = cdn.URL
	_, h := newTestServer(t, cfg, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/lottie", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, testConfig(), &fakeLLM{text: "ok"})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, []interface{}{"online", "degraded"}, resp["status"])
	g, ok := resp["guidance"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, g["configured"])
}

func TestBreathingSocket(t *testing.T) {
	s, h := newTestServer(t, testConfig(), nil)
	s.breathing = []content.BreathingPhase{
		{Name: "inhale", Duration: 5 * time.Millisecond, Instruction: "in"},
		{Name: "hold", Duration: 5 * time.Millisecond, Instruction: "hold"},
		{Name: "exhale", Duration: 5 * time.Millisecond, Instruction: "out"},
	}

	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/breathing?cycles=2"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var phases []string
	for {
		var step breathingStep
		if err := conn.ReadJSON(&step); err != nil {
			break
		}
		phases = append(phases, fmt.Sprintf("%d:%s", step.Cycle, step.Phase))
		if step.Phase == "done" {
			break
		}
	}

	assert.Equal(t, []string{
		"1:inhale", "1:hold", "1:exhale",
		"2:inhale", "2:hold", "2:exhale",
		"2:done",
	}, phases)
}

func TestBreathingSocketRejectsBadCycles(t *testing.T) {
	_, h := newTestServer(t, testConfig(), nil)

	for _, v := range []string{"0", "11", "many"} {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/ws/breathing?cycles="+v, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "cycles=%s", v)
	}
}

func TestShutdownClosesBreathingSockets(t *testing.T) {
	s, err := New(testConfig(), Dependencies{Guidance: guidance.NewRequester(nil, guidance.Options{})})
	require.NoError(t, err)
	s.breathing = []content.BreathingPhase{{Name: "inhale", Duration: time.Hour}}

	httpServer, err := s.HTTPServer()
	require.NoError(t, err)
	srv := httptest.NewUnstartedServer(httpServer.Handler)
	srv.Config = httpServer
	srv.Start()
	defer srv.Close()

	// Both clients send the same request ID; each socket must still be tracked.
	header := http.Header{}
	header.Set("X-Request-ID", "same")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/breathing?cycles=1"
	var conns []*websocket.Conn
	for i := 0; i < 2; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
		require.NoError(t, err)
		defer conn.Close()

		var first breathingStep
		require.NoError(t, conn.ReadJSON(&first))
		assert.Equal(t, "inhale", first.Phase)
		conns = append(conns, conn)
	}
	require.Eventually(t, func() bool { return s.sockets.Count() == 2 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, httpServer.Shutdown(ctx))

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "conn %d: got %v", i, err)
	}
	assert.Eventually(t, func() bool { return s.sockets.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestBreathingSocketUpgradeFailureWritesOneResponse(t *testing.T) {
	s, h := newTestServer(t, testConfig(), nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/ws/breathing?cycles=2", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusBadRequest)+"\n", rec.Body.String())
	assert.Zero(t, s.sockets.Count())
}
