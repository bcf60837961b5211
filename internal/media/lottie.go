package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	lottieRequestTimeout = 10 * time.Second
	maxLottieBytes       = 4 << 20
)

// LottieFetcher downloads Lottie animation JSON. Successful downloads are
// cached by URL; concurrent requests for one URL share a single download.
type LottieFetcher struct {
	httpClient *http.Client
	cache      *lru.Cache[string, json.RawMessage]
	group      singleflight.Group
}

func NewLottieFetcher(cacheSize int) (*LottieFetcher, error) {
	cache, err := lru.New[string, json.RawMessage](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create lottie cache: %w", err)
	}
	return &LottieFetcher{
		httpClient: &http.Client{Timeout: lottieRequestTimeout},
		cache:      cache,
	}, nil
}

// Fetch returns the animation at url. A non-200 answer is not an error:
// it returns nil, nil and the page simply shows no animation.
// Concurrent callers share one download, which outlives any single caller;
// a caller whose ctx ends stops waiting with ctx.Err().
func (f *LottieFetcher) Fetch(ctx context.Context, url string) (json.RawMessage, error) {
	if data, ok := f.cache.Get(url); ok {
		return data, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(url, func() (interface{}, error) {
		if data, ok := f.cache.Get(url); ok {
			return data, nil
		}
		data, err := f.download(shared, url)
		if err != nil {
			return nil, err
		}
		if data != nil {
			f.cache.Add(url, data)
		}
		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	data, _ := res.Val.(json.RawMessage)
	return data, nil
}

func (f *LottieFetcher) download(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch lottie: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zerolog.Ctx(ctx).Warn().Str("url", url).Int("status", resp.StatusCode).Msg("Lottie animation unavailable")
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLottieBytes))
	if err != nil {
		return nil, fmt.Errorf("read lottie body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("lottie body from %s is not valid JSON", url)
	}
	return json.RawMessage(body), nil
}
