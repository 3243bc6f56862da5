package hydration

import (
	"context"
	"time"

	"barklounge/store"
)

// Result is what a section renders: the current value, plus the status
// and error of the last fetch of that key.
type Result struct {
	Value  any          `json:"value"`
	Status store.Status `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// Access returns key's current value, starting a background fetch when the
// value is missing and nothing is in flight. It never blocks on the API.
func Access(ctx context.Context, st *store.Store, key store.Key) (Result, error) {
	if _, err := st.EnsureAsync(ctx, key); err != nil {
		return Result{}, err
	}
	return read(st, key), nil
}

// AccessWait is Access that waits up to maxWait for an in-flight fetch of
// key to settle.
func AccessWait(ctx context.Context, st *store.Store, key store.Key, maxWait time.Duration) (Result, error) {
	res, err := Access(ctx, st, key)
	if err != nil || res.Status != store.StatusLoading {
		return res, err
	}

	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return read(st, key), nil
		case <-tick.C:
			if res = read(st, key); res.Status != store.StatusLoading {
				return res, nil
			}
		}
	}
}

// Retry refetches key regardless of what the store holds.
func Retry(ctx context.Context, st *store.Store, key store.Key) (Result, error) {
	if err := st.Fetch(ctx, key); err != nil {
		return Result{}, err
	}
	return read(st, key), nil
}

func read(st *store.Store, key store.Key) Result {
	status, msg := st.Status(key)
	return Result{Value: value(st, key), Status: status, Error: msg}
}

func value(st *store.Store, key store.Key) any {
	switch key {
	case store.KeySettings:
		return st.Settings.Snapshot().Data.Settings
	case store.KeySeo:
		return st.Settings.Snapshot().Data.Seo
	case store.KeyServicesSection:
		return st.Settings.Snapshot().Data.ServicesSection
	case store.KeyBlogTags:
		return st.Settings.Snapshot().Data.BlogTags
	case store.KeyAbout:
		return st.About.Snapshot().Data.About
	case store.KeyAboutContent:
		return st.About.Snapshot().Data.Content
	case store.KeyPosts:
		return st.Blog.Snapshot().Data.Posts
	case store.KeyFeatured:
		return st.Blog.Snapshot().Data.Featured
	case store.KeyServices:
		return st.Services.Snapshot().Data.Services
	case store.KeySlides:
		return st.Slider.Snapshot().Data.Slides
	case store.KeyGallery:
		return st.Gallery.Snapshot().Data.Images
	case store.KeyReviews:
		return st.Reviews.Snapshot().Data.Reviews
	case store.KeyReviewStats:
		return st.Reviews.Snapshot().Data.Stats
	}
	return nil
}
