// Package loader gathers the data each page needs before it renders.
// Every loader issues its calls in parallel and waits for all of them.
package loader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"barklounge/api"
	"barklounge/cache"
	"barklounge/hydration"
	"barklounge/models"
	"barklounge/posts"
	"barklounge/resources"
)

const (
	homeCacheNamespace = "pages"
	homeCacheKey       = "home-bundle"
)

type Options struct {
	Reader resources.Reader
	// Cache keeps the home bundle for HomeRevalidate. Nil disables it.
	Cache          *cache.Files
	HomeRevalidate time.Duration
	Logger         *zap.Logger
}

type Loader struct {
	reader  resources.Reader
	cache   *cache.Files
	homeTTL time.Duration
	log     *zap.Logger
}

func New(opts Options) *Loader {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		reader:  opts.Reader,
		cache:   opts.Cache,
		homeTTL: opts.HomeRevalidate,
		log:     log.Named("loader"),
	}
}

// Home loads the landing page. It is all-or-nothing: any failed call fails
// the whole bundle, but only after every call has settled.
func (l *Loader) Home(ctx context.Context) (*hydration.HomeBundle, error) {
	if l.cache != nil && l.homeTTL > 0 {
		var cached hydration.HomeBundle
		if l.cache.ReadJSON(homeCacheNamespace, homeCacheKey, l.homeTTL, &cached) && cached.ID != "" {
			return &cached, nil
		}
	}

	b := &hydration.HomeBundle{ID: hydration.NewID()}
	r := l.reader

	// Plain Group: no shared cancellation, Wait returns after all settle.
	var g errgroup.Group
	g.Go(func() (err error) { b.AppSettings, err = r.AppSettings(ctx); return })
	g.Go(func() (err error) { b.About, err = r.About(ctx); return })
	g.Go(func() (err error) { b.AboutContent, err = r.AboutContent(ctx); return })
	g.Go(func() (err error) { b.SeoSettings, err = r.SeoSettings(ctx); return })
	g.Go(func() (err error) { b.ServicesSection, err = r.ServicesSection(ctx); return })
	g.Go(func() (err error) { b.Slides, err = r.ActiveSlides(ctx); return })
	g.Go(func() (err error) { b.Services, err = r.ActiveServices(ctx); return })
	g.Go(func() (err error) { b.Gallery, err = r.ActiveGalleryImages(ctx); return })
	g.Go(func() (err error) { b.Reviews, err = r.Reviews(ctx); return })
	g.Go(func() (err error) { b.ReviewStats, err = r.ReviewStats(ctx); return })
	g.Go(func() (err error) { b.FeaturedPosts, err = r.FeaturedPosts(ctx); return })
	g.Go(func() (err error) { b.BlogTags, err = r.ActiveBlogTags(ctx); return })

	if err := g.Wait(); err != nil {
		l.log.Error("home data could not be loaded", zap.Error(err))
		return nil, fmt.Errorf("load home: %w", err)
	}

	if l.cache != nil && l.homeTTL > 0 {
		if err := l.cache.WriteJSON(homeCacheNamespace, homeCacheKey, b); err != nil {
			l.log.Warn("caching home bundle failed", zap.Error(err))
		}
	}
	return b, nil
}

// InvalidateHome drops the cached home bundle.
func (l *Loader) InvalidateHome() error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Clear(homeCacheNamespace, homeCacheKey)
}

// BlogList is best-effort. Each call is caught on its own; without the post
// list there is no bundle and the page falls back to fetching. Missing
// featured posts or tags become empty lists.
func (l *Loader) BlogList(ctx context.Context) (*hydration.BlogListBundle, error) {
	var (
		all, featured []models.BlogPost
		tags          []models.BlogTag
		postsErr      error
	)
	r := l.reader

	var g errgroup.Group
	g.Go(func() error {
		all, postsErr = r.PublishedPosts(ctx)
		return nil
	})
	g.Go(func() error {
		var err error
		if featured, err = r.FeaturedPosts(ctx); err != nil {
			l.log.Warn("featured posts unavailable, continuing without", zap.Error(err))
			featured = []models.BlogPost{}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tags, err = r.ActiveBlogTags(ctx); err != nil {
			l.log.Warn("blog tags unavailable, continuing without", zap.Error(err))
			tags = []models.BlogTag{}
		}
		return nil
	})
	g.Wait()

	if postsErr != nil {
		l.log.Warn("blog list data could not be loaded, deferring to fallback", zap.Error(postsErr))
		return nil, postsErr
	}
	return &hydration.BlogListBundle{
		ID:            hydration.NewID(),
		Posts:         all,
		FeaturedPosts: featured,
		BlogTags:      tags,
	}, nil
}

// BlogPost is best-effort. A failed post lookup yields no bundle and the
// lookup's error, so callers can tell a missing slug (api.IsNotFound) from
// an outage. A failed list only costs the related posts.
func (l *Loader) BlogPost(ctx context.Context, slug string) (*hydration.BlogPostBundle, error) {
	var (
		post    *models.BlogPost
		all     []models.BlogPost
		postErr error
	)
	r := l.reader

	var g errgroup.Group
	g.Go(func() error {
		post, postErr = r.PostBySlug(ctx, slug)
		return nil
	})
	g.Go(func() error {
		var err error
		if all, err = r.PublishedPosts(ctx); err != nil {
			all = nil
		}
		return nil
	})
	g.Wait()

	if postErr == nil && post == nil {
		postErr = &api.HTTPError{StatusCode: http.StatusNotFound}
	}
	if postErr != nil {
		if !api.IsNotFound(postErr) {
			l.log.Warn("blog post could not be loaded, deferring to fallback",
				zap.String("slug", slug), zap.Error(postErr))
		}
		return nil, postErr
	}

	return &hydration.BlogPostBundle{
		ID:           hydration.NewID(),
		Slug:         slug,
		Post:         post,
		RelatedPosts: posts.Related(*post, all),
	}, nil
}
