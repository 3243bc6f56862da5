// Package resourcestest provides an in-memory content API for tests.
package resourcestest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"barklounge/api"
	"barklounge/models"
	"barklounge/resources"
)

var (
	_ resources.Reader = (*Fake)(nil)
	_ resources.Sender = (*Fake)(nil)
)

// Fake serves fixed values. Errs maps a method name to the error it
// returns. Delay applies to every call unless Delays names the method.
type Fake struct {
	Settings   *models.AppSettings
	AboutInfo  *models.About
	AboutBody  *models.AboutContent
	Seo        *models.SeoSettings
	Section    *models.ServicesSection
	Tags       []models.BlogTag
	Posts      []models.BlogPost
	Featured   []models.BlogPost
	Services   []models.ServiceItem
	Slides     []models.SliderItem
	Gallery    []models.GalleryItem
	ReviewList []models.CustomerReview
	Stats      *models.ReviewStats

	Errs   map[string]error
	Delay  time.Duration
	Delays map[string]time.Duration

	mu    sync.Mutex
	calls map[string]int
	Sent  []models.ContactMessage
}

func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// SetErr makes method fail with err from now on. A nil err clears it.
func (f *Fake) SetErr(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Errs == nil {
		f.Errs = make(map[string]error)
	}
	if err == nil {
		delete(f.Errs, method)
		return
	}
	f.Errs[method] = err
}

func (f *Fake) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
	err := f.Errs[method]
	delay, ok := f.Delays[method]
	if !ok {
		delay = f.Delay
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *Fake) AppSettings(ctx context.Context) (*models.AppSettings, error) {
	if err := f.enter(ctx, "AppSettings"); err != nil {
		return nil, err
	}
	return f.Settings, nil
}

func (f *Fake) About(ctx context.Context) (*models.About, error) {
	if err := f.enter(ctx, "About"); err != nil {
		return nil, err
	}
	return f.AboutInfo, nil
}

func (f *Fake) AboutContent(ctx context.Context) (*models.AboutContent, error) {
	if err := f.enter(ctx, "AboutContent"); err != nil {
		return nil, err
	}
	return f.AboutBody, nil
}

func (f *Fake) SeoSettings(ctx context.Context) (*models.SeoSettings, error) {
	if err := f.enter(ctx, "SeoSettings"); err != nil {
		return nil, err
	}
	return f.Seo, nil
}

func (f *Fake) ServicesSection(ctx context.Context) (*models.ServicesSection, error) {
	if err := f.enter(ctx, "ServicesSection"); err != nil {
		return nil, err
	}
	return f.Section, nil
}

func (f *Fake) ActiveBlogTags(ctx context.Context) ([]models.BlogTag, error) {
	if err := f.enter(ctx, "ActiveBlogTags"); err != nil {
		return nil, err
	}
	return orEmpty(f.Tags), nil
}

func (f *Fake) PublishedPosts(ctx context.Context) ([]models.BlogPost, error) {
	if err := f.enter(ctx, "PublishedPosts"); err != nil {
		return nil, err
	}
	return orEmpty(f.Posts), nil
}

func (f *Fake) FeaturedPosts(ctx context.Context) ([]models.BlogPost, error) {
	if err := f.enter(ctx, "FeaturedPosts"); err != nil {
		return nil, err
	}
	return orEmpty(f.Featured), nil
}

func (f *Fake) PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if err := f.enter(ctx, "PostBySlug"); err != nil {
		return nil, err
	}
	for i := range f.Posts {
		if f.Posts[i].Slug == slug {
			p := f.Posts[i]
			return &p, nil
		}
	}
	return nil, &api.HTTPError{StatusCode: http.StatusNotFound, Body: fmt.Sprintf(`{"detail":"%s not found"}`, slug)}
}

func (f *Fake) ActiveServices(ctx context.Context) ([]models.ServiceItem, error) {
	if err := f.enter(ctx, "ActiveServices"); err != nil {
		return nil, err
	}
	return orEmpty(f.Services), nil
}

func (f *Fake) ServicesByType(ctx context.Context, t models.ServiceType) ([]models.ServiceItem, error) {
	if err := f.enter(ctx, "ServicesByType"); err != nil {
		return nil, err
	}
	out := []models.ServiceItem{}
	for _, s := range f.Services {
		if s.ServiceType == t {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Fake) ActiveSlides(ctx context.Context) ([]models.SliderItem, error) {
	if err := f.enter(ctx, "ActiveSlides"); err != nil {
		return nil, err
	}
	return orEmpty(f.Slides), nil
}

func (f *Fake) ActiveGalleryImages(ctx context.Context) ([]models.GalleryItem, error) {
	if err := f.enter(ctx, "ActiveGalleryImages"); err != nil {
		return nil, err
	}
	return orEmpty(f.Gallery), nil
}

func (f *Fake) Reviews(ctx context.Context) ([]models.CustomerReview, error) {
	if err := f.enter(ctx, "Reviews"); err != nil {
		return nil, err
	}
	return orEmpty(f.ReviewList), nil
}

func (f *Fake) ReviewStats(ctx context.Context) (*models.ReviewStats, error) {
	if err := f.enter(ctx, "ReviewStats"); err != nil {
		return nil, err
	}
	return f.Stats, nil
}

func (f *Fake) SendContactMessage(ctx context.Context, msg models.ContactMessage) (*models.ContactMessageResponse, error) {
	if err := f.enter(ctx, "SendContactMessage"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.Sent = append(f.Sent, msg)
	id := len(f.Sent)
	f.mu.Unlock()
	return &models.ContactMessageResponse{
		ID:      fmt.Sprintf("msg-%d", id),
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		PetType: msg.PetType,
		Subject: msg.Subject,
		Message: msg.Message,
	}, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
