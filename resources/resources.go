// Package resources wraps each content API resource in a thin service.
// Services log failures and return the client's error unchanged.
package resources

import (
	"cmp"
	"context"
	"slices"

	"go.uber.org/zap"

	"barklounge/models"
)

// Doer is the subset of *api.Client the services need.
type Doer interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// Reader is every public read the pages make.
type Reader interface {
	AppSettings(ctx context.Context) (*models.AppSettings, error)
	About(ctx context.Context) (*models.About, error)
	AboutContent(ctx context.Context) (*models.AboutContent, error)
	SeoSettings(ctx context.Context) (*models.SeoSettings, error)
	ServicesSection(ctx context.Context) (*models.ServicesSection, error)
	ActiveBlogTags(ctx context.Context) ([]models.BlogTag, error)
	PublishedPosts(ctx context.Context) ([]models.BlogPost, error)
	FeaturedPosts(ctx context.Context) ([]models.BlogPost, error)
	PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ActiveServices(ctx context.Context) ([]models.ServiceItem, error)
	ServicesByType(ctx context.Context, t models.ServiceType) ([]models.ServiceItem, error)
	ActiveSlides(ctx context.Context) ([]models.SliderItem, error)
	ActiveGalleryImages(ctx context.Context) ([]models.GalleryItem, error)
	Reviews(ctx context.Context) ([]models.CustomerReview, error)
	ReviewStats(ctx context.Context) (*models.ReviewStats, error)
}

type Sender interface {
	SendContactMessage(ctx context.Context, msg models.ContactMessage) (*models.ContactMessageResponse, error)
}

// Set bundles every service behind one value.
type Set struct {
	*SettingsService
	*BlogService
	*CatalogService
	*SliderService
	*GalleryService
	*ReviewsService
	*ContactService
}

var (
	_ Reader = (*Set)(nil)
	_ Sender = (*Set)(nil)
)

func New(client Doer, log *zap.Logger) *Set {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("resources")
	return &Set{
		SettingsService: &SettingsService{client: client, log: log},
		BlogService:     &BlogService{client: client, log: log},
		CatalogService:  &CatalogService{client: client, log: log},
		SliderService:   &SliderService{client: client, log: log},
		GalleryService:  &GalleryService{client: client, log: log},
		ReviewsService:  &ReviewsService{client: client, log: log},
		ContactService:  &ContactService{client: client, log: log},
	}
}

func get[T any](ctx context.Context, client Doer, log *zap.Logger, path, what string) (T, error) {
	var out T
	if err := client.Get(ctx, path, &out); err != nil {
		log.Error("error fetching "+what, zap.String("path", path), zap.Error(err))
		return out, err
	}
	return out, nil
}

// onlyActive keeps the items with keep(item) true, ordered by orderIndex.
// The result is never nil.
func onlyActive[T any](items []T, keep func(T) bool, orderIndex func(T) int) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(orderIndex(a), orderIndex(b))
	})
	return out
}
