package resources

import (
	"context"

	"go.uber.org/zap"

	"barklounge/models"
)

// CatalogService serves the business's service offerings (hotel, grooming, daycare).
type CatalogService struct {
	client Doer
	log    *zap.Logger
}

func (s *CatalogService) ActiveServices(ctx context.Context) ([]models.ServiceItem, error) {
	items, err := get[[]models.ServiceItem](ctx, s.client, s.log, "services", "services")
	if err != nil {
		return nil, err
	}
	return onlyActive(items,
		func(it models.ServiceItem) bool { return it.IsActive },
		func(it models.ServiceItem) int { return it.OrderIndex }), nil
}

// AllServices includes inactive items.
func (s *CatalogService) AllServices(ctx context.Context) ([]models.ServiceItem, error) {
	return get[[]models.ServiceItem](ctx, s.client, s.log, "services/all", "all services")
}

func (s *CatalogService) ServicesByType(ctx context.Context, t models.ServiceType) ([]models.ServiceItem, error) {
	items, err := s.ActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ServiceItem, 0, len(items))
	for _, it := range items {
		if it.ServiceType == t {
			out = append(out, it)
		}
	}
	return out, nil
}

type SliderService struct {
	client Doer
	log    *zap.Logger
}

func (s *SliderService) ActiveSlides(ctx context.Context) ([]models.SliderItem, error) {
	items, err := get[[]models.SliderItem](ctx, s.client, s.log, "slider", "slides")
	if err != nil {
		return nil, err
	}
	return onlyActive(items,
		func(it models.SliderItem) bool { return it.IsActive },
		func(it models.SliderItem) int { return it.OrderIndex }), nil
}

func (s *SliderService) AllSlides(ctx context.Context) ([]models.SliderItem, error) {
	return get[[]models.SliderItem](ctx, s.client, s.log, "slider/all", "all slides")
}

type GalleryService struct {
	client Doer
	log    *zap.Logger
}

func (s *GalleryService) ActiveGalleryImages(ctx context.Context) ([]models.GalleryItem, error) {
	items, err := get[[]models.GalleryItem](ctx, s.client, s.log, "gallery", "gallery images")
	if err != nil {
		return nil, err
	}
	return onlyActive(items,
		func(it models.GalleryItem) bool { return it.IsActive },
		func(it models.GalleryItem) int { return it.OrderIndex }), nil
}

func (s *GalleryService) AllGalleryImages(ctx context.Context) ([]models.GalleryItem, error) {
	return get[[]models.GalleryItem](ctx, s.client, s.log, "gallery/all", "all gallery images")
}

type ReviewsService struct {
	client Doer
	log    *zap.Logger
}

func (s *ReviewsService) Reviews(ctx context.Context) ([]models.CustomerReview, error) {
	items, err := get[[]models.CustomerReview](ctx, s.client, s.log, "reviews", "reviews")
	if err != nil {
		return nil, err
	}
	return onlyActive(items,
		func(models.CustomerReview) bool { return true },
		func(it models.CustomerReview) int { return it.OrderIndex }), nil
}

func (s *ReviewsService) AllReviews(ctx context.Context) ([]models.CustomerReview, error) {
	return get[[]models.CustomerReview](ctx, s.client, s.log, "reviews/all", "all reviews")
}

// ReviewStats is fetched on its own and never reconciled with Reviews.
func (s *ReviewsService) ReviewStats(ctx context.Context) (*models.ReviewStats, error) {
	return get[*models.ReviewStats](ctx, s.client, s.log, "review-stats", "review stats")
}
