package resources

import (
	"context"

	"go.uber.org/zap"

	"barklounge/models"
)

type SettingsService struct {
	client Doer
	log    *zap.Logger
}

func (s *SettingsService) AppSettings(ctx context.Context) (*models.AppSettings, error) {
	return get[*models.AppSettings](ctx, s.client, s.log, "app-settings", "app settings")
}

func (s *SettingsService) About(ctx context.Context) (*models.About, error) {
	return get[*models.About](ctx, s.client, s.log, "about", "about")
}

func (s *SettingsService) AboutContent(ctx context.Context) (*models.AboutContent, error) {
	return get[*models.AboutContent](ctx, s.client, s.log, "about-content", "about content")
}

func (s *SettingsService) SeoSettings(ctx context.Context) (*models.SeoSettings, error) {
	return get[*models.SeoSettings](ctx, s.client, s.log, "seo", "seo settings")
}

func (s *SettingsService) ServicesSection(ctx context.Context) (*models.ServicesSection, error) {
	return get[*models.ServicesSection](ctx, s.client, s.log, "services-section", "services section")
}

// ActiveBlogTags returns the tags the API serves publicly; the endpoint
// already excludes inactive ones.
func (s *SettingsService) ActiveBlogTags(ctx context.Context) ([]models.BlogTag, error) {
	tags, err := get[[]models.BlogTag](ctx, s.client, s.log, "blog-tags", "blog tags")
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.BlogTag{}
	}
	return tags, nil
}
