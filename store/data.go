package store

import "barklounge/models"

// A nil pointer or nil slice means the value was never loaded; an empty
// non-nil slice is a loaded empty list.

type SettingsData struct {
	Settings        *models.AppSettings     `json:"settings"`
	Seo             *models.SeoSettings     `json:"seo_settings"`
	ServicesSection *models.ServicesSection `json:"services_section"`
	BlogTags        []models.BlogTag        `json:"blog_tags"`
}

type AboutData struct {
	About   *models.About        `json:"about"`
	Content *models.AboutContent `json:"about_content"`
}

type BlogData struct {
	Posts    []models.BlogPost `json:"posts"`
	Featured []models.BlogPost `json:"featured_posts"`
	Current  *models.BlogPost  `json:"current_post"`
}

type ServicesData struct {
	Services []models.ServiceItem `json:"services"`
}

type SliderData struct {
	Slides []models.SliderItem `json:"slides"`
}

type GalleryData struct {
	Images []models.GalleryItem `json:"images"`
}

type ReviewsData struct {
	Reviews []models.CustomerReview `json:"reviews"`
	Stats   *models.ReviewStats     `json:"review_stats"`
}

type ContactState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}
