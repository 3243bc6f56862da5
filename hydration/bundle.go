// Package hydration moves server-loaded page data into a visitor's store
// and resolves what each page section should render.
package hydration

import (
	"encoding/json"
	"html/template"

	"github.com/google/uuid"

	"barklounge/models"
	"barklounge/store"
)

// Bundle is a one-shot snapshot from a page loader.
type Bundle interface {
	BundleID() string
	seed(st *store.Store)
}

func NewID() string {
	return uuid.NewString()
}

type HomeBundle struct {
	ID              string                  `json:"id"`
	AppSettings     *models.AppSettings     `json:"app_settings"`
	About           *models.About           `json:"about"`
	AboutContent    *models.AboutContent    `json:"about_content"`
	SeoSettings     *models.SeoSettings     `json:"seo_settings"`
	ServicesSection *models.ServicesSection `json:"services_section"`
	Slides          []models.SliderItem     `json:"slides"`
	Services        []models.ServiceItem    `json:"services"`
	Gallery         []models.GalleryItem    `json:"gallery"`
	Reviews         []models.CustomerReview `json:"reviews"`
	ReviewStats     *models.ReviewStats     `json:"review_stats"`
	FeaturedPosts   []models.BlogPost       `json:"blog_posts"`
	BlogTags        []models.BlogTag        `json:"blog_tags"`
}

func (b *HomeBundle) BundleID() string {
	if b == nil {
		return ""
	}
	return b.ID
}

func (b *HomeBundle) seed(st *store.Store) {
	st.Settings.Seed(func(d *store.SettingsData) {
		d.Settings = b.AppSettings
		d.Seo = b.SeoSettings
		d.ServicesSection = b.ServicesSection
		d.BlogTags = b.BlogTags
	})
	st.About.Seed(func(d *store.AboutData) {
		d.About = b.About
		d.Content = b.AboutContent
	})
	st.Slider.Seed(func(d *store.SliderData) { d.Slides = b.Slides })
	st.Services.Seed(func(d *store.ServicesData) { d.Services = b.Services })
	st.Gallery.Seed(func(d *store.GalleryData) { d.Images = b.Gallery })
	st.Reviews.Seed(func(d *store.ReviewsData) {
		d.Reviews = b.Reviews
		d.Stats = b.ReviewStats
	})
	// Home only knows the featured posts; the full list stays as is.
	st.Blog.Seed(func(d *store.BlogData) { d.Featured = b.FeaturedPosts })
	st.Settle(store.KeySettings, store.KeySeo, store.KeyServicesSection, store.KeyBlogTags,
		store.KeyAbout, store.KeyAboutContent, store.KeySlides, store.KeyServices, store.KeyGallery,
		store.KeyReviews, store.KeyReviewStats, store.KeyFeatured)
}

type BlogListBundle struct {
	ID            string            `json:"id"`
	Posts         []models.BlogPost `json:"posts"`
	FeaturedPosts []models.BlogPost `json:"featured_posts"`
	BlogTags      []models.BlogTag  `json:"blog_tags"`
}

func (b *BlogListBundle) BundleID() string {
	if b == nil {
		return ""
	}
	return b.ID
}

func (b *BlogListBundle) seed(st *store.Store) {
	st.Blog.Seed(func(d *store.BlogData) {
		d.Posts = b.Posts
		d.Featured = b.FeaturedPosts
	})
	st.Settings.Seed(func(d *store.SettingsData) { d.BlogTags = b.BlogTags })
	st.Settle(store.KeyPosts, store.KeyFeatured, store.KeyBlogTags)
}

type BlogPostBundle struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Post         *models.BlogPost  `json:"post"`
	RelatedPosts []models.BlogPost `json:"related_posts"`
}

func (b *BlogPostBundle) BundleID() string {
	if b == nil {
		return ""
	}
	return b.ID
}

func (b *BlogPostBundle) seed(st *store.Store) {
	st.Blog.Seed(func(d *store.BlogData) { d.Current = b.Post })
	st.SettlePost(b.Slug)
}

// Script renders b as the JSON payload of the page's __SSR_DATA__ script tag.
func Script(b Bundle) (template.JS, error) {
	if !Present(b) {
		return template.JS("null"), nil
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return template.JS(raw), nil
}

// Present reports whether b is a real bundle. Typed nil pointers count
// as absent.
func Present(b Bundle) bool {
	return b != nil && b.BundleID() != ""
}
