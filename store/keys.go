package store

import (
	"context"
	"fmt"

	"barklounge/models"
)

// Key names one independently fetchable value.
type Key string

const (
	KeySettings        Key = "settings"
	KeySeo             Key = "seo"
	KeyServicesSection Key = "services-section"
	KeyBlogTags        Key = "blog-tags"
	KeyAbout           Key = "about"
	KeyAboutContent    Key = "about-content"
	KeyPosts           Key = "posts"
	KeyFeatured        Key = "featured"
	KeyServices        Key = "services"
	KeySlides          Key = "slides"
	KeyGallery         Key = "gallery"
	KeyReviews         Key = "reviews"
	KeyReviewStats     Key = "review-stats"
)

var Keys = []Key{
	KeySettings, KeySeo, KeyServicesSection, KeyBlogTags,
	KeyAbout, KeyAboutContent,
	KeyPosts, KeyFeatured,
	KeyServices, KeySlides, KeyGallery,
	KeyReviews, KeyReviewStats,
}

func ParseKey(s string) (Key, error) {
	for _, k := range Keys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("store: unknown resource key %q", s)
}

// job is one fetch: name keys its bookkeeping on the store, start flips
// the slice to loading and run performs the request and lands the result.
type job struct {
	name    string
	failMsg string
	has     func() bool
	start   func()
	run     func(ctx context.Context) error
}

func newJob[T, V any](name string, sl *Slice[T], has func(*T) bool, failMsg string,
	fetch func(context.Context) (V, error), apply func(*T, V)) job {
	j := job{
		name:    name,
		failMsg: failMsg,
		start:   sl.Pending,
		run: func(ctx context.Context) error {
			v, err := fetch(ctx)
			if err != nil {
				sl.Rejected(errorMessage(err, failMsg))
				return err
			}
			sl.Fulfilled(func(d *T) { apply(d, v) })
			return nil
		},
	}
	if has != nil {
		j.has = func() bool {
			d := sl.Snapshot().Data
			return has(&d)
		}
	}
	return j
}

func (s *Store) job(key Key) (job, error) {
	r := s.reader
	name := string(key)
	switch key {
	case KeySettings:
		return newJob(name, &s.Settings,
			func(d *SettingsData) bool { return d.Settings != nil },
			"Uygulama ayarları yüklenirken hata oluştu",
			r.AppSettings,
			func(d *SettingsData, v *models.AppSettings) { d.Settings = v }), nil
	case KeySeo:
		return newJob(name, &s.Settings,
			func(d *SettingsData) bool { return d.Seo != nil },
			"SEO ayarları yüklenirken hata oluştu",
			r.SeoSettings,
			func(d *SettingsData, v *models.SeoSettings) { d.Seo = v }), nil
	case KeyServicesSection:
		return newJob(name, &s.Settings,
			func(d *SettingsData) bool { return d.ServicesSection != nil },
			"Hizmetler bölümü bilgileri yüklenirken hata oluştu",
			r.ServicesSection,
			func(d *SettingsData, v *models.ServicesSection) { d.ServicesSection = v }), nil
	case KeyBlogTags:
		return newJob(name, &s.Settings,
			func(d *SettingsData) bool { return d.BlogTags != nil },
			"Blog etiketleri yüklenirken hata oluştu",
			r.ActiveBlogTags,
			func(d *SettingsData, v []models.BlogTag) { d.BlogTags = v }), nil
	case KeyAbout:
		return newJob(name, &s.About,
			func(d *AboutData) bool { return d.About != nil },
			"Hakkımızda bilgileri yüklenirken hata oluştu",
			r.About,
			func(d *AboutData, v *models.About) { d.About = v }), nil
	case KeyAboutContent:
		return newJob(name, &s.About,
			func(d *AboutData) bool { return d.Content != nil },
			"Hakkımızda içeriği yüklenirken hata oluştu",
			r.AboutContent,
			func(d *AboutData, v *models.AboutContent) { d.Content = v }), nil
	case KeyPosts:
		return newJob(name, &s.Blog,
			func(d *BlogData) bool { return d.Posts != nil },
			"Blog yazıları yüklenirken hata oluştu",
			r.PublishedPosts,
			func(d *BlogData, v []models.BlogPost) { d.Posts = v }), nil
	case KeyFeatured:
		return newJob(name, &s.Blog,
			func(d *BlogData) bool { return d.Featured != nil },
			"Öne çıkan yazılar yüklenirken hata oluştu",
			r.FeaturedPosts,
			func(d *BlogData, v []models.BlogPost) { d.Featured = v }), nil
	case KeyServices:
		return newJob(name, &s.Services,
			func(d *ServicesData) bool { return d.Services != nil },
			"Hizmetler yüklenirken hata oluştu",
			r.ActiveServices,
			func(d *ServicesData, v []models.ServiceItem) { d.Services = v }), nil
	case KeySlides:
		return newJob(name, &s.Slider,
			func(d *SliderData) bool { return d.Slides != nil },
			"Slider yüklenirken hata oluştu",
			r.ActiveSlides,
			func(d *SliderData, v []models.SliderItem) { d.Slides = v }), nil
	case KeyGallery:
		return newJob(name, &s.Gallery,
			func(d *GalleryData) bool { return d.Images != nil },
			"Galeri yüklenirken hata oluştu",
			r.ActiveGalleryImages,
			func(d *GalleryData, v []models.GalleryItem) { d.Images = v }), nil
	case KeyReviews:
		return newJob(name, &s.Reviews,
			func(d *ReviewsData) bool { return d.Reviews != nil },
			"Yorumlar yüklenirken hata oluştu",
			r.Reviews,
			func(d *ReviewsData, v []models.CustomerReview) { d.Reviews = v }), nil
	case KeyReviewStats:
		return newJob(name, &s.Reviews,
			func(d *ReviewsData) bool { return d.Stats != nil },
			"Yorum istatistikleri yüklenirken hata oluştu",
			r.ReviewStats,
			func(d *ReviewsData, v *models.ReviewStats) { d.Stats = v }), nil
	}
	return job{}, fmt.Errorf("store: unknown resource key %q", key)
}
