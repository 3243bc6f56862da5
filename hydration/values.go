package hydration

import (
	"context"

	"barklounge/models"
	"barklounge/store"
)

// Each accessor resolves one resource as initial, then store, then a
// fixed fallback. The initial value always wins when present.

const (
	DefaultEmail        = "barkloungetr@gmail.com"
	DefaultPhone        = "+90 546 246 9237"
	DefaultLocation     = "Bahçelievler Mahallesi Ali Rıza Kuzucan Sk. No:50/B\n34180 İstanbul"
	DefaultWorkingHours = "10:00 - 19:00"
	DefaultFooterAbout  = "Siz işteyken, tatildeyken, biricik dostlarınız emin ellerde."
	DefaultCopyright    = "© Bark & Lounge 2025. Tüm Hakları Saklıdır."

	DefaultServicesHeading     = "Neler Yapıyoruz?"
	DefaultServicesDescription = "Evcil dostlarınız için en kaliteli hizmetleri sunuyoruz. 💖 Profesyonel ekibimizle güvenli ve sevgi dolu bir ortam sağlıyoruz."

	DefaultHotelCustomers    = 515
	DefaultGroomingCustomers = 144
)

func pick[T any](initial T, has func(T) bool, fromStore func() T) T {
	if has(initial) {
		return initial
	}
	if v := fromStore(); has(v) {
		return v
	}
	var zero T
	return zero
}

func notNil[T any](p *T) bool      { return p != nil }
func loaded[T any](items []T) bool { return items != nil }

func listOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// AppSettings never returns nil; empty fields carry the business's
// published contact details.
func AppSettings(initial *models.AppSettings, st *store.Store) *models.AppSettings {
	v := pick(initial, notNil[models.AppSettings], func() *models.AppSettings {
		return st.Settings.Snapshot().Data.Settings
	})
	out := models.AppSettings{}
	if v != nil {
		out = *v
	}
	out.EmailAddress = orDefault(out.EmailAddress, DefaultEmail)
	out.PhoneNumber = orDefault(out.PhoneNumber, DefaultPhone)
	out.Location = orDefault(out.Location, DefaultLocation)
	out.WorkingHours = orDefault(out.WorkingHours, DefaultWorkingHours)
	out.FooterAboutText = orDefault(out.FooterAboutText, DefaultFooterAbout)
	out.FooterCopyrightText = orDefault(out.FooterCopyrightText, DefaultCopyright)
	return &out
}

// FooterSettings is AppSettings for pages whose bundle carries no settings.
// It starts a background fetch when the store has none yet.
func FooterSettings(ctx context.Context, st *store.Store) *models.AppSettings {
	_, _ = st.EnsureAsync(ctx, store.KeySettings)
	return AppSettings(nil, st)
}

// SeoSettings may return nil; metadata has its own fallbacks.
func SeoSettings(initial *models.SeoSettings, st *store.Store) *models.SeoSettings {
	v := pick(initial, notNil[models.SeoSettings], func() *models.SeoSettings {
		return st.Settings.Snapshot().Data.Seo
	})
	return v
}

func ServicesSection(initial *models.ServicesSection, st *store.Store) *models.ServicesSection {
	v := pick(initial, notNil[models.ServicesSection], func() *models.ServicesSection {
		return st.Settings.Snapshot().Data.ServicesSection
	})
	out := models.ServicesSection{}
	if v != nil {
		out = *v
	}
	out.Heading = orDefault(out.Heading, DefaultServicesHeading)
	out.Description = orDefault(out.Description, DefaultServicesDescription)
	return &out
}

func About(initial *models.About, st *store.Store) *models.About {
	v := pick(initial, notNil[models.About], func() *models.About {
		return st.About.Snapshot().Data.About
	})
	out := models.About{}
	if v != nil {
		out = *v
	}
	if out.PetHotelCustomers == 0 {
		out.PetHotelCustomers = DefaultHotelCustomers
	}
	if out.PetGroomingCustomers == 0 {
		out.PetGroomingCustomers = DefaultGroomingCustomers
	}
	return &out
}

// AboutContent may return nil.
func AboutContent(initial *models.AboutContent, st *store.Store) *models.AboutContent {
	v := pick(initial, notNil[models.AboutContent], func() *models.AboutContent {
		return st.About.Snapshot().Data.Content
	})
	return v
}

// ReviewStats may return nil; it is never derived from the review list.
func ReviewStats(initial *models.ReviewStats, st *store.Store) *models.ReviewStats {
	v := pick(initial, notNil[models.ReviewStats], func() *models.ReviewStats {
		return st.Reviews.Snapshot().Data.Stats
	})
	return v
}

// CurrentPost returns the post for slug, or nil.
func CurrentPost(initial *models.BlogPost, slug string, st *store.Store) *models.BlogPost {
	if initial != nil {
		return initial
	}
	if cur := st.Blog.Snapshot().Data.Current; cur != nil && cur.Slug == slug {
		return cur
	}
	return nil
}

func BlogTags(initial []models.BlogTag, st *store.Store) []models.BlogTag {
	return listOrEmpty(pick(initial, loaded[models.BlogTag], func() []models.BlogTag {
		return st.Settings.Snapshot().Data.BlogTags
	}))
}

func Posts(initial []models.BlogPost, st *store.Store) []models.BlogPost {
	return listOrEmpty(pick(initial, loaded[models.BlogPost], func() []models.BlogPost {
		return st.Blog.Snapshot().Data.Posts
	}))
}

func FeaturedPosts(initial []models.BlogPost, st *store.Store) []models.BlogPost {
	return listOrEmpty(pick(initial, loaded[models.BlogPost], func() []models.BlogPost {
		return st.Blog.Snapshot().Data.Featured
	}))
}

func Services(initial []models.ServiceItem, st *store.Store) []models.ServiceItem {
	return listOrEmpty(pick(initial, loaded[models.ServiceItem], func() []models.ServiceItem {
		return st.Services.Snapshot().Data.Services
	}))
}

func Slides(initial []models.SliderItem, st *store.Store) []models.SliderItem {
	return listOrEmpty(pick(initial, loaded[models.SliderItem], func() []models.SliderItem {
		return st.Slider.Snapshot().Data.Slides
	}))
}

func Gallery(initial []models.GalleryItem, st *store.Store) []models.GalleryItem {
	return listOrEmpty(pick(initial, loaded[models.GalleryItem], func() []models.GalleryItem {
		return st.Gallery.Snapshot().Data.Images
	}))
}

func Reviews(initial []models.CustomerReview, st *store.Store) []models.CustomerReview {
	return listOrEmpty(pick(initial, loaded[models.CustomerReview], func() []models.CustomerReview {
		return st.Reviews.Snapshot().Data.Reviews
	}))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
