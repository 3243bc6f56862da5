package loader

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"barklounge/models"
)

// Metadata is the head of a page. Loading it never fails.
type Metadata struct {
	Title         string
	Description   string
	Keywords      string
	Author        string
	Canonical     string
	OGType        string
	OGTitle       string
	OGDescription string
	OGImage       string
	TwitterCard   string
	PublishedTime time.Time
	Tags          []string
}

var (
	homeFallback = Metadata{
		Title:         "Bark & Lounge - Pet Kuaför, Kreş ve Otel | Evcil Hayvan Bakım Merkezi",
		Description:   "Bark Lounge ailesi olarak evcil dostlarınıza konfor ve mutluluk sunuyoruz. Modern, hijyenik ortamda pet kuaför, bakım ve konaklama hizmetleri veriyoruz. Köpek ve kedi bakımı, eğitimi, pet hotel hizmetleri.",
		Keywords:      "pet kuaför, köpek kuaförü, kedi bakımı, pet hotel, evcil hayvan oteli, pet kreş, köpek eğitimi, pet bakım merkezi, Bark&Lounge",
		OGType:        "website",
		OGTitle:       "Bark & Lounge - Pet Kuaför, Kreş ve Otel",
		OGDescription: "Evcil dostlarınıza konfor ve mutluluk sunuyoruz. Modern, hijyenik ortamda pet kuaför, bakım ve konaklama hizmetleri.",
		OGImage:       "/static/images/home-og.jpg",
		TwitterCard:   "summary_large_image",
	}

	blogFallback = Metadata{
		Title:         "Blog | Bark&Lounge - Pet Bakım Rehberleri ve İpuçları",
		Description:   "Evcil hayvan bakımı, eğitimi ve sağlığı hakkında uzman tavsiyeleri. Köpek ve kedi bakım rehberleri, beslenme önerileri ve daha fazlası.",
		Keywords:      "pet bakım, köpek bakımı, kedi bakımı, evcil hayvan sağlığı, pet eğitimi, Bark&Lounge blog",
		OGType:        "website",
		OGTitle:       "Blog | Bark&Lounge - Pet Bakım Rehberleri",
		OGDescription: "Evcil hayvan bakımı, eğitimi ve sağlığı hakkında uzman tavsiyeleri.",
		OGImage:       "/static/images/blog-og.jpg",
		TwitterCard:   "summary_large_image",
	}

	postFallback = Metadata{
		Title:         "Blog Yazısı | Bark&Lounge",
		Description:   "Bark&Lounge blog yazısı",
		Keywords:      "bark lounge, pet, blog",
		OGType:        "article",
		OGTitle:       "Blog Yazısı | Bark&Lounge",
		OGDescription: "Bark&Lounge blog yazısı",
		TwitterCard:   "summary_large_image",
	}
)

// HomeMetadata builds the landing page head from seo, fetching it when
// seo is nil.
func (l *Loader) HomeMetadata(ctx context.Context, seo *models.SeoSettings) Metadata {
	seo, ok := l.seo(ctx, seo)
	if !ok {
		return homeFallback
	}
	m := homeFallback
	m.Title = or(seo.Title, m.Title)
	m.Description = or(seo.Description, m.Description)
	m.Keywords = or(seo.Keywords, m.Keywords)
	m.OGTitle = or(seo.OgTitle, m.OGTitle)
	m.OGDescription = or(seo.OgDescription, m.OGDescription)
	m.OGImage = or(seo.OgImageURL, m.OGImage)
	m.TwitterCard = or(seo.TwitterCard, m.TwitterCard)
	m.Canonical = seo.CanonicalURL
	return m
}

// BlogMetadata reuses the site title with its home label swapped for "Blog".
func (l *Loader) BlogMetadata(ctx context.Context, seo *models.SeoSettings) Metadata {
	seo, ok := l.seo(ctx, seo)
	if !ok {
		return blogFallback
	}
	m := blogFallback
	if seo.Title != "" {
		m.Title = BlogTitle(seo.Title)
	}
	m.Description = or(seo.Description, m.Description)
	m.Keywords = or(seo.Keywords, m.Keywords)
	m.OGImage = or(seo.OgImageURL, m.OGImage)
	return m
}

func BlogTitle(siteTitle string) string {
	t := strings.Replace(siteTitle, "Ana Sayfa", "Blog", 1)
	return strings.Replace(t, "Anasayfa", "Blog", 1)
}

// PostMetadata describes post, fetching it by slug when post is nil.
func (l *Loader) PostMetadata(ctx context.Context, slug string, post *models.BlogPost) Metadata {
	if post == nil {
		p, err := l.reader.PostBySlug(ctx, slug)
		if err != nil || p == nil {
			l.log.Debug("post metadata fell back", zap.String("slug", slug), zap.Error(err))
			return postFallback
		}
		post = p
	}

	keywords := strings.Join(post.Tags, ", ")
	return Metadata{
		Title:         post.Title + " | Bark&Lounge Blog",
		Description:   post.Excerpt,
		Keywords:      or(keywords, postFallback.Keywords),
		Author:        post.Author,
		OGType:        "article",
		OGTitle:       post.Title,
		OGDescription: post.Excerpt,
		OGImage:       post.CoverImageURL,
		TwitterCard:   "summary_large_image",
		PublishedTime: post.CreatedAt,
		Tags:          post.Tags,
	}
}

func (l *Loader) seo(ctx context.Context, seo *models.SeoSettings) (*models.SeoSettings, bool) {
	if seo != nil {
		return seo, true
	}
	fetched, err := l.reader.SeoSettings(ctx)
	if err != nil || fetched == nil {
		l.log.Debug("seo metadata fell back", zap.Error(err))
		return nil, false
	}
	return fetched, true
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
