// Package store holds one visitor's page data as independent slices, each
// with its own idle/loading/succeeded/failed state machine.
package store

import (
	"context"
	"sync"
	"time"

	"barklounge/api"
	"barklounge/models"
	"barklounge/resources"
)

// DefaultRetryAfter is how long a failed fetch stays settled before a
// mount may start it again.
const DefaultRetryAfter = 30 * time.Second

type Store struct {
	Settings Slice[SettingsData]
	About    Slice[AboutData]
	Blog     Slice[BlogData]
	Services Slice[ServicesData]
	Slider   Slice[SliderData]
	Gallery  Slice[GalleryData]
	Reviews  Slice[ReviewsData]
	Contact  ContactSlice

	reader     resources.Reader
	sender     resources.Sender
	resetAfter time.Duration
	retryAfter time.Duration

	mu      sync.Mutex
	seeded  map[string]struct{}
	fetches map[string]*fetch
}

// fetch tracks one key, or one post slug, independently of the other keys
// sharing its slice.
type fetch struct {
	loading  bool
	err      error
	msg      string
	failedAt time.Time
}

type Options struct {
	Reader resources.Reader
	Sender resources.Sender
	// ContactResetAfter is how long a successful contact send stays visible.
	ContactResetAfter time.Duration
	// RetryAfter defaults to DefaultRetryAfter.
	RetryAfter time.Duration
}

func New(opts Options) *Store {
	retryAfter := opts.RetryAfter
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	return &Store{
		reader:     opts.Reader,
		sender:     opts.Sender,
		resetAfter: opts.ContactResetAfter,
		retryAfter: retryAfter,
		seeded:     make(map[string]struct{}),
		fetches:    make(map[string]*fetch),
	}
}

// MarkSeeded records bundle id and reports whether it was new for this store.
func (s *Store) MarkSeeded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seeded[id]; ok {
		return false
	}
	s.seeded[id] = struct{}{}
	return true
}

// begin marks j in flight and its slice loading. Unless forced it refuses
// when the value is present, j is already in flight, or j failed less than
// retryAfter ago.
func (s *Store) begin(j job, force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fetches[j.name]
	if !ok {
		f = &fetch{}
		s.fetches[j.name] = f
	}
	if !force {
		if f.loading || (f.err != nil && time.Since(f.failedAt) < s.retryAfter) {
			return false
		}
		if j.has != nil && j.has() {
			return false
		}
	}
	f.loading = true
	f.err, f.msg = nil, ""
	j.start()
	return true
}

func (s *Store) run(ctx context.Context, j job) {
	err := j.run(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fetches[j.name]
	f.loading = false
	f.err = err
	if err != nil {
		f.msg = errorMessage(err, j.failMsg)
		f.failedAt = time.Now()
	}
}

func (s *Store) state(name string) (Status, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fetches[name]
	switch {
	case !ok:
		return StatusIdle, "", nil
	case f.loading:
		return StatusLoading, "", nil
	case f.err != nil:
		return StatusFailed, f.msg, f.err
	}
	return StatusSucceeded, "", nil
}

// Status reports key's own fetch state and error message. A key seeded
// without ever being fetched is succeeded.
func (s *Store) Status(key Key) (Status, string) {
	status, msg, _ := s.state(string(key))
	if status == StatusIdle && s.Has(key) {
		return StatusSucceeded, ""
	}
	return status, msg
}

// PostStatus is Status for the detail post of slug, with the error the
// last fetch ended with.
func (s *Store) PostStatus(slug string) (Status, error) {
	status, _, err := s.state(postName(slug))
	return status, err
}

// Settle forgets the failures of keys, for values that arrived another way.
func (s *Store) Settle(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if f, ok := s.fetches[string(k)]; ok {
			f.err, f.msg = nil, ""
		}
	}
}

func (s *Store) SettlePost(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fetches[postName(slug)]; ok {
		f.err, f.msg = nil, ""
	}
}

// Fetch unconditionally refetches key. Failures land in the slice's Error.
func (s *Store) Fetch(ctx context.Context, key Key) error {
	j, err := s.job(key)
	if err != nil {
		return err
	}
	s.begin(j, true)
	s.run(ctx, j)
	return nil
}

// Ensure fetches key only when it has no value, no fetch in flight and no
// recent failure. It reports whether a fetch ran.
func (s *Store) Ensure(ctx context.Context, key Key) (bool, error) {
	j, err := s.job(key)
	if err != nil {
		return false, err
	}
	if !s.begin(j, false) {
		return false, nil
	}
	s.run(ctx, j)
	return true, nil
}

// EnsureAsync is Ensure with the request itself running in the background,
// detached from the request that started it. The slice is already loading
// when it returns true.
func (s *Store) EnsureAsync(ctx context.Context, key Key) (bool, error) {
	j, err := s.job(key)
	if err != nil {
		return false, err
	}
	if !s.begin(j, false) {
		return false, nil
	}
	go s.run(api.Detach(ctx), j)
	return true, nil
}

// Has reports whether the slice behind key holds a value for it.
func (s *Store) Has(key Key) bool {
	switch key {
	case KeySettings:
		return s.Settings.Snapshot().Data.Settings != nil
	case KeySeo:
		return s.Settings.Snapshot().Data.Seo != nil
	case KeyServicesSection:
		return s.Settings.Snapshot().Data.ServicesSection != nil
	case KeyBlogTags:
		return s.Settings.Snapshot().Data.BlogTags != nil
	case KeyAbout:
		return s.About.Snapshot().Data.About != nil
	case KeyAboutContent:
		return s.About.Snapshot().Data.Content != nil
	case KeyPosts:
		return s.Blog.Snapshot().Data.Posts != nil
	case KeyFeatured:
		return s.Blog.Snapshot().Data.Featured != nil
	case KeyServices:
		return s.Services.Snapshot().Data.Services != nil
	case KeySlides:
		return s.Slider.Snapshot().Data.Slides != nil
	case KeyGallery:
		return s.Gallery.Snapshot().Data.Images != nil
	case KeyReviews:
		return s.Reviews.Snapshot().Data.Reviews != nil
	case KeyReviewStats:
		return s.Reviews.Snapshot().Data.Stats != nil
	}
	return false
}

func (s *Store) FetchAppSettings(ctx context.Context)     { s.mustFetch(ctx, KeySettings) }
func (s *Store) FetchSeoSettings(ctx context.Context)     { s.mustFetch(ctx, KeySeo) }
func (s *Store) FetchServicesSection(ctx context.Context) { s.mustFetch(ctx, KeyServicesSection) }
func (s *Store) FetchBlogTags(ctx context.Context)        { s.mustFetch(ctx, KeyBlogTags) }
func (s *Store) FetchAbout(ctx context.Context)           { s.mustFetch(ctx, KeyAbout) }
func (s *Store) FetchAboutContent(ctx context.Context)    { s.mustFetch(ctx, KeyAboutContent) }
func (s *Store) FetchPublishedPosts(ctx context.Context)  { s.mustFetch(ctx, KeyPosts) }
func (s *Store) FetchFeaturedPosts(ctx context.Context)   { s.mustFetch(ctx, KeyFeatured) }
func (s *Store) FetchServices(ctx context.Context)        { s.mustFetch(ctx, KeyServices) }
func (s *Store) FetchSlides(ctx context.Context)          { s.mustFetch(ctx, KeySlides) }
func (s *Store) FetchGalleryImages(ctx context.Context)   { s.mustFetch(ctx, KeyGallery) }
func (s *Store) FetchReviews(ctx context.Context)         { s.mustFetch(ctx, KeyReviews) }
func (s *Store) FetchReviewStats(ctx context.Context)     { s.mustFetch(ctx, KeyReviewStats) }

// Known keys never fail lookup.
func (s *Store) mustFetch(ctx context.Context, key Key) {
	_ = s.Fetch(ctx, key)
}

// FetchPostBySlug loads the detail post. On failure the current post is
// dropped so a stale post never renders under another slug.
func (s *Store) FetchPostBySlug(ctx context.Context, slug string) {
	j := s.postJob(slug)
	s.begin(j, true)
	s.run(ctx, j)
}

// EnsurePostBySlug fetches in the background unless slug is already the
// current post, its fetch is in flight, or it failed recently.
func (s *Store) EnsurePostBySlug(ctx context.Context, slug string) bool {
	j := s.postJob(slug)
	if !s.begin(j, false) {
		return false
	}
	go s.run(api.Detach(ctx), j)
	return true
}

// FetchServicesByType replaces the services list with the active services
// of one type.
func (s *Store) FetchServicesByType(ctx context.Context, t models.ServiceType) {
	j := newJob(string(KeyServices)+":"+string(t), &s.Services, nil, "Hizmetler yüklenirken hata oluştu",
		func(ctx context.Context) ([]models.ServiceItem, error) { return s.reader.ServicesByType(ctx, t) },
		func(d *ServicesData, v []models.ServiceItem) { d.Services = v })
	s.begin(j, true)
	s.run(ctx, j)
}

// SendContactMessage submits msg and records the outcome on the contact
// slice. It returns the created record, or nil on failure.
func (s *Store) SendContactMessage(ctx context.Context, msg models.ContactMessage) *models.ContactMessageResponse {
	s.Contact.Pending()
	resp, err := s.sender.SendContactMessage(ctx, msg)
	if err != nil {
		s.Contact.Rejected(errorMessage(err, "İletişim mesajı gönderilirken hata oluştu"))
		return nil
	}
	s.Contact.Fulfilled(s.resetAfter)
	return resp
}

func postName(slug string) string { return "post:" + slug }

func (s *Store) postJob(slug string) job {
	const failMsg = "Blog yazısı yüklenirken hata oluştu"
	return job{
		name:    postName(slug),
		failMsg: failMsg,
		has: func() bool {
			cur := s.Blog.Snapshot().Data.Current
			return cur != nil && cur.Slug == slug
		},
		start: s.Blog.Pending,
		run: func(ctx context.Context) error {
			post, err := s.reader.PostBySlug(ctx, slug)
			if err != nil {
				s.Blog.RejectedWith(errorMessage(err, failMsg),
					func(d *BlogData) { d.Current = nil })
				return err
			}
			s.Blog.Fulfilled(func(d *BlogData) { d.Current = post })
			return nil
		},
	}
}

func errorMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
