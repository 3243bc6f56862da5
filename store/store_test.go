package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barklounge/api"
	"barklounge/models"
	"barklounge/resources/resourcestest"
)

func setupTestStore(fake *resourcestest.Fake) *Store {
	return New(Options{Reader: fake, Sender: fake, ContactResetAfter: 0})
}

func TestSeedIsIdempotentFromAnyState(t *testing.T) {
	x := []models.SliderItem{{ID: "a", IsActive: true}}
	seed := func(d *SliderData) { d.Slides = x }

	prepare := map[string]func(*Slice[SliderData]){
		"idle":    func(*Slice[SliderData]) {},
		"loading": func(s *Slice[SliderData]) { s.Pending() },
		"failed": func(s *Slice[SliderData]) {
			s.Pending()
			s.Rejected("boom")
		},
		"succeeded": func(s *Slice[SliderData]) {
			s.Fulfilled(func(d *SliderData) { d.Slides = []models.SliderItem{{ID: "old"}} })
		},
	}

	for name, prep := range prepare {
		t.Run(name, func(t *testing.T) {
			var s Slice[SliderData]
			prep(&s)
			for i := 0; i < 3; i++ {
				s.Seed(seed)
				st := s.Snapshot()
				assert.Equal(t, x, st.Data.Slides)
				assert.False(t, st.Loading)
				assert.Empty(t, st.Error)
				assert.Equal(t, StatusSucceeded, st.Status)
			}
		})
	}
}

func TestTransitions(t *testing.T) {
	var s Slice[GalleryData]
	assert.Equal(t, StatusIdle, s.Snapshot().Status)

	s.Fulfilled(func(d *GalleryData) { d.Images = []models.GalleryItem{{ID: "1"}} })
	s.Pending()
	st := s.Snapshot()
	assert.True(t, st.Loading)
	assert.Equal(t, StatusLoading, st.Status)
	assert.Len(t, st.Data.Images, 1, "pending keeps stale data")

	s.Rejected("kaput")
	st = s.Snapshot()
	assert.False(t, st.Loading)
	assert.Equal(t, "kaput", st.Error)
	assert.Equal(t, StatusFailed, st.Status)
	assert.Len(t, st.Data.Images, 1, "rejected keeps data")

	s.Pending()
	assert.Empty(t, s.Snapshot().Error)
}

func TestSeedOverridesInFlightFetch(t *testing.T) {
	fake := &resourcestest.Fake{
		Slides: []models.SliderItem{{ID: "fetched"}},
		Delay:  50 * time.Millisecond,
	}
	s := setupTestStore(fake)

	started, err := s.EnsureAsync(context.Background(), KeySlides)
	require.NoError(t, err)
	require.True(t, started)
	assert.True(t, s.Slider.Snapshot().Loading)

	s.Slider.Seed(func(d *SliderData) { d.Slides = []models.SliderItem{{ID: "seeded"}} })
	st := s.Slider.Snapshot()
	assert.False(t, st.Loading)
	assert.Equal(t, "seeded", st.Data.Slides[0].ID)

	// the late fetch still lands: last write wins
	assert.Eventually(t, func() bool {
		return s.Slider.Snapshot().Data.Slides[0].ID == "fetched"
	}, time.Second, 5*time.Millisecond)
}

func TestEnsureSkipsWhenPresent(t *testing.T) {
	fake := &resourcestest.Fake{Posts: []models.BlogPost{{ID: "1", Slug: "a"}}}
	s := setupTestStore(fake)
	ctx := context.Background()

	ran, err := s.Ensure(ctx, KeyPosts)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = s.Ensure(ctx, KeyPosts)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, fake.Calls("PublishedPosts"))
	assert.True(t, s.Has(KeyPosts))
	assert.False(t, s.Has(KeyFeatured))
}

func TestEnsureSkipsWhileLoading(t *testing.T) {
	fake := &resourcestest.Fake{Delay: 30 * time.Millisecond}
	s := setupTestStore(fake)
	ctx := context.Background()

	first, _ := s.EnsureAsync(ctx, KeyGallery)
	second, _ := s.EnsureAsync(ctx, KeyGallery)
	assert.True(t, first)
	assert.False(t, second)

	assert.Eventually(t, func() bool { return !s.Gallery.Snapshot().Loading }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, fake.Calls("ActiveGalleryImages"))
}

func TestFetchFailureBecomesMessage(t *testing.T) {
	fake := &resourcestest.Fake{Errs: map[string]error{"ReviewStats": errors.New("sunucu hatası")}}
	s := setupTestStore(fake)

	s.FetchReviewStats(context.Background())
	st := s.Reviews.Snapshot()
	assert.Equal(t, "sunucu hatası", st.Error)
	assert.Equal(t, StatusFailed, st.Status)
	assert.Nil(t, st.Data.Stats)
}

func TestUnknownKey(t *testing.T) {
	s := setupTestStore(&resourcestest.Fake{})
	_, err := s.Ensure(context.Background(), Key("nope"))
	assert.Error(t, err)

	_, err = ParseKey("nope")
	assert.Error(t, err)
	k, err := ParseKey("review-stats")
	require.NoError(t, err)
	assert.Equal(t, KeyReviewStats, k)
}

func TestFetchPostBySlugDropsCurrentOnFailure(t *testing.T) {
	fake := &resourcestest.Fake{Posts: []models.BlogPost{{ID: "1", Slug: "kedi"}}}
	s := setupTestStore(fake)
	ctx := context.Background()

	s.FetchPostBySlug(ctx, "kedi")
	require.NotNil(t, s.Blog.Snapshot().Data.Current)

	s.FetchPostBySlug(ctx, "yok")
	st := s.Blog.Snapshot()
	assert.Nil(t, st.Data.Current)
	assert.NotEmpty(t, st.Error)
}

func TestFetchServicesByType(t *testing.T) {
	fake := &resourcestest.Fake{Services: []models.ServiceItem{
		{ID: "1", ServiceType: models.ServiceHotel},
		{ID: "2", ServiceType: models.ServiceDaycare},
	}}
	s := setupTestStore(fake)

	s.FetchServicesByType(context.Background(), models.ServiceDaycare)
	services := s.Services.Snapshot().Data.Services
	require.Len(t, services, 1)
	assert.Equal(t, "2", services[0].ID)
}

func TestMarkSeeded(t *testing.T) {
	s := setupTestStore(&resourcestest.Fake{})
	assert.True(t, s.MarkSeeded("b1"))
	assert.False(t, s.MarkSeeded("b1"))
	assert.True(t, s.MarkSeeded("b2"))
}

func TestSiblingKeysFetchIndependently(t *testing.T) {
	fake := &resourcestest.Fake{Delay: 30 * time.Millisecond}
	s := setupTestStore(fake)
	ctx := context.Background()

	posts, _ := s.EnsureAsync(ctx, KeyPosts)
	featured, _ := s.EnsureAsync(ctx, KeyFeatured)
	again, _ := s.EnsureAsync(ctx, KeyPosts)
	assert.True(t, posts)
	assert.True(t, featured)
	assert.False(t, again)

	st, _ := s.Status(KeyFeatured)
	assert.Equal(t, StatusLoading, st)
	assert.Eventually(t, func() bool {
		a, _ := s.Status(KeyPosts)
		b, _ := s.Status(KeyFeatured)
		return a == StatusSucceeded && b == StatusSucceeded
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, fake.Calls("PublishedPosts"))
	assert.Equal(t, 1, fake.Calls("FeaturedPosts"))
}

func TestFailureSettlesUntilForcedOrExpired(t *testing.T) {
	fake := &resourcestest.Fake{Errs: map[string]error{"ActiveGalleryImages": errors.New("kapalı")}}
	s := New(Options{Reader: fake, Sender: fake, RetryAfter: 50 * time.Millisecond})
	ctx := context.Background()

	ran, err := s.Ensure(ctx, KeyGallery)
	require.NoError(t, err)
	assert.True(t, ran)
	st, msg := s.Status(KeyGallery)
	assert.Equal(t, StatusFailed, st)
	assert.Equal(t, "kapalı", msg)

	ran, _ = s.Ensure(ctx, KeyGallery)
	assert.False(t, ran, "a recent failure is settled")

	fake.SetErr("ActiveGalleryImages", nil)
	require.NoError(t, s.Fetch(ctx, KeyGallery))
	st, _ = s.Status(KeyGallery)
	assert.Equal(t, StatusSucceeded, st)

	fake.SetErr("ActiveGalleryImages", errors.New("kapalı"))
	require.NoError(t, s.Fetch(ctx, KeyGallery))
	time.Sleep(60 * time.Millisecond)
	fake.SetErr("ActiveGalleryImages", nil)
	s.Gallery.Seed(func(d *GalleryData) { d.Images = nil })
	ran, _ = s.Ensure(ctx, KeyGallery)
	assert.True(t, ran, "an old failure may be retried")
	assert.Equal(t, 4, fake.Calls("ActiveGalleryImages"))
}

func TestPostStatusKeepsNotFound(t *testing.T) {
	fake := &resourcestest.Fake{Posts: []models.BlogPost{{ID: "1", Slug: "kedi"}}}
	s := setupTestStore(fake)
	ctx := context.Background()

	st, err := s.PostStatus("yok")
	assert.Equal(t, StatusIdle, st)
	assert.NoError(t, err)

	s.FetchPostBySlug(ctx, "yok")
	st, err = s.PostStatus("yok")
	assert.Equal(t, StatusFailed, st)
	assert.True(t, api.IsNotFound(err))
	assert.False(t, s.EnsurePostBySlug(ctx, "yok"))

	// settling forgets the failure, so the next mount may fetch again
	s.SettlePost("yok")
	assert.True(t, s.EnsurePostBySlug(ctx, "yok"))
}

func TestSeededKeyIsSucceeded(t *testing.T) {
	s := setupTestStore(&resourcestest.Fake{})
	st, _ := s.Status(KeyReviews)
	assert.Equal(t, StatusIdle, st)

	s.Reviews.Seed(func(d *ReviewsData) { d.Reviews = []models.CustomerReview{} })
	st, _ = s.Status(KeyReviews)
	assert.Equal(t, StatusSucceeded, st)
}
