package resources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"barklounge/api"
	"barklounge/models"
)

func setupTestAPI(t *testing.T, routes map[string]string) *Set {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return New(client, zap.NewNop())
}

func TestActiveListsFilterInactive(t *testing.T) {
	set := setupTestAPI(t, map[string]string{
		"GET /services": `[
			{"id":"1","title":"Otel","is_active":true,"order_index":2,"service_type":"hotel"},
			{"id":"2","title":"Eski","is_active":false,"order_index":1,"service_type":"hotel"},
			{"id":"3","title":"Tıraş","is_active":true,"order_index":1,"service_type":"grooming"}]`,
		"GET /slider": `[
			{"id":"s1","is_active":false},{"id":"s2","is_active":true},{"id":"s3","is_active":true}]`,
		"GET /gallery": `[{"id":"g1","is_active":false},{"id":"g2","is_active":false}]`,
	})
	ctx := context.Background()

	services, err := set.ActiveServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "3", services[0].ID)
	assert.Equal(t, "1", services[1].ID)
	for _, s := range services {
		assert.True(t, s.IsActive)
	}

	slides, err := set.ActiveSlides(ctx)
	require.NoError(t, err)
	assert.Len(t, slides, 2)

	images, err := set.ActiveGalleryImages(ctx)
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestServicesByType(t *testing.T) {
	set := setupTestAPI(t, map[string]string{
		"GET /services": `[
			{"id":"1","is_active":true,"service_type":"hotel"},
			{"id":"2","is_active":false,"service_type":"grooming"},
			{"id":"3","is_active":true,"service_type":"grooming"}]`,
	})

	items, err := set.ServicesByType(context.Background(), models.ServiceGrooming)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ID)
}

func TestAllServicesKeepsInactive(t *testing.T) {
	set := setupTestAPI(t, map[string]string{
		"GET /services/all": `[{"id":"1","is_active":true},{"id":"2","is_active":false}]`,
	})

	items, err := set.AllServices(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPublishedPostsDropsDrafts(t *testing.T) {
	set := setupTestAPI(t, map[string]string{
		"GET /blog": `[{"id":"1","slug":"a","is_published":true},{"id":"2","slug":"b","is_published":false}]`,
	})

	posts, err := set.PublishedPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].Slug)
}

func TestPostBySlug(t *testing.T) {
	set := setupTestAPI(t, map[string]string{
		"GET /blog/slug/kopek-bakimi": `{"id":"1","slug":"kopek-bakimi","title":"Köpek Bakımı"}`,
	})
	ctx := context.Background()

	post, err := set.PostBySlug(ctx, "kopek-bakimi")
	require.NoError(t, err)
	assert.Equal(t, "kopek-bakimi", post.Slug)

	_, err = set.PostBySlug(ctx, "Kopek-Bakimi")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.False(t, api.IsNetwork(err))
}

func TestPostBySlugNullBodyIsNotFound(t *testing.T) {
	set := setupTestAPI(t, map[string]string{
		"GET /blog/slug/silinmis": `null`,
	})

	post, err := set.PostBySlug(context.Background(), "silinmis")
	assert.Nil(t, post)
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}

func TestPostBySlugNetworkFailureIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := api.New(api.Options{BaseURL: base})
	require.NoError(t, err)
	set := New(client, zap.NewNop())

	_, err = set.PostBySlug(context.Background(), "any")
	require.Error(t, err)
	assert.False(t, api.IsNotFound(err))
	assert.True(t, api.IsNetwork(err))
}

type failingDoer struct{ err error }

func (f failingDoer) Get(context.Context, string, any) error        { return f.err }
func (f failingDoer) Post(context.Context, string, any, any) error { return f.err }

func TestErrorsAreLoggedAndReturnedUnchanged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	boom := &api.HTTPError{StatusCode: http.StatusInternalServerError}
	set := New(failingDoer{err: boom}, zap.New(core))
	ctx := context.Background()

	_, err := set.AppSettings(ctx)
	assert.Same(t, boom, err)

	_, err = set.ReviewStats(ctx)
	assert.True(t, errors.Is(err, boom))

	_, err = set.SendContactMessage(ctx, models.ContactMessage{Name: "x"})
	assert.Same(t, boom, err)

	require.Equal(t, 3, logs.Len())
	assert.True(t, strings.Contains(logs.All()[0].Message, "app settings"))
}

func TestSendContactMessage(t *testing.T) {
	set := setupTestAPI(t, map[string]string{
		"POST /contact": `{"id":"m1","name":"Ayşe","email":"a@b.co","subject":"Otel","message":"Merhaba"}`,
	})

	resp, err := set.SendContactMessage(context.Background(), models.ContactMessage{
		Name: "Ayşe", Email: "a@b.co", Subject: "Otel", Message: "Merhaba",
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", resp.ID)
}
