package posts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barklounge/models"
)

var base = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func samplePosts() []models.BlogPost {
	return []models.BlogPost{
		{ID: "1", Title: "Köpek Bakımı", Excerpt: "Tüy bakımı", Author: "Ece", Tags: []string{"sağlık"}, CreatedAt: base},
		{ID: "2", Title: "Kedi Oteli", Excerpt: "Tatilde kediniz", Author: "Can", Tags: []string{"tatil"}, CreatedAt: base.Add(48 * time.Hour)},
	}
}

func ids(ps []models.BlogPost) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	v := Filter(samplePosts(), nil, Query{Search: "köpek"})
	assert.Equal(t, []string{"1"}, ids(v.Posts))

	v = Filter(samplePosts(), nil, Query{Search: "KÖPEK"})
	assert.Equal(t, []string{"1"}, ids(v.Posts))
}

func TestFilterSearchFields(t *testing.T) {
	assert.Equal(t, []string{"2"}, ids(Filter(samplePosts(), nil, Query{Search: "can"}).Posts), "author")
	assert.Equal(t, []string{"2"}, ids(Filter(samplePosts(), nil, Query{Search: "tatilde"}).Posts), "excerpt")
	assert.Equal(t, []string{"1"}, ids(Filter(samplePosts(), nil, Query{Search: "SAĞ"}).Posts), "tag")
}

func TestFilterTagIsExact(t *testing.T) {
	v := Filter(samplePosts(), nil, Query{Tag: "tatil"})
	assert.Equal(t, []string{"2"}, ids(v.Posts))

	v = Filter(samplePosts(), nil, Query{Tag: "tat"})
	assert.Empty(t, v.Posts)
}

func TestFilterAndsBothFilters(t *testing.T) {
	v := Filter(samplePosts(), nil, Query{Search: "köpek", Tag: "tatil"})
	assert.Empty(t, v.Posts)
	assert.NotNil(t, v.Posts)
}

func TestFilterClearedSortsNewestFirst(t *testing.T) {
	v := Filter(samplePosts(), nil, Query{})
	assert.Equal(t, []string{"2", "1"}, ids(v.Posts))
	assert.Nil(t, v.Featured)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := samplePosts()
	Filter(in, nil, Query{})
	assert.Equal(t, "1", in[0].ID)
}

func TestFeaturedExcludedOnlyWhenUnfiltered(t *testing.T) {
	all := samplePosts()
	featured := []models.BlogPost{all[0]}

	v := Filter(all, featured, Query{})
	require.NotNil(t, v.Featured)
	assert.Equal(t, "1", v.Featured.ID)
	assert.Equal(t, []string{"2"}, ids(v.Posts))

	v = Filter(all, featured, Query{Search: "köpek"})
	assert.Nil(t, v.Featured)
	assert.Equal(t, []string{"1"}, ids(v.Posts))

	v = Filter(all, featured, Query{Search: "   "})
	assert.NotNil(t, v.Featured, "blank search is no filter")
}

func TestRelated(t *testing.T) {
	post := models.BlogPost{ID: "p", Tags: []string{"sağlık", "köpek"}}
	all := []models.BlogPost{
		post,
		{ID: "a", Tags: []string{"köpek"}},
		{ID: "b", Tags: []string{"kedi"}},
		{ID: "c", Tags: []string{"sağlık"}},
		{ID: "d", Tags: []string{"köpek", "sağlık"}},
		{ID: "e", Tags: []string{"köpek"}},
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids(Related(post, all)))
	assert.Empty(t, Related(models.BlogPost{ID: "x"}, all))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, MinutesToRead(""))
	assert.Equal(t, 1, MinutesToRead("<p>kısa bir yazı</p>"))

	words := make([]byte, 0, 401*4)
	for i := 0; i < 401; i++ {
		words = append(words, "kel "...)
	}
	assert.Equal(t, 3, MinutesToRead(string(words)))
	assert.Equal(t, 7, ReadTime(models.BlogPost{ReadTime: 7, Content: string(words)}))
}

func TestAllTags(t *testing.T) {
	assert.Equal(t, []string{"sağlık", "tatil"}, AllTags(samplePosts()))
}
