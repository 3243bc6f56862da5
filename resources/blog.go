package resources

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"barklounge/api"
	"barklounge/models"
)

type BlogService struct {
	client Doer
	log    *zap.Logger
}

func (s *BlogService) PublishedPosts(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := get[[]models.BlogPost](ctx, s.client, s.log, "blog", "published blog posts")
	if err != nil {
		return nil, err
	}
	out := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *BlogService) FeaturedPosts(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := get[[]models.BlogPost](ctx, s.client, s.log, "blog/featured", "featured blog posts")
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	return posts, nil
}

// PostBySlug returns an *api.HTTPError with status 404 for unknown slugs,
// including a null body.
func (s *BlogService) PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := get[*models.BlogPost](ctx, s.client, s.log, "blog/slug/"+url.PathEscape(slug), "blog post")
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, &api.HTTPError{StatusCode: http.StatusNotFound, Body: "null"}
	}
	return post, nil
}

func (s *BlogService) PostByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return get[*models.BlogPost](ctx, s.client, s.log, "blog/"+url.PathEscape(id), "blog post")
}
