package hydration

import (
	"context"

	"go.uber.org/zap"

	"barklounge/store"
)

// Mode says which path a mount took.
type Mode string

const (
	ModeSeeded   Mode = "seeded"
	ModeReplayed Mode = "replayed" // same bundle seen before, nothing done
	ModeFallback Mode = "fallback"
)

// Fetcher starts the fetches a page needs when it has no bundle.
type Fetcher func(ctx context.Context, st *store.Store)

// Ensure fetches each key whose value is missing and not already loading.
func Ensure(keys ...store.Key) Fetcher {
	return func(ctx context.Context, st *store.Store) {
		for _, k := range keys {
			// keys come from the store's own table
			_, _ = st.EnsureAsync(ctx, k)
		}
	}
}

func EnsurePost(slug string) Fetcher {
	return func(ctx context.Context, st *store.Store) {
		st.EnsurePostBySlug(ctx, slug)
	}
}

type Bridge struct {
	log *zap.Logger
}

func NewBridge(log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{log: log.Named("hydration")}
}

// Mount seeds st from bundle when one is present, once per bundle ID.
// Without a bundle it runs the fallbacks instead. Never both.
func (b *Bridge) Mount(ctx context.Context, st *store.Store, bundle Bundle, fallback ...Fetcher) Mode {
	if Present(bundle) {
		if !st.MarkSeeded(bundle.BundleID()) {
			return ModeReplayed
		}
		bundle.seed(st)
		b.log.Debug("seeded store from bundle", zap.String("bundle", bundle.BundleID()))
		return ModeSeeded
	}

	for _, f := range fallback {
		f(ctx, st)
	}
	b.log.Debug("no bundle, fetching missing data", zap.Int("fetchers", len(fallback)))
	return ModeFallback
}
