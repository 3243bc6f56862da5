// Package tokens holds the bearer token the API client attaches to requests.
package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"barklounge/api"
	"barklounge/models"
)

const (
	// DefaultName is the row (and session key) the token is kept under.
	DefaultName = "auth_token"
)

var (
	_ api.TokenStore = (*DBStore)(nil)
	_ api.TokenStore = (*SessionStore)(nil)
	_ api.TokenStore = Chain{}

	_ api.RequestScoped = Chain{}
)

// DBStore keeps the token in the sqlite token table. A nil *DBStore is a
// valid empty store.
type DBStore struct {
	db   *gorm.DB
	name string
}

func NewDBStore(db *gorm.DB) *DBStore {
	if db == nil {
		return nil
	}
	return &DBStore{db: db, name: DefaultName}
}

func (s *DBStore) Token(ctx context.Context) (string, error) {
	if s == nil {
		return "", nil
	}
	var row models.StoredToken
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokens: read: %w", err)
	}
	return row.Value, nil
}

func (s *DBStore) SetToken(ctx context.Context, value string) error {
	if s == nil {
		return errors.New("tokens: no database configured")
	}
	row := models.StoredToken{Name: s.name, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("tokens: write: %w", err)
	}
	return nil
}

func (s *DBStore) ClearToken(ctx context.Context) error {
	if s == nil {
		return nil
	}
	err := s.db.WithContext(ctx).Where("name = ?", s.name).Delete(&models.StoredToken{}).Error
	if err != nil {
		return fmt.Errorf("tokens: clear: %w", err)
	}
	return nil
}

// SessionStore keeps the token in the visitor's cookie session.
type SessionStore struct {
	session sessions.Session
}

func NewSessionStore(session sessions.Session) *SessionStore {
	return &SessionStore{session: session}
}

func (s *SessionStore) Token(context.Context) (string, error) {
	v, _ := s.session.Get(DefaultName).(string)
	return v, nil
}

func (s *SessionStore) SetToken(_ context.Context, value string) error {
	s.session.Set(DefaultName, value)
	return s.session.Save()
}

func (s *SessionStore) ClearToken(context.Context) error {
	if s.session.Get(DefaultName) == nil {
		return nil
	}
	s.session.Delete(DefaultName)
	return s.session.Save()
}

// Chain reads from the first store holding a token and clears all of them.
type Chain []api.TokenStore

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, s := range c {
		if s == nil {
			continue
		}
		tok, err := s.Token(ctx)
		if err != nil {
			return "", err
		}
		if tok != "" {
			return tok, nil
		}
	}
	return "", nil
}

func (c Chain) ClearToken(ctx context.Context) error {
	var errs []error
	for _, s := range c {
		if s == nil {
			continue
		}
		if err := s.ClearToken(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Detach drops the session stores, which are only valid while their
// request is being served. It returns nil when nothing else is left.
func (c Chain) Detach() api.TokenStore {
	var kept Chain
	for _, s := range c {
		if _, ok := s.(*SessionStore); ok || s == nil {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// Middleware scopes a session-first token store to each request so API
// calls made while rendering carry the visitor's token.
// Must run after sessions.Sessions.
func Middleware(fallback api.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := Chain{NewSessionStore(sessions.Default(c))}
		if fallback != nil {
			store = append(store, fallback)
		}
		c.Request = c.Request.WithContext(api.WithTokenStore(c.Request.Context(), store))
		c.Next()
	}
}
