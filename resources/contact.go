package resources

import (
	"context"

	"go.uber.org/zap"

	"barklounge/models"
)

type ContactService struct {
	client Doer
	log    *zap.Logger
}

func (s *ContactService) SendContactMessage(ctx context.Context, msg models.ContactMessage) (*models.ContactMessageResponse, error) {
	var out models.ContactMessageResponse
	if err := s.client.Post(ctx, "contact", msg, &out); err != nil {
		s.log.Error("error sending contact message", zap.Error(err))
		return nil, err
	}
	return &out, nil
}

// AllContactMessages is an admin read and needs a bearer token.
func (s *ContactService) AllContactMessages(ctx context.Context) ([]models.ContactMessageResponse, error) {
	return get[[]models.ContactMessageResponse](ctx, s.client, s.log, "contact/all", "contact messages")
}
