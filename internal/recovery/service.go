package recovery

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
)

type tokenStore interface {
	Save(ctx context.Context, sessionID, token string) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

type notifier interface {
	MarkConverted(ctx context.Context, token, orderID string) error
}

// Service links abandoned-cart tokens to the orders they turned into.
type Service interface {
	SaveToken(ctx context.Context, sessionID, token string) error
	// NotifyConverted reports the first order of a checkout when the session
	// carries a recovery token. It is a no-op otherwise.
	NotifyConverted(ctx context.Context, sessionID, orderID string) error
}

type service struct {
	tokens   tokenStore
	notifier notifier
	logg     *logger.Logger
}

// NewService builds the recovery service. notifier may be nil when no
// abandoned-cart service is configured; tokens are still kept.
func NewService(tokens tokenStore, n notifier, logg *logger.Logger) (Service, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tokens: tokens, notifier: n, logg: logg}, nil
}

func (s *service) SaveToken(ctx context.Context, sessionID, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recovery token is required")
	}
	if err := s.tokens.Save(ctx, sessionID, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save recovery token")
	}
	return nil
}

func (s *service) NotifyConverted(ctx context.Context, sessionID, orderID string) error {
	token, err := s.tokens.Get(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recovery token")
	}
	if token == "" {
		return nil
	}
	if s.notifier == nil {
		s.logg.Debug(ctx, "recovery notifier disabled; keeping token")
		return nil
	}
	if err := s.notifier.MarkConverted(ctx, token, orderID); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to drop recovery token")
	}
	return nil
}
