package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-resupply-order/internal/orderform"
	"go-resupply-order/pkg/jwt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found, sign in again")
	ErrTooManySessions = errors.New("too many active sessions")
)

type SessionService interface {
	SignInAnonymously(ctx context.Context, existingToken string) (*SessionResponse, error)
	Form(sessionID uuid.UUID) (*orderform.Form, error)
	PruneExpired() int
	RunPruner(ctx context.Context, every time.Duration)
}

type SessionResponse struct {
	Token     string    `json:"token"`
	SessionID uuid.UUID `json:"session_id"`
	Created   bool      `json:"created"`
	Products  int       `json:"products"`
}

type sessionService struct {
	catalog CatalogService
	budget  decimal.Decimal
	ttl     time.Duration
	max     int
	log     *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	now      func() time.Time
}

type session struct {
	form      *orderform.Form
	expiresAt time.Time
}

// NewSessionService keeps at most maxSessions live forms. maxSessions <= 0
// means no limit.
func NewSessionService(catalog CatalogService, budget decimal.Decimal, ttl time.Duration, maxSessions int, log *zap.Logger) SessionService {
	return &sessionService{
		catalog:  catalog,
		budget:   budget,
		ttl:      ttl,
		max:      maxSessions,
		log:      log,
		sessions: make(map[uuid.UUID]*session),
		now:      time.Now,
	}
}

// SignInAnonymously returns the caller's session unchanged when
// existingToken is still valid. Otherwise it starts a new session: the
// catalog is loaded once and rendered onto an empty form.
func (s *sessionService) SignInAnonymously(ctx context.Context, existingToken string) (*SessionResponse, error) {
	if existingToken != "" {
		if claims, err := jwt.ValidateToken(existingToken); err == nil {
			if form, err := s.Form(claims.SessionID); err == nil {
				return &SessionResponse{
					Token:     existingToken,
					SessionID: claims.SessionID,
					Products:  len(form.Catalog()),
				}, nil
			}
		}
	}

	if s.full() {
		return nil, ErrTooManySessions
	}

	products, err := s.catalog.Load(ctx)
	if err != nil {
		s.log.Error("catalog load failed", zap.Error(err))
		return nil, err
	}

	id := uuid.New()
	token, err := jwt.GenerateToken(id, s.ttl)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.mu.Lock()
	if s.max > 0 && len(s.sessions) >= s.max {
		s.pruneLocked()
		if len(s.sessions) >= s.max {
			s.mu.Unlock()
			s.log.Warn("session limit reached", zap.Int("max_sessions", s.max))
			return nil, ErrTooManySessions
		}
	}
	s.sessions[id] = &session{
		form:      orderform.New(products, s.budget),
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	s.log.Info("anonymous session started",
		zap.String("session_id", id.String()),
		zap.Int("products", len(products)))

	return &SessionResponse{
		Token:     token,
		SessionID: id,
		Created:   true,
		Products:  len(products),
	}, nil
}

func (s *sessionService) Form(sessionID uuid.UUID) (*orderform.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok || !s.now().Before(sess.expiresAt) {
		return nil, ErrSessionNotFound
	}
	return sess.form, nil
}

// full reports whether the limit is reached even after dropping expired
// sessions.
func (s *sessionService) full() bool {
	if s.max <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) < s.max {
		return false
	}
	s.pruneLocked()
	return len(s.sessions) >= s.max
}

// PruneExpired drops every expired session and reports how many went.
func (s *sessionService) PruneExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked()
}

// RunPruner calls PruneExpired on every tick until ctx is done.
func (s *sessionService) RunPruner(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PruneExpired(); n > 0 {
				s.log.Debug("expired sessions pruned", zap.Int("count", n))
			}
		}
	}
}

// pruneLocked drops sessions whose token has expired. Caller holds s.mu.
func (s *sessionService) pruneLocked() int {
	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
