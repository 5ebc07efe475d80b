package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for access events.
//
// It MUST be append-only: the contract deliberately has no update or
// delete methods.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records access decisions for internal ops.
//
// IMPORTANT:
// - Records are internal-only; they carry reasons the denial response
//   deliberately hides from the caller.
// - Recording is best-effort and asynchronous: a broken audit store must
//   never delay or fail a request.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time

	appendTimeout time.Duration
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:          repo,
		log:           log,
		clock:         time.Now,
		appendTimeout: 3 * time.Second,
	}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

// Append validates and stores one event synchronously. Most callers want
// Record instead.
func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}
	if e.Path == "" || e.Method == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends e in the background, detached from the request context
// so client disconnects do not lose the record. Failures are logged and
// swallowed.
func (s *Service) Record(e Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.appendTimeout)
		defer cancel()
		if err := s.Append(ctx, e); err != nil {
			s.log.Error("audit append failed", "err", err, "type", e.Type, "path", e.Path)
		}
	}()
}

// RecordDenied captures a denial with its server-side reason.
func (s *Service) RecordDenied(source, user, callerType, path, method, reason, ip string) {
	s.Record(Event{
		Type:       EventTypeAccessDenied,
		Source:     source,
		User:       user,
		CallerType: callerType,
		Path:       path,
		Method:     method,
		Reason:     reason,
		IPAddress:  ip,
	})
}

// RecordEnvBypass captures a non-production allow-all decision.
func (s *Service) RecordEnvBypass(source, user, path, method, ip string) {
	s.Record(Event{
		Type:      EventTypeEnvBypass,
		Source:    source,
		User:      user,
		Path:      path,
		Method:    method,
		Reason:    "environment bypass",
		IPAddress: ip,
	})
}
