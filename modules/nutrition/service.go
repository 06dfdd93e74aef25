// Package nutrition exposes the patient's current diet plan: the meal tree
// assigned by their professional, fetchable as one document.
package nutrition

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nutrihealth/nutrikit/pkg/apiclient"
)

// MsgFetchFailed is the fallback when the backend provides no detail.
const MsgFetchFailed = "No se pudo cargar tu plan."

const currentPlanPath = "/nutrition/diet-plans/current/"

// Service caches the patient's current plan with loading/error flags.
type Service struct {
	client *apiclient.Client
	log    *slog.Logger

	mu      sync.Mutex
	current *DietPlan
	loading bool
	errMsg  string
}

// NewService creates a nutrition service on top of the shared transport client.
func NewService(client *apiclient.Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// FetchCurrentPlan refreshes the cached plan from the backend.
func (s *Service) FetchCurrentPlan(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	var plan DietPlan
	if err := s.client.Get(ctx, currentPlanPath, &plan); err != nil {
		msg := MsgFetchFailed
		if detail := apiclient.ErrorDetail(err); detail != "" {
			msg = detail
		}

		s.log.Warn("diet plan fetch failed", "error", err)
		s.mu.Lock()
		s.loading = false
		s.errMsg = msg
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.current = &plan
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Reset drops the cached plan, e.g. when the session ends.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.errMsg = ""
}

// CurrentPlan returns a copy of the cached plan, or nil.
func (s *Service) CurrentPlan() *DietPlan {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	plan := *s.current
	return &plan
}

// Loading reports whether a fetch is in flight.
func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last user-facing failure message, or "".
func (s *Service) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}
