// Package clinical manages the professional's patient roster: the list of
// clinical records owned by their organization and creation of new ones.
//
// The Service is a thin state container over two REST calls. It caches the
// last fetched roster together with loading/error flags for the list screen;
// it holds no business logic of its own; the backend enforces roles and
// multi-tenant isolation.
package clinical

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nutrihealth/nutrikit/pkg/apiclient"
)

// Fallback messages when the backend provides no structured detail.
const (
	MsgFetchFailed = "Connection error"
	MsgAddFailed   = "Error al registrar paciente"
)

const patientsPath = "/clinical/patients/"

// Service wraps the clinical patient endpoints with cached list state.
type Service struct {
	client *apiclient.Client
	log    *slog.Logger

	mu       sync.Mutex
	patients []Patient
	loading  bool
	errMsg   string
}

// NewService creates a patient service on top of the shared transport client.
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

// FetchPatients refreshes the cached roster from the backend. On failure the
// cache is cleared and the backend detail (or a generic message) is stored.
func (s *Service) FetchPatients(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	var patients []Patient
	if err := s.client.Get(ctx, patientsPath, &patients); err != nil {
		msg := MsgFetchFailed
		if detail := apiclient.ErrorDetail(err); detail != "" {
			msg = detail
		}

		s.log.Warn("patient list fetch failed", "error", err)
		s.mu.Lock()
		s.patients = nil
		s.loading = false
		s.errMsg = msg
		s.mu.Unlock()
		return err
	}

	s.log.Debug("patient list fetched", "count", len(patients))
	s.mu.Lock()
	s.patients = patients
	s.loading = false
	s.mu.Unlock()
	return nil
}

// AddPatient creates a clinical record, then refreshes the roster so the new
// patient shows up in the cached list. The refresh failure does not void the
// creation: the boolean reports whether the record was created.
func (s *Service) AddPatient(ctx context.Context, data NewPatient) bool {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.client.Post(ctx, patientsPath, data, nil); err != nil {
		msg := MsgAddFailed
		if detail := apiclient.ErrorDetail(err); detail != "" {
			msg = detail
		}

		s.log.Warn("patient creation failed", "error", err)
		s.mu.Lock()
		s.loading = false
		s.errMsg = msg
		s.mu.Unlock()
		return false
	}

	_ = s.FetchPatients(ctx)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	return true
}

// Patients returns a copy of the cached roster.
func (s *Service) Patients() []Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients := make([]Patient, len(s.patients))
	copy(patients, s.patients)
	return patients
}

// Loading reports whether a fetch or creation is in flight.
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
