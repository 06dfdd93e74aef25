package session

import "log/slog"

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithStorageKey overrides the credential store key holding the persisted
// session projection.
func WithStorageKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.storageKey = key
		}
	}
}
