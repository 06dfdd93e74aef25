package session

import "encoding/json"

// projection is the serializable subset of session state that survives
// process restarts. Only token, user and status are load-bearing for the
// session core; the rest is staged form state carried along inertly.
type projection struct {
	Token            string                     `json:"token"`
	User             *User                      `json:"user"`
	Status           Status                     `json:"status"`
	OnboardingStep   int                        `json:"onboardingStep"`
	RegistrationForm map[Role]RegistrationDraft `json:"registrationForm,omitempty"`
	OnboardingForm   map[Role]OnboardingDraft   `json:"onboardingForm,omitempty"`
}

// persistLocked writes the projection to the credential store. Callers must
// hold m.mu; the write happens before the lock is released so a logout is
// durable before any later read. Storage failures are logged, never raised:
// losing persistence degrades to a fresh login on next start.
func (m *Manager) persistLocked() {
	proj := projection{
		Token:            m.token,
		User:             m.user,
		Status:           m.status,
		OnboardingStep:   m.onboardingStep,
		RegistrationForm: m.registrationForm,
		OnboardingForm:   m.onboardingForm,
	}

	raw, err := json.Marshal(proj)
	if err != nil {
		m.log.Error("marshal session projection", "error", err)
		return
	}

	if err := m.store.Set(m.storageKey, string(raw)); err != nil {
		m.log.Error("persist session projection", "error", err)
	}
}

// restore reads the persisted projection. Any failure (nothing stored,
// storage error, corrupt JSON) reports ok=false and is treated by the
// caller as "no session".
func (m *Manager) restore() (projection, bool) {
	raw, err := m.store.Get(m.storageKey)
	if err != nil {
		return projection{}, false
	}

	var proj projection
	if err := json.Unmarshal([]byte(raw), &proj); err != nil {
		m.log.Warn("discarding corrupt session projection", "error", err)
		return projection{}, false
	}

	return proj, true
}
