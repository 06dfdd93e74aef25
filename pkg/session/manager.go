package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/nutrihealth/nutrikit/pkg/apiclient"
	"github.com/nutrihealth/nutrikit/pkg/jwt"
	"github.com/nutrihealth/nutrikit/pkg/securestore"
)

// Manager owns the authoritative in-memory session state: status, token and
// user identity. It is constructed once at process start, rehydrated with
// CheckAuth exactly once before the first role-based routing decision, and
// lives until process exit.
//
// A mutex guards the state fields, but operations release it across network
// calls, so two overlapping operations race with last-write-wins semantics.
// That limitation is accepted: callers are expected to run one session
// operation at a time.
type Manager struct {
	client     *apiclient.Client
	store      securestore.Store
	storageKey string
	log        *slog.Logger

	mu               sync.Mutex
	status           Status
	token            string
	user             *User
	loading          bool
	errMsg           string
	onboardingStep   int
	registrationForm map[Role]RegistrationDraft
	onboardingForm   map[Role]OnboardingDraft
}

// DefaultStorageKey is the credential store key holding the persisted
// session projection. The name is inherited from the mobile app.
const DefaultStorageKey = "nh-auth-storage"

// New creates a session manager bound to the given transport client and
// credential store. The manager installs itself as the client's live token
// source and 401 handler, closing the feedback edge from transport failures
// back into session state.
func New(client *apiclient.Client, store securestore.Store, opts ...Option) *Manager {
	m := &Manager{
		client:           client,
		store:            store,
		storageKey:       DefaultStorageKey,
		log:              slog.Default(),
		status:           StatusUnauthenticated,
		registrationForm: defaultRegistrationForms(),
		onboardingForm:   defaultOnboardingForms(),
	}

	for _, opt := range opts {
		opt(m)
	}

	client.SetTokenSource(m.Token)
	client.SetAuthFailureHandler(m.Logout)

	return m
}

// CheckAuth rehydrates the session from the credential store, then verifies
// the persisted token against the backend's source of truth. It always
// terminates in StatusAuthenticated or StatusUnauthenticated; no exit path
// leaves the transient StatusChecking set.
func (m *Manager) CheckAuth(ctx context.Context) {
	proj, ok := m.restore()
	if !ok || proj.Token == "" {
		m.mu.Lock()
		m.status = StatusUnauthenticated
		m.persistLocked()
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.status = StatusChecking
	m.token = proj.Token
	m.user = proj.User
	m.onboardingStep = proj.OnboardingStep
	if len(proj.RegistrationForm) > 0 {
		m.registrationForm = proj.RegistrationForm
	}
	if len(proj.OnboardingForm) > 0 {
		m.onboardingForm = proj.OnboardingForm
	}
	m.mu.Unlock()

	// Prefer the persisted identity; fall back to the token subject. A token
	// that yields neither is treated as "no session", not as an error.
	userID := ""
	if proj.User != nil {
		userID = proj.User.ID
	}
	if userID == "" {
		userID, _ = jwt.ExtractSubject(proj.Token)
	}
	if userID == "" {
		m.log.Warn("persisted token has no usable subject, discarding session")
		m.Logout()
		return
	}

	var user User
	if err := m.client.Get(ctx, "/users/"+userID+"/", &user); err != nil {
		m.log.Warn("session rehydration rejected by backend", "error", err)
		m.Logout()
		return
	}

	m.mu.Lock()
	m.user = &user
	m.status = StatusAuthenticated
	m.persistLocked()
	m.mu.Unlock()
}

// Login exchanges credentials for a bearer token and establishes the
// session. It returns false on any primary failure, storing the generic
// MsgInvalidCredentials so the backend's specific rejection never leaks
// whether the email exists.
//
// The follow-up identity fetch is best-effort: its failure is logged and the
// session still becomes authenticated with a nil user.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	m.mu.Lock()
	m.loading = true
	m.errMsg = ""
	m.mu.Unlock()

	var resp loginResponse
	if err := m.client.Post(ctx, "/login/", credentials{Email: email, Password: password}, &resp); err != nil {
		m.log.Warn("login rejected", "error", err)
		m.mu.Lock()
		m.status = StatusUnauthenticated
		m.token = ""
		m.loading = false
		m.errMsg = MsgInvalidCredentials
		m.persistLocked()
		m.mu.Unlock()
		return false
	}

	if resp.Access == "" {
		// Successful exchange without a token is a backend contract
		// violation; report it without moving status off its prior value.
		m.log.Error("credential exchange returned no access token")
		m.mu.Lock()
		m.loading = false
		m.errMsg = MsgNoTokenReceived
		m.mu.Unlock()
		return false
	}

	// Decorate the transport immediately so the identity fetch below (and
	// any concurrent request) is already authorized.
	m.client.SetAuthorization(resp.Access)
	m.mu.Lock()
	m.token = resp.Access
	m.mu.Unlock()

	var user *User
	if userID, ok := jwt.ExtractSubject(resp.Access); ok {
		var fetched User
		if err := m.client.Get(ctx, "/users/"+userID+"/", &fetched); err != nil {
			m.log.Warn("profile load failed after login", "error", err)
		} else {
			user = &fetched
		}
	}

	// Re-apply the decoration: a 401 on the identity fetch forces a logout
	// that clears it, but login succeeded and the session stands.
	m.client.SetAuthorization(resp.Access)

	m.mu.Lock()
	m.status = StatusAuthenticated
	m.token = resp.Access
	m.user = user
	m.loading = false
	m.errMsg = ""
	m.persistLocked()
	m.mu.Unlock()

	return true
}

// Register creates an account and chains into Login to establish a session
// under it. The boolean reports account creation only: it is true even when
// the chained login fails, because downstream screens branch on whether the
// account now exists, not on the session state.
func (m *Manager) Register(ctx context.Context, data RegisterData) bool {
	m.mu.Lock()
	m.loading = true
	m.errMsg = ""
	m.mu.Unlock()

	payload := registerPayload{
		Email:     data.Email,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Role:      data.Role,
		Password:  data.Password,
	}
	if data.Organization != "" {
		payload.Organization = &data.Organization
	}

	if err := m.client.Post(ctx, "/users/", payload, nil); err != nil {
		msg := MsgRegisterFailed
		if detail := apiclient.ErrorDetail(err); detail != "" {
			msg = detail
		}
		if apiclient.ErrorStatus(err) == http.StatusUnauthorized {
			msg = MsgRegisterUnauthorized
		}

		m.log.Warn("account creation failed", "error", err)
		m.mu.Lock()
		m.loading = false
		m.errMsg = msg
		m.mu.Unlock()
		return false
	}

	if m.Login(ctx, data.Email, data.Password) {
		m.mu.Lock()
		m.onboardingStep = 1
		delete(m.registrationForm, data.Role)
		m.persistLocked()
		m.mu.Unlock()
	}

	return true
}

// UpdateProfile issues a partial update against the current user's resource
// and replaces the stored identity with the returned representation. Without
// an authenticated user it returns false with no side effects.
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) bool {
	m.mu.Lock()
	if m.user == nil || m.user.ID == "" {
		m.mu.Unlock()
		return false
	}
	userID := m.user.ID
	m.loading = true
	m.mu.Unlock()

	var updated User
	if err := m.client.Put(ctx, "/users/"+userID+"/", update, &updated); err != nil {
		m.log.Warn("profile update failed", "error", err)
		m.mu.Lock()
		m.loading = false
		m.errMsg = MsgUpdateFailed
		m.mu.Unlock()
		return false
	}

	m.mu.Lock()
	m.user = &updated
	m.loading = false
	m.persistLocked()
	m.mu.Unlock()

	return true
}

// Logout tears down the session: it removes the Authorization decoration
// from the transport client and resets the state to unauthenticated. It is
// synchronous, always succeeds, and is idempotent; the transport's 401
// handler may call it repeatedly while already logged out.
func (m *Manager) Logout() {
	m.client.ClearAuthorization()

	m.mu.Lock()
	m.status = StatusUnauthenticated
	m.token = ""
	m.user = nil
	m.onboardingStep = 0
	m.persistLocked()
	m.mu.Unlock()
}

// Status returns the current authentication status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Token returns the current bearer token, or "". It is installed as the
// transport client's token source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the current identity record, or nil.
func (m *Manager) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// Loading reports whether an operation is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the last user-facing failure message, or "".
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// OnboardingStep returns the persisted onboarding progress.
func (m *Manager) OnboardingStep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onboardingStep
}

// RegistrationDraft returns the staged registration form for a role.
func (m *Manager) RegistrationDraft(role Role) RegistrationDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registrationForm[role]
}

// SetRegistrationDraft stages the registration form for a role.
func (m *Manager) SetRegistrationDraft(role Role, draft RegistrationDraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrationForm[role] = draft
	m.persistLocked()
}

// ResetRegistrationDraft clears the staged registration form for a role.
func (m *Manager) ResetRegistrationDraft(role Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.registrationForm, role)
	m.persistLocked()
}

// OnboardingDraft returns the staged onboarding form for a role.
func (m *Manager) OnboardingDraft(role Role) OnboardingDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onboardingForm[role]
}

// SetOnboardingDraft stages the onboarding form for a role.
func (m *Manager) SetOnboardingDraft(role Role, draft OnboardingDraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onboardingForm[role] = draft
	m.persistLocked()
}

func defaultRegistrationForms() map[Role]RegistrationDraft {
	return map[Role]RegistrationDraft{
		RolePatient:      {Newsletter: true},
		RoleProfessional: {Newsletter: true},
	}
}

func defaultOnboardingForms() map[Role]OnboardingDraft {
	return map[Role]OnboardingDraft{
		RolePatient:      {},
		RoleProfessional: {},
	}
}
