package session

// Status is the authentication state of the session.
type Status string

const (
	// StatusChecking is transient, valid only while startup rehydration is
	// verifying a persisted token against the backend.
	StatusChecking Status = "checking"

	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Role is the account category governing which capabilities a session
// receives. The wire format is an open string; these constants are the set
// the product knows about.
type Role string

const (
	RolePatient      Role = "PATIENT"
	RoleProfessional Role = "PROFESSIONAL"
	RoleOrgOwner     Role = "ORG_OWNER"
)

// User is the authoritative identity record last fetched from the backend.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         Role   `json:"role"`
	Organization string `json:"organization,omitempty"`
	Photo        string `json:"photo,omitempty"`
	IsActive     bool   `json:"is_active,omitempty"`
}

// RegisterData is the account creation payload. The password is sent once;
// confirmation matching is a UI-only check and never leaves the device.
type RegisterData struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Role         Role
	Organization string // optional; sent as null when empty
}

// ProfileUpdate is a partial update against the current user's resource.
// Zero fields are omitted from the request body.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

// RegistrationDraft is the staged registration form for one role. Drafts are
// ordinary UI state: keyed by role, replaced on update, cleared on success.
type RegistrationDraft struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Newsletter      bool   `json:"newsletter"`
}

// OnboardingDraft is the staged onboarding form for one role.
type OnboardingDraft struct {
	Phone  string `json:"phone"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Height string `json:"height"`
}

// credentials is the wire payload for the credential exchange endpoint.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the credential exchange response. Only the access token
// is load-bearing for the client.
type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// registerPayload is the wire payload for account creation. Organization is
// a pointer so an absent value serializes as an explicit null, which is what
// the backend expects.
type registerPayload struct {
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         Role    `json:"role"`
	Organization *string `json:"organization"`
	Password     string  `json:"password"`
}
