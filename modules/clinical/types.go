package clinical

// Patient is the lightweight record returned by the patient list endpoint.
// StatusLabel and Initials are computed server-side for the list screen.
type Patient struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	AppUserID   string `json:"app_user_id,omitempty"`
	StatusLabel string `json:"status_label,omitempty"`
	Initials    string `json:"initials,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

// NewPatient is the payload for creating a clinical record. The backend
// assigns the professional's organization automatically.
type NewPatient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
