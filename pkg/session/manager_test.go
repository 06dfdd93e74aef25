package session_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrihealth/nutrikit/pkg/apiclient"
	"github.com/nutrihealth/nutrikit/pkg/securestore"
	"github.com/nutrihealth/nutrikit/pkg/session"
)

// makeToken builds an unsigned bearer token carrying a user_id claim, the
// shape the backend issues.
func makeToken(t *testing.T, userID string) string {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"user_id": userID})
	require.NoError(t, err)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"typ":"JWT","alg":"HS256"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// setup wires a manager against the given fake backend handler.
func setup(t *testing.T, handler http.HandlerFunc) (*session.Manager, *apiclient.Client, *securestore.Memory) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL)
	store := securestore.NewMemory()
	mgr := session.New(client, store)

	return mgr, client, store
}

// seedProjection persists a session projection the way a previous process
// run would have.
func seedProjection(t *testing.T, store *securestore.Memory, proj map[string]any) {
	t.Helper()

	raw, err := json.Marshal(proj)
	require.NoError(t, err)
	require.NoError(t, store.Set(session.DefaultStorageKey, string(raw)))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("happy path", func(t *testing.T) {
		token := makeToken(t, userID)

		mgr, client, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/login/":
				assert.Empty(t, r.Header.Get("Authorization"))
				writeJSON(w, http.StatusOK, map[string]string{"access": token})
			case r.Method == http.MethodGet && r.URL.Path == "/users/"+userID+"/":
				assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
				writeJSON(w, http.StatusOK, map[string]any{
					"id": userID, "email": "a@b.com",
					"first_name": "A", "last_name": "B", "role": "PATIENT",
				})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})

		ok := mgr.Login(ctx, "a@b.com", "secret")
		require.True(t, ok)

		assert.Equal(t, session.StatusAuthenticated, mgr.Status())
		assert.Equal(t, token, mgr.Token())
		require.NotNil(t, mgr.User())
		assert.Equal(t, session.RolePatient, mgr.User().Role)
		assert.False(t, mgr.Loading())
		assert.Empty(t, mgr.Err())

		auth, ok := client.Authorization()
		require.True(t, ok)
		assert.Equal(t, "Bearer "+token, auth)

		// Projection was written.
		raw, err := store.Get(session.DefaultStorageKey)
		require.NoError(t, err)
		assert.Contains(t, raw, token)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		mgr, client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid email or password"})
		})

		ok := mgr.Login(ctx, "a@b.com", "wrong")
		require.False(t, ok)

		assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
		assert.Empty(t, mgr.Token())
		// Generic message: the backend's specific rejection is not surfaced.
		assert.Equal(t, session.MsgInvalidCredentials, mgr.Err())
		assert.False(t, mgr.Loading())

		_, decorated := client.Authorization()
		assert.False(t, decorated)
	})

	t.Run("response without access token", func(t *testing.T) {
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"refresh": "only"})
		})

		prior := mgr.Status()
		ok := mgr.Login(ctx, "a@b.com", "secret")
		require.False(t, ok)

		assert.Equal(t, prior, mgr.Status())
		assert.Equal(t, session.MsgNoTokenReceived, mgr.Err())
		assert.False(t, mgr.Loading())
	})

	t.Run("identity fetch failure is non-fatal", func(t *testing.T) {
		token := makeToken(t, userID)

		mgr, client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/login/" {
				writeJSON(w, http.StatusOK, map[string]string{"access": token})
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		})

		ok := mgr.Login(ctx, "a@b.com", "secret")
		require.True(t, ok)

		assert.Equal(t, session.StatusAuthenticated, mgr.Status())
		assert.Nil(t, mgr.User())
		assert.Empty(t, mgr.Err())

		// Decoration holds even though the identity fetch failed.
		auth, decorated := client.Authorization()
		require.True(t, decorated)
		assert.Equal(t, "Bearer "+token, auth)
	})

	t.Run("token without subject skips identity fetch", func(t *testing.T) {
		var identityFetches int
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/login/" {
				writeJSON(w, http.StatusOK, map[string]string{"access": "opaque-not-a-jwt"})
				return
			}
			identityFetches++
			w.WriteHeader(http.StatusNotFound)
		})

		ok := mgr.Login(ctx, "a@b.com", "secret")
		require.True(t, ok)

		assert.Equal(t, session.StatusAuthenticated, mgr.Status())
		assert.Nil(t, mgr.User())
		assert.Zero(t, identityFetches)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	token := makeToken(t, userID)

	mgr, client, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/login/":
			writeJSON(w, http.StatusOK, map[string]string{"access": token})
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"id": userID, "email": "a@b.com", "role": "PATIENT"})
		}
	})

	require.True(t, mgr.Login(ctx, "a@b.com", "secret"))
	require.Equal(t, session.StatusAuthenticated, mgr.Status())

	mgr.Logout()

	assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
	assert.Empty(t, mgr.Token())
	assert.Nil(t, mgr.User())

	_, decorated := client.Authorization()
	assert.False(t, decorated)

	// The logout transition is durable before the next read.
	raw, err := store.Get(session.DefaultStorageKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"status":"unauthenticated"`)
	assert.Contains(t, raw, `"token":""`)

	// Idempotent: a second logout is a harmless no-op.
	mgr.Logout()
	assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
}

func TestCheckAuth(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("no persisted token", func(t *testing.T) {
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		mgr.CheckAuth(ctx)
		assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
	})

	t.Run("valid persisted session is refreshed", func(t *testing.T) {
		token := makeToken(t, userID)

		mgr, _, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users/"+userID+"/", r.URL.Path)
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"id": userID, "email": "a@b.com",
				"first_name": "A", "last_name": "B", "role": "PROFESSIONAL",
			})
		})
		seedProjection(t, store, map[string]any{
			"token":  token,
			"status": "authenticated",
			"user":   map[string]any{"id": userID, "email": "stale@b.com", "role": "PATIENT"},
		})

		mgr.CheckAuth(ctx)

		assert.Equal(t, session.StatusAuthenticated, mgr.Status())
		require.NotNil(t, mgr.User())
		// Backend is the source of truth, not the stale projection.
		assert.Equal(t, session.RoleProfessional, mgr.User().Role)
		assert.Equal(t, "a@b.com", mgr.User().Email)
	})

	t.Run("subject from token when projection has no user", func(t *testing.T) {
		token := makeToken(t, userID)

		mgr, _, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users/"+userID+"/", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"id": userID, "role": "PATIENT"})
		})
		seedProjection(t, store, map[string]any{"token": token, "status": "authenticated"})

		mgr.CheckAuth(ctx)
		assert.Equal(t, session.StatusAuthenticated, mgr.Status())
	})

	t.Run("undecodable token with no persisted user clears session", func(t *testing.T) {
		mgr, client, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		seedProjection(t, store, map[string]any{"token": "garbage", "status": "authenticated"})

		mgr.CheckAuth(ctx)

		assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
		assert.Empty(t, mgr.Token())
		_, decorated := client.Authorization()
		assert.False(t, decorated)
	})

	t.Run("backend rejection clears session", func(t *testing.T) {
		token := makeToken(t, userID)

		mgr, _, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token revoked"})
		})
		seedProjection(t, store, map[string]any{"token": token, "status": "authenticated"})

		mgr.CheckAuth(ctx)

		assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
		assert.Empty(t, mgr.Token())
	})

	t.Run("corrupt projection treated as no session", func(t *testing.T) {
		mgr, _, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		require.NoError(t, store.Set(session.DefaultStorageKey, "{not json"))

		mgr.CheckAuth(ctx)
		assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	data := session.RegisterData{
		FirstName: "A", LastName: "B",
		Email: "a@b.com", Password: "secret",
		Role: session.RolePatient,
	}

	t.Run("creation and chained login succeed", func(t *testing.T) {
		token := makeToken(t, userID)

		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/users/":
				assert.Empty(t, r.Header.Get("Authorization"))

				var payload map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "a@b.com", payload["email"])
				assert.Equal(t, "PATIENT", payload["role"])
				assert.Nil(t, payload["organization"])
				// Password is sent exactly once; no confirmation field.
				assert.NotContains(t, payload, "confirm_password")

				w.WriteHeader(http.StatusCreated)
			case r.Method == http.MethodPost && r.URL.Path == "/login/":
				writeJSON(w, http.StatusOK, map[string]string{"access": token})
			case r.Method == http.MethodGet:
				writeJSON(w, http.StatusOK, map[string]any{"id": userID, "email": "a@b.com", "role": "PATIENT"})
			}
		})
		mgr.SetRegistrationDraft(session.RolePatient, session.RegistrationDraft{Email: "a@b.com"})

		ok := mgr.Register(ctx, data)
		require.True(t, ok)

		assert.Equal(t, session.StatusAuthenticated, mgr.Status())
		assert.Equal(t, 1, mgr.OnboardingStep())
		// Draft is cleared on success.
		assert.Empty(t, mgr.RegistrationDraft(session.RolePatient).Email)
	})

	t.Run("creation succeeds but chained login fails", func(t *testing.T) {
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/users/" {
				w.WriteHeader(http.StatusCreated)
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "backend inconsistency"})
		})

		// Registration itself succeeded, so the call reports true even
		// though no session was established.
		ok := mgr.Register(ctx, data)
		assert.True(t, ok)
		assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
		assert.Zero(t, mgr.OnboardingStep())
	})

	t.Run("creation failure surfaces backend detail", func(t *testing.T) {
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "email already registered"})
		})

		ok := mgr.Register(ctx, data)
		require.False(t, ok)
		assert.Equal(t, "email already registered", mgr.Err())
	})

	t.Run("creation failure without detail uses generic message", func(t *testing.T) {
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		ok := mgr.Register(ctx, data)
		require.False(t, ok)
		assert.Equal(t, session.MsgRegisterFailed, mgr.Err())
	})

	t.Run("creation 401 maps to its own message", func(t *testing.T) {
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "whatever"})
		})

		ok := mgr.Register(ctx, data)
		require.False(t, ok)
		assert.Equal(t, session.MsgRegisterUnauthorized, mgr.Err())
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	token := makeToken(t, userID)

	login := func(t *testing.T, handler http.HandlerFunc) (*session.Manager, *apiclient.Client) {
		mgr, client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/login/":
				writeJSON(w, http.StatusOK, map[string]string{"access": token})
			case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/users/"):
				writeJSON(w, http.StatusOK, map[string]any{"id": userID, "email": "a@b.com", "first_name": "A", "role": "PATIENT"})
			default:
				handler(w, r)
			}
		})
		require.True(t, mgr.Login(ctx, "a@b.com", "secret"))
		return mgr, client
	}

	t.Run("no authenticated user", func(t *testing.T) {
		mgr, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		ok := mgr.UpdateProfile(ctx, session.ProfileUpdate{FirstName: "X"})
		assert.False(t, ok)
		assert.False(t, mgr.Loading())
		assert.Empty(t, mgr.Err())
	})

	t.Run("success replaces identity", func(t *testing.T) {
		mgr, _ := login(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/users/"+userID+"/", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"id": userID, "email": "a@b.com", "first_name": "Ana", "role": "PATIENT"})
		})

		ok := mgr.UpdateProfile(ctx, session.ProfileUpdate{FirstName: "Ana"})
		require.True(t, ok)
		assert.Equal(t, "Ana", mgr.User().FirstName)
		assert.False(t, mgr.Loading())
	})

	t.Run("failure stores message", func(t *testing.T) {
		mgr, _ := login(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})

		ok := mgr.UpdateProfile(ctx, session.ProfileUpdate{FirstName: "Ana"})
		require.False(t, ok)
		assert.Equal(t, session.MsgUpdateFailed, mgr.Err())
		assert.False(t, mgr.Loading())
	})
}

func TestForcedLogoutOn401(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	token := makeToken(t, userID)

	mgr, client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/login/":
			writeJSON(w, http.StatusOK, map[string]string{"access": token})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/users/"):
			writeJSON(w, http.StatusOK, map[string]any{"id": userID, "email": "a@b.com", "role": "PROFESSIONAL"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
		}
	})

	require.True(t, mgr.Login(ctx, "a@b.com", "secret"))
	require.Equal(t, session.StatusAuthenticated, mgr.Status())

	// An expired token detected on any protected route tears the session
	// down, and the caller still receives the original error.
	err := client.Get(ctx, "/clinical/patients/", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiclient.ErrorStatus(err))

	assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
	assert.Empty(t, mgr.Token())
	assert.Nil(t, mgr.User())
	_, decorated := client.Authorization()
	assert.False(t, decorated)

	// A second 401 while already logged out is a harmless no-op.
	err = client.Get(ctx, "/nutrition/diet-plans/current/", nil)
	require.Error(t, err)
	assert.Equal(t, session.StatusUnauthenticated, mgr.Status())
}
