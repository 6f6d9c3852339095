package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/service"
	"github.com/suteetoe/helpdesk/internal/store"
)

type fakeUserStore struct {
	users map[string]*model.User // keyed by tenantID|email
	err   error                 // overrides every call when set
}

func userKey(tenantID uuid.UUID, email string) string {
	return tenantID.String() + "|" + strings.ToLower(email)
}

func (s *fakeUserStore) FindByEmail(_ context.Context, tenantID uuid.UUID, email string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[userKey(tenantID, email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	if s.err != nil {
		return s.err
	}
	key := userKey(user.TenantID, user.Email)
	if _, exists := s.users[key]; exists {
		return store.ErrConflict
	}
	user.ID = uuid.New()
	s.users[key] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) List(_ context.Context, tenantID uuid.UUID, role *model.Role) ([]model.User, error) {
	return nil, nil
}

func (s *fakeUserStore) Save(_ context.Context, user *model.User) error { return nil }

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error { return nil }

type fakeTenantStore struct {
	tenants map[uuid.UUID]*model.Tenant
}

func (s *fakeTenantStore) FindByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	tenant, ok := s.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return tenant, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Check(password, hash string) bool { return hash == "hashed:"+password }

type fakeIssuer struct{}

func (fakeIssuer) GenerateToken(user *model.User) (string, error) {
	return "token-for-" + user.ID.String(), nil
}

type authFixture struct {
	handler  *AuthHandler
	users    *fakeUserStore
	tenantID uuid.UUID
}

func newAuthFixture() *authFixture {
	tenantID := uuid.New()
	users := &fakeUserStore{users: map[string]*model.User{}}
	tenants := &fakeTenantStore{tenants: map[uuid.UUID]*model.Tenant{
		tenantID: {ID: tenantID, Name: "Acme", Status: model.TenantActive},
	}}
	auth := service.NewAuthService(users, tenants, fakeHasher{}, fakeIssuer{}, zap.NewNop())
	return &authFixture{
		handler:  NewAuthHandler(auth),
		users:    users,
		tenantID: tenantID,
	}
}

func (f *authFixture) seedUser(email, password string) *model.User {
	user := &model.User{
		ID:       uuid.New(),
		Name:     "Agent",
		Email:    strings.ToLower(email),
		Password: "hashed:" + password,
		Role:     model.RoleUser,
		IsActive: true,
		TenantID: f.tenantID,
	}
	f.users.users[userKey(f.tenantID, email)] = user
	return user
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestSignupReturnsCreatedEnvelope(t *testing.T) {
	f := newAuthFixture()

	body := fmt.Sprintf(`{"tenant_id":%q,"name":"Agent","email":"agent@acme.example","password":"s3cret"}`, f.tenantID)
	rec := postJSON(t, f.handler.Signup, "/auth/signup", body)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, "agent@acme.example", resp.User["email"])
	assert.NotContains(t, resp.User, "password")
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	f := newAuthFixture()
	f.seedUser("agent@acme.example", "first")

	body := fmt.Sprintf(`{"tenant_id":%q,"name":"Other","email":"agent@acme.example","password":"second"}`, f.tenantID)
	rec := postJSON(t, f.handler.Signup, "/auth/signup", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"email already registered"}`, rec.Body.String())
}

func TestLoginReturnsTokenEnvelope(t *testing.T) {
	f := newAuthFixture()
	user := f.seedUser("agent@acme.example", "s3cret")

	body := fmt.Sprintf(`{"tenant_id":%q,"email":"agent@acme.example","password":"s3cret"}`, f.tenantID)
	rec := postJSON(t, f.handler.Login, "/auth/login", body)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string         `json:"access_token"`
		User        map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-for-"+user.ID.String(), resp.AccessToken)
	assert.Equal(t, "agent@acme.example", resp.User["email"])
	assert.NotContains(t, resp.User, "password")
}

func TestLoginFailureIsOpaque(t *testing.T) {
	f := newAuthFixture()
	f.seedUser("agent@acme.example", "s3cret")

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", fmt.Sprintf(`{"tenant_id":%q,"email":"agent@acme.example","password":"wrong"}`, f.tenantID)},
		{"unknown email", fmt.Sprintf(`{"tenant_id":%q,"email":"nobody@acme.example","password":"s3cret"}`, f.tenantID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, f.handler.Login, "/auth/login", tt.body)

			// Same status and same body for both causes.
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"invalid email or password"}`, rec.Body.String())
		})
	}
}

func TestSignupStorageFailureIsRetryable(t *testing.T) {
	f := newAuthFixture()
	f.users.err = fmt.Errorf("%w: connection refused", store.ErrUnavailable)

	body := fmt.Sprintf(`{"tenant_id":%q,"name":"Agent","email":"agent@acme.example","password":"s3cret"}`, f.tenantID)
	rec := postJSON(t, f.handler.Signup, "/auth/signup", body)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
