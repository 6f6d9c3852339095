package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/store"
)

// mockUserStore implements UserStore over a map, keyed the same way the
// database index is: by (tenant_id, lowercased email).
type mockUserStore struct {
	users map[uuid.UUID]*model.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*model.User)}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *mockUserStore) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.TenantID == tenantID && emailKey(u.Email) == emailKey(email) {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.TenantID == user.TenantID && emailKey(u.Email) == emailKey(user.Email) {
			return store.ErrConflict
		}
	}
	user.ID = uuid.New()
	user.Email = emailKey(user.Email)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *mockUserStore) List(ctx context.Context, tenantID uuid.UUID, role *model.Role) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if u.TenantID != tenantID {
			continue
		}
		if role != nil && u.Role != *role {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserStore) Save(ctx context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockTenantStore struct {
	tenants map[uuid.UUID]*model.Tenant
}

func newMockTenantStore(ids ...uuid.UUID) *mockTenantStore {
	m := &mockTenantStore{tenants: make(map[uuid.UUID]*model.Tenant)}
	for _, id := range ids {
		m.tenants[id] = &model.Tenant{ID: id, Name: "tenant", Status: model.TenantActive}
	}
	return m
}

func (m *mockTenantStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

// fakeHasher is a reversible stand-in so tests don't pay bcrypt's work factor.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

type fakeIssuer struct{}

func (fakeIssuer) GenerateToken(user *model.User) (string, error) {
	return "token-for-" + user.ID.String(), nil
}

func newTestAuthService(tenantIDs ...uuid.UUID) (*AuthService, *mockUserStore) {
	users := newMockUserStore()
	svc := NewAuthService(users, newMockTenantStore(tenantIDs...), fakeHasher{}, fakeIssuer{}, zap.NewNop())
	return svc, users
}

func TestSignupScopesEmailUniquenessToTenant(t *testing.T) {
	t1, t2 := uuid.New(), uuid.New()
	svc, _ := newTestAuthService(t1, t2)
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{TenantID: t1, Name: "Alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, t1, first.TenantID)
	assert.Equal(t, model.RoleUser, first.Role)
	assert.True(t, first.IsActive)

	// Same email under a different tenant is a distinct identity.
	second, err := svc.Signup(ctx, SignupInput{TenantID: t2, Name: "Alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// Same email under the same tenant conflicts.
	_, err = svc.Signup(ctx, SignupInput{TenantID: t1, Name: "Alice", Email: "alice@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailRegistered)

	// Case variants of the email conflict too.
	_, err = svc.Signup(ctx, SignupInput{TenantID: t1, Name: "Alice", Email: "ALICE@Example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailRegistered)
}

func TestSignupUnknownTenant(t *testing.T) {
	svc, _ := newTestAuthService()
	_, err := svc.Signup(context.Background(), SignupInput{TenantID: uuid.New(), Name: "Alice", Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignupNeverStoresPlaintext(t *testing.T) {
	t1 := uuid.New()
	svc, users := newTestAuthService(t1)

	_, err := svc.Signup(context.Background(), SignupInput{TenantID: t1, Name: "Alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	stored, err := users.FindByEmail(context.Background(), t1, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correcthorse", stored.Password)
}

func TestAuthenticateSymmetry(t *testing.T) {
	t1 := uuid.New()
	svc, _ := newTestAuthService(t1)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{TenantID: t1, Name: "Alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	// Unknown email and wrong password produce the identical (nil, nil).
	user, err := svc.Authenticate(ctx, t1, "nobody@example.com", "correcthorse")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Authenticate(ctx, t1, "alice@example.com", "wrongpass")
	assert.NoError(t, err)
	assert.Nil(t, user)

	// Right tenant, right credentials.
	user, err = svc.Authenticate(ctx, t1, "alice@example.com", "correcthorse")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, t1, user.TenantID)

	// Valid credentials presented against the wrong tenant do not authenticate.
	user, err = svc.Authenticate(ctx, uuid.New(), "alice@example.com", "correcthorse")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	t1 := uuid.New()
	svc, users := newTestAuthService(t1)
	ctx := context.Background()

	safe, err := svc.Signup(ctx, SignupInput{TenantID: t1, Name: "Alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	stored := users.users[safe.ID]
	stored.IsActive = false

	user, err := svc.Authenticate(ctx, t1, "alice@example.com", "correcthorse")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogin(t *testing.T) {
	t1 := uuid.New()
	svc, _ := newTestAuthService(t1)
	ctx := context.Background()

	safe, err := svc.Signup(ctx, SignupInput{TenantID: t1, Name: "Alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, t1, "alice@example.com", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+safe.ID.String(), result.Token)
	assert.Equal(t, *safe, result.User)

	// Wrong password and unknown email surface the same opaque error.
	_, err = svc.Login(ctx, t1, "alice@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, t1, "nobody@example.com", "correcthorse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSafeProjectionOmitsPassword(t *testing.T) {
	t1 := uuid.New()
	svc, _ := newTestAuthService(t1)

	result, err := svc.Login(context.Background(), t1, "alice@example.com", "correcthorse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Nil(t, result)

	_, err = svc.Signup(context.Background(), SignupInput{TenantID: t1, Name: "Alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	result, err = svc.Login(context.Background(), t1, "alice@example.com", "correcthorse")
	require.NoError(t, err)

	serialized, err := json.Marshal(result.User)
	require.NoError(t, err)
	assert.NotContains(t, string(serialized), "password")
	assert.NotContains(t, string(serialized), "correcthorse")
	assert.NotContains(t, string(serialized), "hashed:")
}
