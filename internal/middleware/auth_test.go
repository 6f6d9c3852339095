package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/pkg/config"
	"github.com/suteetoe/helpdesk/pkg/jwtutil"
)

func newIssuer(key string) *jwtutil.JWT {
	return jwtutil.New(&config.JWTConfig{SigningKey: key, ExpirationMinutes: 60})
}

func testUser() *model.User {
	return &model.User{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Email:    "agent@acme.example",
		Role:     model.RoleAdmin,
	}
}

// invoke runs a request through the guard and a probe handler that records
// whether it was reached.
func invoke(t *testing.T, tokens *jwtutil.JWT, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := Auth(tokens)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return rec, c, reached
}

func TestAuthInjectsIdentity(t *testing.T) {
	tokens := newIssuer("test-signing-key")
	user := testUser()
	token, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	rec, c, reached := invoke(t, tokens, "Bearer "+token)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	userID, err := UserID(c)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	tenantID, err := TenantID(c)
	require.NoError(t, err)
	assert.Equal(t, user.TenantID, tenantID)

	assert.Equal(t, user.Email, c.Get(ContextEmail))
	assert.Equal(t, string(model.RoleAdmin), Role(c))
}

func TestAuthRejectionIsUniform(t *testing.T) {
	tokens := newIssuer("test-signing-key")
	foreign := newIssuer("some-other-key")

	user := testUser()
	foreignToken, err := foreign.GenerateToken(user)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtutil.UserClaims{
		Email:    user.Email,
		UserID:   user.ID,
		TenantID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, err := expired.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic dXNlcjpwYXNz"},
		{"bare token without scheme", "garbage"},
		{"malformed token", "Bearer not-a-token"},
		{"foreign signature", "Bearer " + foreignToken},
		{"expired token", "Bearer " + expiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, reached := invoke(t, tokens, tt.header)

			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			// Same body for every failure class: callers cannot probe why.
			assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())
		})
	}
}

func TestAccessorsWithoutGuard(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, err := UserID(c)
	assert.ErrorIs(t, err, ErrNoIdentity)

	_, err = TenantID(c)
	assert.ErrorIs(t, err, ErrNoIdentity)

	assert.Equal(t, "", Role(c))
}
