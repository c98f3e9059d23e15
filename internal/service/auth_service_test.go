package service

import (
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) AuthService {
	t.Helper()
	jwt.SetSecretKey("test-secret")
	auth, err := NewAuthService(DefaultCredentials())
	require.NoError(t, err)
	return auth
}

func TestLogin_LandingPathPerRole(t *testing.T) {
	auth := newAuth(t)

	cases := []struct {
		username, password string
		role               model.Role
		redirect           string
	}{
		{"admin", "admin123", model.RoleAdmin, "/products"},
		{"mozo", "mozo123", model.RoleWaiter, "/tables"},
		{"chef", "chef123", model.RoleChef, "/chef"},
		{"cajero", "cajero123", model.RoleCashier, "/cash"},
	}

	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			resp, err := auth.Login(tc.username, tc.password)
			require.NoError(t, err)
			assert.Equal(t, tc.role, resp.User.Role)
			assert.Equal(t, tc.redirect, resp.Redirect)
			assert.NotEmpty(t, resp.Token)

			claims, err := jwt.ValidateToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, string(tc.role), claims.Role)
			assert.Equal(t, tc.username, claims.Username)
		})
	}
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	auth := newAuth(t)

	_, err := auth.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("ghost", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UsernameIsCaseInsensitive(t *testing.T) {
	auth := newAuth(t)

	user, err := auth.Authenticate(" Chef ", "chef123")
	require.NoError(t, err)
	assert.Equal(t, "Chef Principal", user.Name)
}

func TestValidateToken(t *testing.T) {
	auth := newAuth(t)

	resp, err := auth.Login("mozo", "mozo123")
	require.NoError(t, err)

	validated, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Mozo Principal", validated.User.Name)
	assert.Equal(t, "/tables", validated.Redirect)

	_, err = auth.ValidateToken(resp.Token + "x")
	assert.Error(t, err)
}

func TestNewAuthService_RejectsDuplicateUsernames(t *testing.T) {
	_, err := NewAuthService([]Credential{
		{Username: "mozo", Password: "a", Role: model.RoleWaiter},
		{Username: "MOZO", Password: "b", Role: model.RoleWaiter},
	})
	assert.Error(t, err)
}
