package auth

import (
	"testing"
	"time"

	"github.com/avetluv/flightbook/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(&domain.User{ID: 7, Name: "Sneha", Email: "sneha@example.com"})
	require.NoError(t, err)

	identity, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), identity.UserID)
	assert.Equal(t, "Sneha", identity.Name)
	assert.Equal(t, "sneha@example.com", identity.Email)
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(&domain.User{ID: 1, Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(&domain.User{ID: 1, Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_MissingIdentityFields(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	// Token signed with the right secret but without name/email claims.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "9",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
