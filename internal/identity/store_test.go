package identity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	return store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	user, err := store.Authenticate("asha", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "asha", user.Username)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "Kerala", user.Region)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash, "password must never be stored in plaintext")
	assert.NotEmpty(t, user.RegistrationDate)
	require.NotNil(t, user.LastLogin)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	err := store.Register("asha", "other@example.com", "different", "Punjab", "Someone Else")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The original account is untouched.
	user, err := store.Authenticate("asha", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	err := store.Register("ravi", "asha@example.com", "secret456", "Punjab", "Ravi Singh")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, found := store.Get("ravi")
	assert.False(t, found)
}

func TestAuthenticateFailureIsUniform(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	_, unknownErr := store.Authenticate("nobody", "secret123")
	_, wrongPassErr := store.Authenticate("asha", "wrong-password")

	// Unknown usernames and wrong passwords are indistinguishable, so login
	// failures cannot enumerate accounts.
	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestGet(t *testing.T) {
	store := newTestStore(t)

	_, found := store.Get("missing")
	assert.False(t, found)

	require.NoError(t, store.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	user, found := store.Get("asha")
	require.True(t, found)
	assert.Equal(t, "asha", user.Username)
	assert.Nil(t, user.LastLogin, "no login yet")
	assert.Equal(t, 0, user.ContributionsCount)
}

func TestCreditContribution(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	require.NoError(t, store.CreditContribution("asha", "entry_1"))
	require.NoError(t, store.CreditContribution("asha", "entry_2"))

	user, found := store.Get("asha")
	require.True(t, found)
	assert.Equal(t, 2, user.ContributionsCount)
}

func TestCreditContributionIsIdempotentPerEntry(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	// A retried submission carries the same entry id and must not
	// double-count.
	require.NoError(t, store.CreditContribution("asha", "entry_1"))
	require.NoError(t, store.CreditContribution("asha", "entry_1"))

	user, found := store.Get("asha")
	require.True(t, found)
	assert.Equal(t, 1, user.ContributionsCount)
}

func TestCreditContributionUnknownUserIsNoOp(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.CreditContribution("ghost", "entry_1"))
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Register("asha", "asha@example.com", "secret123", "Kerala", "Asha Nair"))

	second, err := NewStore(path)
	require.NoError(t, err)

	user, err := second.Authenticate("asha", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
}
