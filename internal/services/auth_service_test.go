package services

import (
	"testing"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authFixture() (*AuthService, *fakeAdminStore) {
	admins := newFakeAdminStore()
	return NewAuthService(admins, bcrypt.MinCost), admins
}

func TestRegisterAndVerify(t *testing.T) {
	svc, _ := authFixture()

	user, err := svc.Register("admin", "correct horse battery")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	verified, err := svc.Verify("admin", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "admin", verified.Username)
}

func TestVerify_WrongPassword(t *testing.T) {
	svc, _ := authFixture()
	_, err := svc.Register("admin", "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Verify("admin", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_UnknownUser(t *testing.T) {
	svc, _ := authFixture()
	_, err := svc.Register("admin", "correct horse battery")
	require.NoError(t, err)

	// Unknown user and wrong password are indistinguishable.
	_, err = svc.Verify("nobody", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	svc, admins := authFixture()

	_, err := svc.Register("", "long enough password")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Register("admin", "short")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.Empty(t, admins.users)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := authFixture()
	_, err := svc.Register("admin", "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Register("admin", "another password!")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}
