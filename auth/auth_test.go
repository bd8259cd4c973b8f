package auth

import (
	"path/filepath"
	"testing"
	"time"

	"minicloud/file-api/model"
	"minicloud/file-api/pkg/security"
	"minicloud/file-api/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.File{}))

	return &Service{
		DB:     db,
		Argon:  security.NewArgon(),
		Tokens: security.NewTokens("test-secret", 24*time.Hour),
	}
}

func TestRegister(t *testing.T) {
	s := testService(t)

	res, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@b.com", res.User.Email)
	assert.True(t, res.User.Enabled)
	assert.NotEmpty(t, res.User.ID)

	// The returned token must already be usable
	assert.True(t, s.Tokens.Valid(res.Token))

	subject, err := s.Tokens.Subject(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := testService(t)

	_, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	_, err = s.Register("a@b.com", "Abc12345")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	var count int64
	require.NoError(t, s.DB.Model(model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "failed registration must not create a user")
}

func TestRegisterValidationOrder(t *testing.T) {
	s := testService(t)

	// Bad format and bad strength at once: format is reported first
	_, err := s.Register("not-an-email", "weak")
	assert.ErrorIs(t, err, validators.ErrEmailInvalid)

	_, err = s.Register("a@b.com", "abc12345")
	assert.ErrorIs(t, err, validators.ErrPasswordTooWeak)

	var count int64
	require.NoError(t, s.DB.Model(model.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "failed validation must not persist anything")
}

func TestLogin(t *testing.T) {
	s := testService(t)

	_, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	res, err := s.Login("a@b.com", "Abc12345")
	require.NoError(t, err)
	assert.True(t, s.Tokens.Valid(res.Token))
}

func TestLoginWrongPassword(t *testing.T) {
	s := testService(t)

	_, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	_, err = s.Login("a@b.com", "Wrong1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	s := testService(t)

	_, err := s.Login("ghost@b.com", "Abc12345")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	s := testService(t)

	res, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	require.NoError(t, s.DB.Model(res.User).Update("enabled", false).Error)

	_, err = s.Login("a@b.com", "Abc12345")
	assert.ErrorIs(t, err, ErrAccountDisabled)

	// A wrong password on a disabled account must not reveal the
	// disabled state
	_, err = s.Login("a@b.com", "Wrong1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidate(t *testing.T) {
	s := testService(t)

	res, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	identity, err := s.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.Equal(t, res.User.ID, identity.UserID)
}

func TestValidateGarbageToken(t *testing.T) {
	s := testService(t)

	_, err := s.Validate("garbage")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestValidateVanishedUser(t *testing.T) {
	s := testService(t)

	token, err := s.Tokens.Issue("ghost@b.com")
	require.NoError(t, err)

	_, err = s.Validate(token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefresh(t *testing.T) {
	s := testService(t)

	res, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	fresh, email, err := s.Refresh(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
	assert.True(t, s.Tokens.Valid(fresh))
}

func TestRefreshSkipsUserCheck(t *testing.T) {
	s := testService(t)

	res, err := s.Register("a@b.com", "Abc12345")
	require.NoError(t, err)

	require.NoError(t, s.DB.Model(res.User).Update("enabled", false).Error)

	// Refresh does not consult the user store, so a disabled account
	// can still trade in a live token
	_, _, err = s.Refresh(res.Token)
	assert.NoError(t, err)
}
