package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database/users"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// stubLookups only resolves user emails against the backing repository;
// the catalog checks never fire during auth flows.
type stubLookups struct {
	users *users.Repository
}

func (s stubLookups) AuthorEmailTaken(string, uint) (bool, error) { return false, nil }
func (s stubLookups) BookISBNTaken(string, uint) (bool, error)    { return false, nil }
func (s stubLookups) AuthorExists(uint) (bool, error)             { return false, nil }
func (s stubLookups) CategoryExists(uint) (bool, error)           { return false, nil }

func (s stubLookups) UserEmailTaken(email string, excludeID uint) (bool, error) {
	return s.users.EmailTaken(email, excludeID)
}

func setupService(t *testing.T, cfg config.Auth) (*Service, *gorm.DB, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.AccessToken{})
	require.NoError(t, err)

	repo := users.NewRepository(db)
	service := NewService(repo, stubLookups{users: repo}, cfg)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, db, cleanup
}

func testAuthConfig() config.Auth {
	return config.Auth{BcryptCost: bcrypt.MinCost}
}

func registerInput() validation.RegisterInput {
	return validation.RegisterInput{
		Name:                 "Test User",
		Email:                "test@example.com",
		Password:             "pw123456",
		PasswordConfirmation: "pw123456",
	}
}

func TestService_Register(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	user, token, err := service.Register(registerInput())

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "pw123456", user.PasswordHash)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	_, _, err := service.Register(registerInput())
	require.NoError(t, err)

	_, _, err = service.Register(registerInput())

	require.Error(t, err)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "email")
}

func TestService_Register_ConfirmationMismatch(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	in := registerInput()
	in.PasswordConfirmation = "different1"

	_, _, err := service.Register(in)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "password")
}

func TestService_Login(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	registered, registerToken, err := service.Register(registerInput())
	require.NoError(t, err)

	user, loginToken, err := service.Login("test@example.com", "pw123456")

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, loginToken)
	// Each login issues its own token.
	assert.NotEqual(t, registerToken, loginToken)
}

func TestService_Login_WrongPassword(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	_, _, err := service.Register(registerInput())
	require.NoError(t, err)

	_, _, err = service.Login("test@example.com", "wrong-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	_, _, err := service.Login("missing@example.com", "pw123456")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ResolveUser(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	registered, token, err := service.Register(registerInput())
	require.NoError(t, err)

	user, err := service.ResolveUser(token)

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestService_ResolveUser_UnknownToken(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	_, err := service.ResolveUser("not-a-real-token")

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_ResolveUser_ExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.TokenTTL = time.Hour
	service, db, cleanup := setupService(t, cfg)
	defer cleanup()

	_, token, err := service.Register(registerInput())
	require.NoError(t, err)

	_, err = service.ResolveUser(token)
	require.NoError(t, err)

	// Age the token past the TTL.
	err = db.Model(&entities.AccessToken{}).
		Where("token_hash = ?", HashToken(token)).
		Update("created_at", time.Now().Add(-2*time.Hour)).Error
	require.NoError(t, err)

	_, err = service.ResolveUser(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// Logout revokes exactly the presented token; the same user's other
// sessions keep working.
func TestService_Logout_TokenIndependence(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	_, firstToken, err := service.Register(registerInput())
	require.NoError(t, err)

	_, secondToken, err := service.Login("test@example.com", "pw123456")
	require.NoError(t, err)

	require.NoError(t, service.Logout(firstToken))

	_, err = service.ResolveUser(firstToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = service.ResolveUser(secondToken)
	assert.NoError(t, err)
}

func TestService_Logout_Idempotent(t *testing.T) {
	service, _, cleanup := setupService(t, testAuthConfig())
	defer cleanup()

	_, token, err := service.Register(registerInput())
	require.NoError(t, err)

	require.NoError(t, service.Logout(token))
	assert.NoError(t, service.Logout(token))
	assert.NoError(t, service.Logout("never-issued"))
}
