// Package testutil wires an in-memory SQLite database and signed tokens for
// handler and middleware tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const JWTSecret = "test-secret"

// SetupDB points db.DB at a fresh, migrated in-memory database.
func SetupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	require.NoError(t, db.ConnectDatabase("sqlite", dsn))

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.MigrateDatabase())
	require.NoError(t, auth.InitJWTSecret(JWTSecret, 0))
	auth.SetRevoker(auth.NewMemoryRevoker())
}

// CreateUser inserts a user with a bcrypt-hashed password equal to
// username + "-pass".
func CreateUser(t *testing.T, username, role string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(username + "-pass")
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Password: hash,
		UserDetail: models.UserDetail{
			FirstName: "Nombre" + username,
			LastName:  "Apellido" + username,
			DNI:       30000000,
			Type:      role,
			Email:     username + "@escuela.com",
		},
	}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func CreateCareer(t *testing.T, name string) models.Career {
	t.Helper()

	career := models.Career{Name: name}
	require.NoError(t, db.DB.Create(&career).Error)
	return career
}

func Enroll(t *testing.T, userID, careerID uint) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.Enrollment{UserID: userID, CareerID: careerID}).Error)
}

func Token(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Username, user.UserDetail.Type)
	require.NoError(t, err)
	return token
}

func Bearer(t *testing.T, user models.User) string {
	return "Bearer " + Token(t, user)
}
