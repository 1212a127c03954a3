package commands

import (
	"context"
	"testing"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/testutil"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	verifier := &utils.BcryptVerifier{Cost: bcrypt.MinCost}
	ctx := context.Background()

	user, created, err := ensureAdmin(ctx, db, verifier, "ki", "first-pass", "ki@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, verifier.Verify(user.PasswordHash, "first-pass"))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleUser).Error)

	again, created, err := ensureAdmin(ctx, db, verifier, "ki", "second-pass", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.Equal(t, "ki@example.com", stored.Email)
	assert.NoError(t, verifier.Verify(stored.PasswordHash, "second-pass"))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.User{}))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "create-admin", "sweep-images"} {
		assert.True(t, names[want], want)
	}
}
