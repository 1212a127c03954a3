package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	adminUsername string
	adminPassword string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing one",
	Long: `Creates an admin account with a bcrypt password hash. If the username
already exists the account is promoted to admin and its password reset.

Examples:
  wanderwithkii create-admin --username ki --password 's3cret!'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateAdmin(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "Admin username")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "Admin password")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(ctx context.Context) error {
	username, err := utils.ValidateUsername(adminUsername)
	if err != nil {
		return err
	}
	if err := utils.ValidatePassword(adminPassword); err != nil {
		return err
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, closeDB, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	user, created, err := ensureAdmin(ctx, db, utils.NewBcryptVerifier(), username, adminPassword, adminEmail)
	if err != nil {
		return err
	}
	log.Infow("Admin ready", "user_id", user.ID, "username", user.Username, "created", created)
	return nil
}

// ensureAdmin creates username as an admin or promotes the existing account.
func ensureAdmin(ctx context.Context, db *gorm.DB, verifier utils.CredentialVerifier, username, password, email string) (*models.User, bool, error) {
	hash, err := verifier.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	created := false
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("username = ?", username).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{Username: username, PasswordHash: hash, Email: email, Role: models.RoleAdmin}
			created = true
			return tx.Create(&user).Error
		}
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"password_hash": hash, "role": models.RoleAdmin}
		if email != "" {
			updates["email"] = email
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("save admin: %w", err)
	}
	return &user, created, nil
}
