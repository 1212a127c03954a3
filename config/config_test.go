package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.ServerAddr())
	assert.Equal(t, "wanderwithkii.db", cfg.DatabaseURL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.AuthRequireAdmin)
	assert.NotEmpty(t, cfg.JWTSecret, "dev generates an ephemeral secret")
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	strong := strings.Repeat("x", MinJWTSecretLength)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "postgres needs url",
			cfg:     Config{DBDriver: DriverPostgres, CacheBackend: CacheNone, MaxUploadBytes: 1},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unknown driver",
			cfg:     Config{DBDriver: "mysql", CacheBackend: CacheNone, MaxUploadBytes: 1},
			wantErr: "unsupported DB_DRIVER",
		},
		{
			name:    "redis needs url",
			cfg:     Config{DBDriver: DriverSQLite, CacheBackend: CacheRedis, MaxUploadBytes: 1},
			wantErr: "REDIS_URL",
		},
		{
			name:    "prod needs strong secret",
			cfg:     Config{Env: "prod", DBDriver: DriverSQLite, CacheBackend: CacheNone, JWTSecret: "short", MaxUploadBytes: 1},
			wantErr: "JWT_SECRET",
		},
		{
			name: "prod with strong secret",
			cfg:  Config{Env: "prod", DBDriver: DriverSQLite, CacheBackend: CacheMemory, JWTSecret: strong, MaxUploadBytes: 1},
		},
		{
			name:    "upload limit",
			cfg:     Config{DBDriver: DriverSQLite, CacheBackend: CacheNone},
			wantErr: "MAX_UPLOAD_BYTES",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenDatabaseSQLite(t *testing.T) {
	cfg := &Config{
		DBDriver:       DriverSQLite,
		DatabaseURL:    t.TempDir() + "/test.db",
		DBMaxOpenConns: 4,
		DBMaxIdleConns: 1,
		DBAutoMigrate:  true,
	}
	log, err := NewSugar("dev")
	require.NoError(t, err)

	db, err := OpenDatabase(cfg, log)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("blog_posts"))
	assert.True(t, db.Migrator().HasTable("post_likes"))
	assert.True(t, db.Migrator().HasTable("adventure_bucket_list"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}
