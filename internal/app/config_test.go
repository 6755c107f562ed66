package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "test.db"))
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StorageModeNone, cfg.StorageMode())
	assert.Equal(t, "__session", cfg.Auth.CookieName)
	assert.Equal(t, "email", cfg.Auth.EmailClaim)
	assert.Equal(t, 4, cfg.Content.MaxParallel)
	assert.Equal(t, "per_chapter", cfg.Content.FailurePolicy)
	assert.Equal(t, 0, cfg.Content.CourseLimit)
	assert.True(t, cfg.YouTube.Always)
	assert.True(t, cfg.OpenAI.StructuredOutput)
	assert.True(t, cfg.Storage.FallbackEnabled)
	assert.Equal(t, "coursegen:sse", cfg.Redis.Channel)
}

func TestLoadConfigOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CONTENT_FAILURE_POLICY", "all_or_nothing")
	t.Setenv("COURSE_LIMIT_PER_USER", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("OBJECT_STORAGE_MODE", "local")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "all_or_nothing", cfg.Content.FailurePolicy)
	assert.Equal(t, 5, cfg.Content.CourseLimit)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, StorageModeLocal, cfg.StorageMode())
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		DB:     DBConfig{Driver: "postgres"},
		Auth:   AuthConfig{JWTSecret: "x"},
		OpenAI: OpenAIConfig{APIKey: "k"},
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.DB.Driver = "mysql"
	assert.ErrorContains(t, bad.Validate(), "DB_DRIVER")

	bad = valid
	bad.Auth = AuthConfig{}
	assert.ErrorContains(t, bad.Validate(), "AUTH_JWT_SECRET")

	bad = valid
	bad.OpenAI.APIKey = ""
	assert.ErrorContains(t, bad.Validate(), "OPENAI_API_KEY")

	bad = valid
	bad.Storage.Mode = "s3"
	assert.ErrorContains(t, bad.Validate(), "OBJECT_STORAGE_MODE")

	bad = valid
	bad.Content.FailurePolicy = "sometimes"
	assert.ErrorContains(t, bad.Validate(), "CONTENT_FAILURE_POLICY")

	bad = valid
	bad.Content.CourseLimit = -1
	assert.ErrorContains(t, bad.Validate(), "COURSE_LIMIT_PER_USER")
}

func TestDSN(t *testing.T) {
	cfg := Config{DB: DBConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "n"}}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", cfg.DSN())

	cfg.DB.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.DSN())

	cfg.DB.Driver = "sqlite"
	cfg.DB.SQLitePath = "x.db"
	assert.Equal(t, "x.db", cfg.DSN())
}

func TestNewWithConfigServesHealth(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OBJECT_STORAGE_MODE", "local")
	t.Setenv("LOCAL_MEDIA_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	a, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NoError(t, a.Start(context.Background()))

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses?courseId=0", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.NotNil(t, a.Clients.Banners.Store)
	assert.Nil(t, a.Clients.Videos)
	assert.Nil(t, a.Clients.SSEBus)
}
