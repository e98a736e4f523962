package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper). Loaded once at startup
// and handed to router.CreateApp.
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	DatabaseURL         string
	RedisURL            string
	SupabaseURL         string // e.g. https://<project>.supabase.co, used for storage upload and public URLs
	SupabaseSecretKey   string // service_role key, the anon key cannot write objects
	MediaBucket         string
	FrontendURL         string
	AllowedOrigins      []string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	SessionSecret       string // express-session secret; when set, signed cookies are verified
	Uploads             UploadLimits
}

// UploadLimits bounds what the listing endpoints accept.
type UploadLimits struct {
	MaxFileBytes    int64
	MaxFiles        int
	MaxVideoSeconds int
	BodyLimitBytes  int
}

const mb = 1024 * 1024

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MaxVideoDuration is the longest listing video accepted.
func (c *Config) MaxVideoDuration() time.Duration {
	return time.Duration(c.Uploads.MaxVideoSeconds) * time.Second
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MEDIA_BUCKET", "listing-media")
	viper.SetDefault("MAX_FILE_SIZE_MB", 50)
	viper.SetDefault("MAX_UPLOAD_FILES", 5)
	viper.SetDefault("MAX_VIDEO_SECONDS", 60)
	viper.SetDefault("BODY_LIMIT_MB", 260)

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		SupabaseURL:         viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		MediaBucket:         viper.GetString("MEDIA_BUCKET"),
		FrontendURL:         strings.TrimRight(viper.GetString("FRONTEND_URL"), "/"),
		AllowedOrigins:      splitList(viper.GetString("ALLOWED_ORIGINS")),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		Uploads: UploadLimits{
			MaxFileBytes:    viper.GetInt64("MAX_FILE_SIZE_MB") * mb,
			MaxFiles:        viper.GetInt("MAX_UPLOAD_FILES"),
			MaxVideoSeconds: viper.GetInt("MAX_VIDEO_SECONDS"),
			BodyLimitBytes:  viper.GetInt("BODY_LIMIT_MB") * mb,
		},
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
