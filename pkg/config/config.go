package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	ViaCEP        ViaCEPConfig
	Uploads       UploadsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECOLETA_APP_ENV" required:"true"`
	Port         string `envconfig:"ECOLETA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ECOLETA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECOLETA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"ECOLETA_DB_DSN"`
	Driver string `envconfig:"ECOLETA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ECOLETA_DB_HOST"`
	LegacyPort     int    `envconfig:"ECOLETA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ECOLETA_DB_USER"`
	LegacyPassword string `envconfig:"ECOLETA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ECOLETA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ECOLETA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECOLETA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECOLETA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECOLETA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECOLETA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// NormalizedDriver returns the lower-cased driver name, defaulting to postgres.
func (db DBConfig) NormalizedDriver() string {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	if driver == "" {
		return DriverPostgres
	}
	return driver
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOLETA_REDIS_URL"`
	Address      string        `envconfig:"ECOLETA_REDIS_ADDR"`
	Password     string        `envconfig:"ECOLETA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOLETA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOLETA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOLETA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOLETA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOLETA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOLETA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECOLETA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECOLETA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECOLETA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECOLETA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECOLETA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ECOLETA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ECOLETA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ECOLETA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ECOLETA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ECOLETA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ECOLETA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite                bool `envconfig:"ECOLETA_USE_SQLITE" default:"false"`
	AutoMigrate              bool `envconfig:"ECOLETA_AUTO_MIGRATE" default:"false"`
	StrictDocumentValidation bool `envconfig:"ECOLETA_STRICT_DOCUMENT_VALIDATION" default:"false"`
}

type ViaCEPConfig struct {
	BaseURL     string        `envconfig:"ECOLETA_VIACEP_BASE_URL" default:"https://viacep.com.br/ws"`
	MaxAttempts int           `envconfig:"ECOLETA_VIACEP_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"ECOLETA_VIACEP_BASE_DELAY" default:"2s"`
	Timeout     time.Duration `envconfig:"ECOLETA_VIACEP_TIMEOUT" default:"10s"`
}

type UploadsConfig struct {
	Dir           string `envconfig:"ECOLETA_UPLOADS_DIR" default:"uploads/perfil"`
	MaxPhotoBytes int64  `envconfig:"ECOLETA_UPLOADS_MAX_PHOTO_BYTES" default:"2097152"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ECOLETA_CORS_ALLOWED_ORIGINS" default:"*"`
	MaxAgeSeconds  int      `envconfig:"ECOLETA_CORS_MAX_AGE" default:"300"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	switch db.NormalizedDriver() {
	case DriverSQLite:
		db.DSN = DefaultSQLiteDSN
		return nil
	case DriverMySQL:
		return fmt.Errorf("%s is required for the mysql driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
