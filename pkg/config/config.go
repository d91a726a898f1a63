package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type JWTConfig struct {
	SecretKey string
}

type AdminConfig struct {
	// Bcrypt hash of the admin password guarding the admin reload and stats
	// endpoints.
	PasswordHash string
}

type EngineConfig struct {
	DomainDir string
	TopK      int
	// Epsilon is the advisory convergence threshold on the selector's best
	// split score.
	Epsilon float64
	// ShareKey is the AES key for profile share codes (16/24/32 bytes).
	ShareKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("invalid REDIS_DB")
		}
		redisDB = n
	}

	topK, err := strconv.Atoi(getEnv("ENGINE_TOP_K", "10"))
	if err != nil {
		return nil, errors.New("invalid ENGINE_TOP_K")
	}
	epsilon, err := strconv.ParseFloat(getEnv("ENGINE_EPSILON", "0.01"), 64)
	if err != nil {
		return nil, errors.New("invalid ENGINE_EPSILON")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "pawScout API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "pawscout"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:       getEnv("REDIS_ENABLED", "false") == "true",
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Engine: EngineConfig{
			DomainDir: getEnv("ENGINE_DOMAIN_DIR", "domains/dog_breeds"),
			TopK:      topK,
			Epsilon:   epsilon,
			ShareKey:  getEnv("ENGINE_SHARE_KEY", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
