package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	GigaChat   GigaChatConfig
	Chat       ChatConfig
	Upload     UploadConfig
	Forecast   ForecastConfig
	Migrations MigrationsConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

// ChatConfig controls how much stored data is attached to assistant prompts.
type ChatConfig struct {
	ContextRecords int
}

type UploadConfig struct {
	MaxBytes int
}

type ForecastConfig struct {
	StartingBalance float64
}

type MigrationsConfig struct {
	Path string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work as well (Docker/K8s)
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	contextRecords, err := strconv.Atoi(getEnv("CHAT_CONTEXT_RECORDS", "5"))
	if err != nil || contextRecords < 0 {
		contextRecords = 5
	}
	maxUpload, err := strconv.Atoi(getEnv("UPLOAD_MAX_BYTES", "10485760"))
	if err != nil || maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	startingBalance, err := strconv.ParseFloat(getEnv("FORECAST_STARTING_BALANCE", "10000"), 64)
	if err != nil {
		startingBalance = 10000
	}
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fin_dashboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		Chat: ChatConfig{
			ContextRecords: contextRecords,
		},
		Upload: UploadConfig{
			MaxBytes: maxUpload,
		},
		Forecast: ForecastConfig{
			StartingBalance: startingBalance,
		},
		Migrations: MigrationsConfig{
			Path: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
