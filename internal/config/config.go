package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBDriver string // "sqlite" (default) or "mysql"
	DBPath   string // sqlite database file
	DBUser   string // mysql username
	DBPass   string // mysql password (optional)
	DBHost   string // mysql host address
	DBPort   string // mysql port number
	DBName   string // mysql database name

	BcryptCost              int    // bcrypt cost for password hashing
	DefaultAdminPassword    string // password of the built-in admin account
	DefaultEmployeePassword string // password of the built-in employee account

	LLMEndpoint string        // chat completions URL
	LLMAPIKey   string        // bearer token for the completions endpoint
	LLMModel    string        // model identifier sent with every request
	LLMTimeout  time.Duration // upper bound on one completion call

	STTEndpoint string        // transcription URL
	STTAPIKey   string        // bearer token for the transcription endpoint
	STTModel    string        // transcription model identifier
	STTTimeout  time.Duration // upper bound on one transcription call
	MaxAudioMB  int           // upload limit for audio files

	RabbitURL      string // AMQP broker; empty disables event publishing
	ActivityLogDir string // where the activity consumer writes activity.log
}

// Load reads configuration values from environment variables and returns a
// Config.  The MySQL connection variables are required only when DB_DRIVER
// is mysql; missing values cause the program to exit with a fatal log
// message.
func Load() Config {
	cfg := Config{
		Env:      getenv("APP_ENV", "dev"),
		Port:     getenv("APP_PORT", "8080"),
		DBDriver: getenv("DB_DRIVER", "sqlite"),
		DBPath:   getenv("DB_PATH", "data/innovation.db"),

		BcryptCost:              envInt("BCRYPT_COST", 10),
		DefaultAdminPassword:    getenv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		DefaultEmployeePassword: getenv("DEFAULT_EMPLOYEE_PASSWORD", "employee123"),

		LLMEndpoint: getenv("LLM_ENDPOINT", "https://llm.blackbox.ai/chat/completions"),
		LLMAPIKey:   os.Getenv("LLM_API_KEY"),
		LLMModel:    getenv("LLM_MODEL", "openrouter/claude-sonnet-4"),
		LLMTimeout:  envDur("LLM_TIMEOUT", 300*time.Second),

		STTEndpoint: os.Getenv("STT_ENDPOINT"),
		STTAPIKey:   os.Getenv("STT_API_KEY"),
		STTModel:    getenv("STT_MODEL", "whisper-1"),
		STTTimeout:  envDur("STT_TIMEOUT", 60*time.Second),
		MaxAudioMB:  envInt("MAX_AUDIO_MB", 25),

		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		ActivityLogDir: getenv("ACTIVITY_LOG_DIR", "logs"),
	}
	if cfg.RabbitURL == "" {
		cfg.RabbitURL = os.Getenv("AMQP_URL")
	}
	if cfg.DBDriver == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = getenv("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}
