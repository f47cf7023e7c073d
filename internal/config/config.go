package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by FRONTDESK_ENV (or .env.local by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("FRONTDESK_ENV")
	if envFile == "" {
		envFile = ".env.local"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// APIBaseURL is the visitor-registry backend.
func APIBaseURL() string {
	return os.Getenv("API_BASE_URL")
}

func AdminPIN() string {
	return os.Getenv("ADMIN_PIN")
}

// AdminPINHash is a bcrypt hash of the admin PIN. When set it takes
// precedence over ADMIN_PIN.
func AdminPINHash() string {
	return os.Getenv("ADMIN_PIN_HASH")
}

func SlackWebhookURL() string {
	return os.Getenv("SLACK_WEBHOOK_URL")
}

func TeamsWebhookURL() string {
	return os.Getenv("TEAMS_WEBHOOK_URL")
}

// AgentAPIKey protects the /v1 tool surface. Empty disables auth.
func AgentAPIKey() string {
	return os.Getenv("AGENT_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func RealtimeURL() string {
	u := os.Getenv("REALTIME_URL")
	if u == "" {
		return "wss://api.openai.com/v1/realtime"
	}
	return u
}

func RealtimeModel() string {
	m := os.Getenv("REALTIME_MODEL")
	if m == "" {
		return "gpt-4o-realtime-preview-2024-12-17"
	}
	return m
}

func RealtimeVoice() string {
	v := os.Getenv("REALTIME_VOICE")
	if v == "" {
		return "alloy"
	}
	return v
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MongoURI() string {
	return os.Getenv("MONGODB_URI")
}

func MongoDatabase() string {
	db := os.Getenv("MONGODB_DATABASE")
	if db == "" {
		return "frontdesk"
	}
	return db
}

// AuditStore returns the audit backend.
// Valid values: postgres, mongo, none. Defaults to "none".
func AuditStore() string {
	s := os.Getenv("AUDIT_STORE")
	if s == "" {
		return "none"
	}
	return s
}

// IntentProvider returns the free-text intent classifier.
// Valid values: rules, gemini. Defaults to "rules".
func IntentProvider() string {
	p := os.Getenv("INTENT_PROVIDER")
	if p == "" {
		return "rules"
	}
	return p
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func GeminiModel() string {
	m := os.Getenv("GEMINI_MODEL")
	if m == "" {
		return "gemini-2.5-flash"
	}
	return m
}

// ProfilePath points at a YAML capability profile. Empty selects the
// built-in profile named by PROFILE (default "visitor").
func ProfilePath() string {
	return os.Getenv("PROFILE_PATH")
}

func ProfileName() string {
	p := os.Getenv("PROFILE")
	if p == "" {
		return ProfileVisitor
	}
	return p
}

// HTTPTimeout bounds each backend and webhook call. Defaults to 15s.
func HTTPTimeout() time.Duration {
	return durationEnv("HTTP_TIMEOUT", 15*time.Second)
}

// PINMaxAttempts is the consecutive failure count that triggers a lockout.
func PINMaxAttempts() int {
	n, err := strconv.Atoi(os.Getenv("PIN_MAX_ATTEMPTS"))
	if err != nil || n <= 0 {
		return 5
	}
	return n
}

func PINLockout() time.Duration {
	return durationEnv("PIN_LOCKOUT", 5*time.Minute)
}

// PINAttemptRPS throttles PIN attempts per session. Defaults to 1.
func PINAttemptRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("PIN_ATTEMPT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 1
	}
	return rps
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

func durationEnv(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
