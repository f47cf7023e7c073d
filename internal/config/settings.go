package config

import "time"

// Settings is the process configuration read once at start and passed
// explicitly to every component.
type Settings struct {
	ServerAddr  string
	APIBaseURL  string
	AgentAPIKey string
	HTTPTimeout time.Duration

	AdminPIN       string
	AdminPINHash   string
	PINMaxAttempts int
	PINLockout     time.Duration
	PINAttemptRPS  float64

	SlackWebhookURL string
	TeamsWebhookURL string

	OpenAIAPIKey  string
	RealtimeURL   string
	RealtimeModel string
	RealtimeVoice string

	AuditStore    string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	IntentProvider string
	GeminiAPIKey   string
	GeminiModel    string

	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string

	Profile Profile
}

// FromEnv snapshots the environment. Call Load first.
func FromEnv() (Settings, error) {
	profile, err := LoadProfile(ProfilePath(), ProfileName())
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		ServerAddr:      ServerAddr(),
		APIBaseURL:      APIBaseURL(),
		AgentAPIKey:     AgentAPIKey(),
		HTTPTimeout:     HTTPTimeout(),
		AdminPIN:        AdminPIN(),
		AdminPINHash:    AdminPINHash(),
		PINMaxAttempts:  PINMaxAttempts(),
		PINLockout:      PINLockout(),
		PINAttemptRPS:   PINAttemptRPS(),
		SlackWebhookURL: SlackWebhookURL(),
		TeamsWebhookURL: TeamsWebhookURL(),
		OpenAIAPIKey:    OpenAIAPIKey(),
		RealtimeURL:     RealtimeURL(),
		RealtimeModel:   RealtimeModel(),
		RealtimeVoice:   RealtimeVoice(),
		AuditStore:      AuditStore(),
		DatabaseURL:     DatabaseURL(),
		MongoURI:        MongoURI(),
		MongoDatabase:   MongoDatabase(),
		IntentProvider:  IntentProvider(),
		GeminiAPIKey:    GeminiAPIKey(),
		GeminiModel:     GeminiModel(),
		RateLimitRPS:    RateLimitRPS(),
		RateLimitBurst:  RateLimitBurst(),
		LogLevel:        LogLevel(),
		Profile:         profile,
	}, nil
}
