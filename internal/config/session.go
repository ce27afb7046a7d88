package config

import "time"

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type SessionConfig struct {
	Backend       string
	TTL           time.Duration
	CookieName    string
	SweepInterval time.Duration
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		Backend:       getEnv("SESSION_BACKEND", SessionBackendMemory),
		TTL:           getEnvDuration("SESSION_TTL", 12*time.Hour),
		CookieName:    getEnv("SESSION_COOKIE", "session_id"),
		SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
	}
}

// RedisConfig is read only when SESSION_BACKEND=redis. Selections are stored
// under KeyPrefix followed by the session id.
type RedisConfig struct {
	Address   string
	Username  string
	Password  string
	DB        int
	UseTLS    bool
	KeyPrefix string
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Address:   getEnv("REDIS_ADDR", "localhost:6379"),
		Username:  getEnv("REDIS_USERNAME", ""),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        getEnvInt("REDIS_DB", 0),
		UseTLS:    getEnvBool("REDIS_TLS", false),
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "git_analyzer:session:"),
	}
}
