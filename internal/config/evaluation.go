package config

import "time"

const (
	EvaluationBackendFile     = "file"
	EvaluationBackendPostgres = "postgres"
)

type EvaluationConfig struct {
	Backend string
	Dir     string
}

func loadEvaluationConfig() EvaluationConfig {
	return EvaluationConfig{
		Backend: getEnv("EVALUATION_BACKEND", EvaluationBackendFile),
		Dir:     getEnv("EVALUATION_DIR", "evaluations"),
	}
}

// DatabaseConfig sizes the pgx pool behind EVALUATION_BACKEND=postgres. The
// dashboard writes one evaluation at a time, so the pool stays small.
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnv("DATABASE_URL", "postgres://localhost/git_analyzer?sslmode=disable"),
		MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 4)),
		MinConns:        int32(getEnvInt("DB_MIN_CONNS", 0)),
		MaxConnLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		MaxConnIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		ConnectTimeout:  getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
	}
}
