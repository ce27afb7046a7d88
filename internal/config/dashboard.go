package config

import (
	"time"
)

type DashboardConfig struct {
	Addr            string
	DownloadsDir    string
	Timezone        string
	DefaultDepth    int
	DefaultLookback time.Duration
	HistoryLimit    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

func loadDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Addr:            getEnv("DASHBOARD_ADDR", "127.0.0.1:8501"),
		DownloadsDir:    getEnv("DOWNLOAD_OUTPUT_DIR", "downloads"),
		Timezone:        getEnv("DASHBOARD_TIMEZONE", "UTC"),
		DefaultDepth:    getEnvInt("DASHBOARD_DEFAULT_DEPTH", 3),
		DefaultLookback: getEnvDuration("DASHBOARD_DEFAULT_LOOKBACK", 30*24*time.Hour),
		HistoryLimit:    getEnvInt("DASHBOARD_HISTORY_LIMIT", 100),
		ReadTimeout:     getEnvDuration("DASHBOARD_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("DASHBOARD_WRITE_TIMEOUT", 2*time.Minute),
	}
}
