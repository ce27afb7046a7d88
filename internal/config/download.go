package config

type DownloadConfig struct {
	InputFile   string
	OutputDir   string
	GroupFormat string
}

func loadDownloadConfig() DownloadConfig {
	return DownloadConfig{
		InputFile:   getEnv("DOWNLOAD_INPUT_FILE", "inputs/repos"),
		OutputDir:   getEnv("DOWNLOAD_OUTPUT_DIR", "downloads"),
		GroupFormat: getEnv("DOWNLOAD_GROUP_FORMAT", "gr%02d"),
	}
}
