package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"git-repository-analyzer/internal/config"
	"git-repository-analyzer/internal/downloader"
	"git-repository-analyzer/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	l, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	urls, err := downloader.ReadURLs(cfg.Download.InputFile)
	if err != nil {
		l.Error("Failed to read repository list", zap.String("file", cfg.Download.InputFile), zap.Error(err))
		return 1
	}
	l.Info("Starting download", zap.Int("repositories", len(urls)), zap.String("output", cfg.Download.OutputDir))

	d := downloader.New(cfg.Download, l, os.Stdout)
	if _, err := d.Run(ctx, urls); err != nil {
		l.Warn("Download interrupted", zap.Error(err))
		return 1
	}

	return 0
}
