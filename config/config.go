package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	DatabaseURL       string
	MaxFileSize       int64
	OCRConcurrency    int64
	OCRTimeout        time.Duration
	OCRMaxPages       int
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	return &Config{
		ServerPort:        serverPort,
		TesseractDataPath: tesseractDataPath,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MaxFileSize:       envInt64("MAX_FILE_SIZE", 50*1024*1024), // 50 MB
		OCRConcurrency:    envInt64("OCR_CONCURRENCY", 2),
		OCRTimeout:        envDuration("OCR_TIMEOUT", 5*time.Minute),
		OCRMaxPages:       int(envInt64("OCR_MAX_PAGES", 10)),
	}
}

func envInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %s", key, raw, fallback)
		return fallback
	}
	return v
}
