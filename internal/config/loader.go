package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	defaultChunkSize = 8
	maxChunkSize     = 65536
)

type config struct {
	port string

	readSize          int
	initialBufferSize int
	maxHeaderBytes    int

	readTimeout time.Duration

	logLevel       string
	logDevelopment bool
}

func parse() (*config, error) {
	port, err := parsePort()
	if err != nil {
		return nil, err
	}

	readSize := parseChunkSize("READ_SIZE")
	initialBufferSize := parseChunkSize("INITIAL_BUFFER_SIZE")

	maxHeaderBytes, err := strconv.Atoi(getenv("MAX_HEADER_BYTES", "0"))
	if err != nil || maxHeaderBytes < 0 {
		return nil, fmt.Errorf("invalid MAX_HEADER_BYTES value")
	}

	readTimeout, err := time.ParseDuration(getenv("READ_TIMEOUT", "0s"))
	if err != nil || readTimeout < 0 {
		return nil, fmt.Errorf("invalid READ_TIMEOUT value")
	}

	logLevel := getenv("LOG_LEVEL", "info")
	if _, err := zapcore.ParseLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL value: %w", err)
	}

	return &config{
		port:              port,
		readSize:          readSize,
		initialBufferSize: initialBufferSize,
		maxHeaderBytes:    maxHeaderBytes,
		readTimeout:       readTimeout,
		logLevel:          logLevel,
		logDevelopment:    getenvBool("LOG_DEVELOPMENT", false),
	}, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func parsePort() (string, error) {
	raw := getenv("PORT", "9001")
	if _, err := strconv.ParseUint(raw, 10, 16); err != nil {
		return "", fmt.Errorf("invalid PORT value: %w", err)
	}
	return raw, nil
}

func parseChunkSize(key string) int {
	raw := getenv(key, strconv.Itoa(defaultChunkSize))
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 || size > maxChunkSize {
		log.Printf("Invalid %s, falling back to %d", key, defaultChunkSize)
		return defaultChunkSize
	}
	return size
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val == "true"
}
