package env

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// actual environment variables
var DOMAIN string
var MONGO_URI string
var REDIS_ADDR string
var JWT_SECRET []byte
var ADMIN_USERNAME string
var ADMIN_PASSWORD_HASH string
var PREFORK bool

var OUTBOX_PAGE_SIZE int
var DELIVERY_TIMEOUT time.Duration
var REMOTE_CACHE_TTL time.Duration

// this is required
var VERSION string

func Init(envRoot string, appVersion string) {
	loadEnv(envRoot)
	loadVersion(appVersion)

	PREFORK, _ = strconv.ParseBool(os.Getenv("PREFORK"))
	MONGO_URI = os.Getenv("MONGO_URI")
	REDIS_ADDR = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if REDIS_ADDR == "" {
		REDIS_ADDR = "127.0.0.1:6379"
	}
	JWT_SECRET = []byte(os.Getenv("JWT_SECRET"))
	ADMIN_USERNAME = strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	ADMIN_PASSWORD_HASH = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))

	DOMAIN = strings.TrimSpace(os.Getenv("DOMAIN"))
	if DOMAIN == "" {
		DOMAIN = "localhost"
	}

	OUTBOX_PAGE_SIZE = intEnv("OUTBOX_PAGE_SIZE", 50)
	DELIVERY_TIMEOUT = durationEnv("DELIVERY_TIMEOUT_SECONDS", 30*time.Second)
	REMOTE_CACHE_TTL = durationEnv("REMOTE_CACHE_TTL_SECONDS", time.Hour)
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if err := godotenv.Overload(path); err != nil {
		log.Printf("no env file at %s, using process environment", path)
	}
}

func loadVersion(appVersion string) {
	if appVersion == "" {
		data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
		if err != nil {
			log.Fatalf("failed to read version file from repo root: %v", err)
		}

		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			VERSION = trimmed
		} else {
			VERSION = "unknown"
		}
	} else {
		VERSION = appVersion
	}
}

func intEnv(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
