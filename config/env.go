package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBackendURL    = "http://127.0.0.1:8090"
	defaultRedisAddr     = "localhost:6379"
	defaultAppPort       = "8080"
	defaultAppEnv        = "local"
	defaultStoreDriver   = "file"
	defaultStoreFileRoot = "storage/state"
	defaultIdleTimeout   = "10m"
	defaultRetryAttempts = "3"
	defaultRetryBackoff  = "300ms"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once and merges them over the defaults.
// Safe to call from every accessor; subsequent calls are no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"BACKEND_URL":        defaultBackendURL,
		"BACKEND_PUBLIC_URL": "",
		"REDIS_ADDR":         defaultRedisAddr,
		"REDIS_PASSWORD":     "",
		"APP_PORT":           defaultAppPort,
		"APP_ENV":            defaultAppEnv,
		"STORE_DRIVER":       defaultStoreDriver,
		"STORE_FILE_ROOT":    defaultStoreFileRoot,
		"IDLE_TIMEOUT":       defaultIdleTimeout,
		"RETRY_ATTEMPTS":     defaultRetryAttempts,
		"RETRY_BACKOFF":      defaultRetryBackoff,
		"MONGO_LOG_URI":      "",
	}
}

// BackendURL is the record-store base URL used for server-side calls.
func BackendURL() string {
	_ = Load()
	return get("BACKEND_URL", defaultBackendURL)
}

// BackendPublicURL is the browser-facing record-store base URL, used when
// building file URLs that end up in rendered markup. Falls back to
// BackendURL when unset.
func BackendPublicURL() string {
	_ = Load()
	if u := get("BACKEND_PUBLIC_URL", ""); u != "" {
		return u
	}
	return BackendURL()
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// StoreDriver selects the durable client-state store backend.
func StoreDriver() string {
	_ = Load()

	driver := strings.ToLower(get("STORE_DRIVER", defaultStoreDriver))
	switch driver {
	case "file", "redis":
		return driver
	default:
		return defaultStoreDriver
	}
}

func StoreFileRoot() string {
	_ = Load()
	return get("STORE_FILE_ROOT", defaultStoreFileRoot)
}

// IdleTimeout is the inactivity window after which an authenticated
// session is force-expired.
func IdleTimeout() time.Duration {
	_ = Load()
	return duration("IDLE_TIMEOUT", defaultIdleTimeout)
}

// RetryAttempts is the total number of attempts a resilient backend call
// makes before serving its fallback.
func RetryAttempts() int {
	_ = Load()

	n, err := strconv.Atoi(get("RETRY_ATTEMPTS", defaultRetryAttempts))
	if err != nil || n < 1 {
		return 3
	}
	return n
}

// RetryBackoff is the base backoff unit; attempt n waits n × RetryBackoff.
func RetryBackoff() time.Duration {
	_ = Load()
	return duration("RETRY_BACKOFF", defaultRetryBackoff)
}

// MongoLogURI enables the async Mongo log handler when non-empty.
func MongoLogURI() string {
	_ = Load()
	return get("MONGO_LOG_URI", "")
}

func duration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(get(key, fallback))
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	// Real environment variables win over both files.
	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
