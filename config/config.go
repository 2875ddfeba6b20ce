package config

import (
	"os"
	"strconv"
	"strings"

	"videorelay/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables
func Load() *model.Config {
	godotenv.Load()

	return &model.Config{
		Server: model.ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			Host:         getEnvStr("SERVER_HOST", "0.0.0.0"),
			Timeout:      getEnvInt("SERVER_TIMEOUT", 300),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 0),
			Mode:         getEnvStr("GIN_MODE", "release"),
		},
		Provider: model.ProviderConfig{
			Name:      strings.ToLower(getEnvStr("PROVIDER", "youtube")),
			Timeout:   getEnvInt("PROVIDER_TIMEOUT", 60),
			YTDLPPath: getEnvStr("YTDLP_PATH", ""),
			ProxyURL:  getEnvStr("PROXY_URL", ""),
		},
		Logging: model.LoggingConfig{
			Level:    getEnvStr("LOG_LEVEL", "info"),
			FilePath: getEnvStr("LOG_FILE", ""),
			Encoding: getEnvStr("LOG_ENCODING", "json"),
		},
		Security: model.SecurityConfig{
			AllowedDomains: splitList(getEnvStr("ALLOWED_DOMAINS", "youtube.com,youtu.be")),
		},
		Relay: model.RelayConfig{
			BufferMaxMB: getEnvInt64("RELAY_BUFFER_MAX_MB", 0),
		},
		CORS: model.CORSConfig{
			AllowOrigins: splitList(getEnvStr("CORS_ALLOW_ORIGINS", "*")),
		},
	}
}

// GinMode returns mode when gin accepts it, otherwise gin.ReleaseMode and
// false. gin.SetMode panics on unknown values.
func GinMode(mode string) (string, bool) {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return mode, true
	default:
		return gin.ReleaseMode, false
	}
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	valStr := getEnvStr(key, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	valStr := getEnvStr(key, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}
	return defaultVal
}
