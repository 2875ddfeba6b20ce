package model

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Logging  LoggingConfig
	Security SecurityConfig
	Relay    RelayConfig
	CORS     CORSConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int
	Host         string
	Timeout      int // seconds, read timeout
	WriteTimeout int // seconds, 0 disables (streams may run long)
	Mode         string
}

// ProviderConfig selects and tunes the video-info provider
type ProviderConfig struct {
	Name      string // "youtube" or "ytdlp"
	Timeout   int    // seconds applied to info lookups, 0 disables
	YTDLPPath string
	ProxyURL  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string
	FilePath string // empty logs to stdout only
	Encoding string // "json" or "console"
}

// SecurityConfig holds input validation configuration
type SecurityConfig struct {
	AllowedDomains []string
}

// RelayConfig holds stream relay configuration
type RelayConfig struct {
	BufferMaxMB int64 // cap for the buffered (data URI) mode, 0 = unlimited
}

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	AllowOrigins []string // empty or "*" allows any origin
}
