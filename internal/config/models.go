package config

import "time"

// StoreConfig represents the configuration for the disposable domain store
type StoreConfig struct {
	Type        string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
	Redis       RedisConfig
}

// RedisConfig represents the configuration for the Redis store
type RedisConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// PopulationConfig lists the domain sources loaded into the store
type PopulationConfig struct {
	OnStartup   bool
	Domains     []string
	Files       []string
	URLs        []string
	HTTPTimeout time.Duration
	S3Bucket    string
	S3Key       string
	S3Region    string
}

// HeuristicsConfig configures the suspicion rules
type HeuristicsConfig struct {
	Patterns       []string
	NumericLabels  bool
	MinTLDLength   int
	PolicyFile     string
	PolicyQuery    string
	TrustedDomains []string
}

// BulkConfig configures parallel bulk classification
type BulkConfig struct {
	Workers           int
	ParallelThreshold int
}

// ReviewConfig configures the model-assisted review
type ReviewConfig struct {
	Provider  string
	Threshold float64
	Apply     bool
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// HTTPConfig configures the HTTP API
type HTTPConfig struct {
	Enabled        bool
	ListenAddress  string
	MaxBulkSize    int
	AllowedOrigins []string
}

// SMTPConfig configures the SMTP sender gate
type SMTPConfig struct {
	Enabled          bool
	ListenAddress    string
	Domain           string
	RejectDisposable bool
	RejectSuspicious bool
	DisposableHeader string
	SuspiciousHeader string
	VerdictHeader    string
	PostfixEnabled   bool
	PostfixAddress   string
	PostfixPort      int
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:        c.GetString("store.type"),
		SQLitePath:  c.GetString("store.sqlite_path"),
		MySQLDSN:    c.GetString("store.mysql_dsn"),
		PostgresDSN: c.GetString("store.postgres_dsn"),
		Redis: RedisConfig{
			Address:   c.GetString("store.redis.address"),
			Password:  c.GetString("store.redis.password"),
			DB:        c.GetInt("store.redis.db"),
			KeyPrefix: c.GetString("store.redis.key_prefix"),
		},
	}
}

// GetPopulation returns the population configuration.
// An unparsable http_timeout falls back to 30s.
func (c *Config) GetPopulation() PopulationConfig {
	timeout, err := c.GetDuration("population.http_timeout")
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	return PopulationConfig{
		OnStartup:   c.GetBool("population.on_startup"),
		Domains:     c.GetStringSlice("population.domains"),
		Files:       c.GetStringSlice("population.files"),
		URLs:        c.GetStringSlice("population.urls"),
		HTTPTimeout: timeout,
		S3Bucket:    c.GetString("population.s3.bucket"),
		S3Key:       c.GetString("population.s3.key"),
		S3Region:    c.GetString("population.s3.region"),
	}
}

// GetHeuristics returns the heuristics configuration
func (c *Config) GetHeuristics() HeuristicsConfig {
	return HeuristicsConfig{
		Patterns:       c.GetStringSlice("heuristics.patterns"),
		NumericLabels:  c.GetBool("heuristics.numeric_labels"),
		MinTLDLength:   c.GetInt("heuristics.min_tld_length"),
		PolicyFile:     c.GetString("heuristics.policy_file"),
		PolicyQuery:    c.GetString("heuristics.policy_query"),
		TrustedDomains: c.GetStringSlice("heuristics.trusted_domains"),
	}
}

// GetBulk returns the bulk classification configuration
func (c *Config) GetBulk() BulkConfig {
	return BulkConfig{
		Workers:           c.GetInt("bulk.workers"),
		ParallelThreshold: c.GetInt("bulk.parallel_threshold"),
	}
}

// GetReview returns the review configuration
func (c *Config) GetReview() ReviewConfig {
	return ReviewConfig{
		Provider:  c.GetString("review.provider"),
		Threshold: c.GetFloat64("review.threshold"),
		Apply:     c.GetBool("review.apply"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetHTTP returns the HTTP API configuration
func (c *Config) GetHTTP() HTTPConfig {
	return HTTPConfig{
		Enabled:        c.GetBool("server.http.enabled"),
		ListenAddress:  c.GetString("server.http.listen_address"),
		MaxBulkSize:    c.GetInt("server.http.max_bulk_size"),
		AllowedOrigins: c.GetStringSlice("server.http.allowed_origins"),
	}
}

// GetSMTP returns the SMTP gate configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:          c.GetBool("server.smtp.enabled"),
		ListenAddress:    c.GetString("server.smtp.listen_address"),
		Domain:           c.GetString("server.smtp.domain"),
		RejectDisposable: c.GetBool("server.smtp.reject_disposable"),
		RejectSuspicious: c.GetBool("server.smtp.reject_suspicious"),
		DisposableHeader: c.GetString("server.smtp.headers.disposable"),
		SuspiciousHeader: c.GetString("server.smtp.headers.suspicious"),
		VerdictHeader:    c.GetString("server.smtp.headers.verdict"),
		PostfixEnabled:   c.GetBool("server.smtp.postfix.enabled"),
		PostfixAddress:   c.GetString("server.smtp.postfix.address"),
		PostfixPort:      c.GetInt("server.smtp.postfix.port"),
	}
}
