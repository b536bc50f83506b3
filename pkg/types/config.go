package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request network timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "anilookup/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// AniListConfig holds settings for the upstream GraphQL client.
type AniListConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the GraphQL endpoint (default https://graphql.anilist.co).
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// MediaType restricts lookups to ANIME or MANGA (default ANIME).
	MediaType MediaKind `json:"media_type" yaml:"media_type" mapstructure:"media_type"`

	// RatePerMinute is the shared request budget (default 90, AniList's limit).
	RatePerMinute int `json:"rate_per_minute" yaml:"rate_per_minute" mapstructure:"rate_per_minute"`

	// Burst is the number of requests allowed above the steady rate (default 5).
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`

	// MaxRetries is the number of retries on HTTP 429 (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// RecommendConfig holds settings for the recommendation fan-out.
type RecommendConfig struct {
	// Concurrency caps in-flight upstream requests during fan-out (default 4, max 8).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}

// PaginateConfig holds settings for paginated result sessions.
type PaginateConfig struct {
	// IdleTimeout is how long a session stays navigable without interaction (default 600s).
	IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// RenderConfig holds settings for card rendering.
type RenderConfig struct {
	// IssueTrackerURL is linked from the generic error card.
	IssueTrackerURL string `json:"issue_tracker_url" yaml:"issue_tracker_url" mapstructure:"issue_tracker_url"`
}

// ServerConfig holds settings for the websocket conversation server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json. Empty means console for one-shot commands
	// and json for serve.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations.
type Config struct {
	AniList   AniListConfig   `json:"anilist" yaml:"anilist" mapstructure:"anilist"`
	Recommend RecommendConfig `json:"recommend" yaml:"recommend" mapstructure:"recommend"`
	Paginate  PaginateConfig  `json:"paginate" yaml:"paginate" mapstructure:"paginate"`
	Render    RenderConfig    `json:"render" yaml:"render" mapstructure:"render"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		AniList: AniListConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "anilookup/0.1",
			},
			Endpoint:      "https://graphql.anilist.co",
			MediaType:     KindAnime,
			RatePerMinute: 90,
			Burst:         5,
			MaxRetries:    2,
		},
		Recommend: RecommendConfig{Concurrency: 4},
		Paginate:  PaginateConfig{IdleTimeout: 600 * time.Second},
		Render: RenderConfig{
			IssueTrackerURL: "https://github.com/pdiddy/anilookup/issues",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}
