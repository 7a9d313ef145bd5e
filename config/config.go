// Package config loads the application configuration from YAML files with
// environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"classroom/internal/domain/service"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const defaultPath = "."

// Auth defaults mirror the original deployment: 15-minute access tokens and
// 30-day refresh tokens.
const (
	defaultAccessTTLMinutes  = 15
	defaultRefreshTTLMinutes = 30 * 24 * 60
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Roles maps the guard's role checks onto the seeded role rows.
	Roles service.RolesConfig `json:"roles" yaml:"roles"`

	// Storage configures the blob bucket holding analyzer binaries.
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// PubSub configures event publishing toward the analysis pipeline.
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// AuthConfig defines authentication-related configuration.
type AuthConfig struct {
	// Secret signs access tokens. Loaded once at startup and immutable after.
	Secret string `json:"secret" yaml:"secret"`

	// AccessTTLMinutes bounds the life of an access token.
	AccessTTLMinutes int `json:"accessTtlMinutes" yaml:"accessTtlMinutes"`

	// RefreshTTLMinutes bounds the life of the refresh cookie. The stored
	// token itself carries no expiry; rotation overwrite is what invalidates it.
	RefreshTTLMinutes int `json:"refreshTtlMinutes" yaml:"refreshTtlMinutes"`

	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
}

// AccessTTL returns the access-token lifetime as a duration.
func (c *AuthConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh-cookie lifetime as a duration.
func (c *AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLMinutes) * time.Minute
}

// StorageConfig defines the analyzer binary bucket.
type StorageConfig struct {
	// BucketURL is a gocloud.dev bucket URL, e.g. "file:///var/lib/classroom/analyzers"
	// or "gs://classroom-analyzers".
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: AUTH_ACCESSTTLMINUTES -> auth.accessTtlMinutes
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads the configuration and applies defaults.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.AccessTTLMinutes <= 0 {
		cfg.Auth.AccessTTLMinutes = defaultAccessTTLMinutes
	}
	if cfg.Auth.RefreshTTLMinutes <= 0 {
		cfg.Auth.RefreshTTLMinutes = defaultRefreshTTLMinutes
	}
	if cfg.Roles == (service.RolesConfig{}) {
		cfg.Roles = service.RolesConfig{AdminID: 1, InstructorID: 2, LearnerID: 3}
	}

	return cfg, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

// findExistingSegment looks up segment case-insensitively among the keys of
// current, returning the canonical key spelling and its nested map.
func findExistingSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	if current == nil {
		return "", nil, false
	}

	for key, value := range current {
		if strings.EqualFold(key, segment) {
			next, _ := value.(map[string]any)

			return key, next, true
		}
	}

	return "", nil, false
}
