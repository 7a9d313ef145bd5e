package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"auth": map[string]any{
			"accessTtlMinutes": 15,
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"storage": map[string]any{
			"bucketUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "AUTH_ACCESSTTLMINUTES", want: "auth.accessTtlMinutes"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "STORAGE_BUCKETURL", want: "storage.bucketUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestAuthConfig_TTLs(t *testing.T) {
	auth := &AuthConfig{AccessTTLMinutes: 15, RefreshTTLMinutes: 30 * 24 * 60}

	if got := auth.AccessTTL(); got != 15*time.Minute {
		t.Fatalf("AccessTTL() = %v, want %v", got, 15*time.Minute)
	}
	if got := auth.RefreshTTL(); got != 30*24*time.Hour {
		t.Fatalf("RefreshTTL() = %v, want %v", got, 30*24*time.Hour)
	}
}
