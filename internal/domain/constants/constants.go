// Package constants holds shared domain-level constants.
package constants

// Pub/Sub provider selection values.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
