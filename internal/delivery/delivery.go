// Package delivery defines the contract every transport surface implements.
package delivery

import "context"

// Delivery is a serving surface (HTTP today). The fx app collects all
// deliveries and starts each of them on boot.
type Delivery interface {
	// Serve blocks while the surface is running.
	Serve(ctx context.Context) error
}
