package redisx

import "time"

const (
	// Cart snapshot per user: cart:{userId} -> hash of productId -> quantity.
	KeyCartSnapshot = "cart:%d"
)

var (
	// Abandoned carts expire on their own; payment confirmation clears
	// them explicitly.
	TTLCartSnapshot = 30 * 24 * time.Hour
)
