package config

import (
	"os"
	"strings"
)

// ZeroQuantityRemovesLine makes SetQuantity(id, 0) behave like RemoveLine instead of failing.
//
// Set via env:
// - CART_ZERO_QTY_REMOVES=true
func ZeroQuantityRemovesLine() bool {
	return envBool("CART_ZERO_QTY_REMOVES")
}

// PublishSalesEnabled reports whether completed sales are pushed to Pub/Sub.
//
// Set via env:
// - PUBSUB_SALE_TOPIC=<topic> and PUBLISH_SALES=true
func PublishSalesEnabled() bool {
	return envBool("PUBLISH_SALES") && strings.TrimSpace(os.Getenv("PUBSUB_SALE_TOPIC")) != ""
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
