package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig sets the quota for one endpoint. A Path ending in "/"
// matches every path under it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // defaults to Limit
}

// DefaultEndpointConfigs returns the per-endpoint quotas. Endpoints that call
// the language model are the most expensive and get the tightest limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/match", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/resumes/parse", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/analyze", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		{Path: "/extract", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/score", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/matches/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// ParseList parses a comma-separated list of client identifiers into a set.
func ParseList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result[item] = true
		}
	}
	return result
}
