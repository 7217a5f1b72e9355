package utils

import (
	"time"
)

// ContextKey is the type used for request-scoped context values.
type ContextKey string

// Context keys for request-scoped observability values.
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Targeting constants
const (
	// GlobalTargetSentinel is the reserved category id that marks a CTA or
	// form as the page-wide default instead of a real category reference.
	GlobalTargetSentinel = "global"
)

// Listing constants
const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxBulkPostIDs caps how many posts a single bulk action may touch.
	MaxBulkPostIDs = 200
)
