package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID    = "user_id"
	ContextKeyTokenID   = "token_id"
	ContextKeyTask      = "task"
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Authentication
const (
	MinPasswordLength = 8
	AuthTokenName     = "auth_token"
	TokenSecretBytes  = 20
)

// Field limits
const (
	MaxNameLength  = 255
	MaxEmailLength = 255
	MaxTitleLength = 255
)

// MaxRequestBodyBytes caps JSON request bodies.
const MaxRequestBodyBytes = 1 << 20

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"
