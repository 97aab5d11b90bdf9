package constants

// Session and context keys
const (
	SessionCookieName = "softdesk_session"
	ContextKeyUserID  = "user_id"
)

// Validation limits
const (
	MinPasswordLength = 8
	MaxTitleLength    = 128
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
