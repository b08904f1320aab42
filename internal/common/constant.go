package common

// TokenHeaderName is the HTTP header that carries the session token on
// authenticated requests.
const TokenHeaderName = "X-Token"

// SessionKeyPrefix is prepended to the raw token to build the session
// store key.
const SessionKeyPrefix = "auth_"
