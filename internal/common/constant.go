// Package common contains shared constants and sentinel errors used across
// voicediary components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DateLayout is the canonical calendar date form used as an entry key.
const DateLayout = "2006-01-02"
