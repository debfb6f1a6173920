// Package common contains shared constants, sentinel errors and small helpers
// used across drscreen components.
package common

// SessionIssuer is the issuer claim stamped on session tokens.
const SessionIssuer = "drscreen"

// UnknownRecommendation is shown when a class has no entry in the
// recommendations file.
const UnknownRecommendation = "No specific recommendations available."
