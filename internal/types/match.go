package types

// MatchResult records the winning candidate of one face-login attempt.
// It is never persisted; it lives for the duration of the request.
type MatchResult struct {
	User       *User
	Confidence float64
	Distance   float64
}
