package token

import "time"

// Evaluator decides token validity. The recorded absolute expiry, set at
// login or refresh time from server lifetime hints, is authoritative when
// present; the decoded exp claim is the fallback when it is not. Anything
// undecidable reads as expired.
type Evaluator struct {
	nowFunc func() time.Time
}

type EvaluatorOption func(*Evaluator)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(nowFunc func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.nowFunc = nowFunc
	}
}

func NewEvaluator(options ...EvaluatorOption) *Evaluator {
	evaluator := &Evaluator{nowFunc: time.Now}
	for _, opt := range options {
		opt(evaluator)
	}
	return evaluator
}

// Expired reports whether the token must be treated as invalid.
func (e *Evaluator) Expired(rawToken string, recordedExpiry *time.Time) bool {
	now := e.nowFunc()

	// A recorded expiry decides on its own; tokens may be opaque when the
	// server supplied an explicit lifetime.
	if recordedExpiry != nil {
		return !now.Before(*recordedExpiry)
	}
	if rawToken == "" {
		return true
	}

	claims, err := DecodeClaims(rawToken)
	if err != nil {
		return true
	}
	return claims.ExpiresAt.Unix() < now.Unix()
}
