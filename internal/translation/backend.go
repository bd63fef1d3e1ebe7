package translation

import (
	"context"
	"fmt"
)

// ErrorKind classifies backend failures so retry policy is a simple switch
type ErrorKind int

const (
	// KindRateLimit means the backend rejected the call for rate limiting;
	// the caller should back off and retry.
	KindRateLimit ErrorKind = iota
	// KindTransient is a temporary backend problem (5xx, transport); the
	// caller may retry.
	KindTransient
	// KindFatal is a non-retryable failure (bad credentials, bad request)
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimit:
		return "rate-limit"
	case KindTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// BackendError is a classified failure from the translation backend
type BackendError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("backend (%s): %s", e.Kind, e.Message)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Request is a single generation request to the backend
type Request struct {
	Prompt    string
	MaxTokens int
}

// Result carries generated text plus the token counts reported by the
// backend for usage accounting.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Backend is the remote language-model call. Implementations classify
// failures as *BackendError so the driver can decide whether to retry.
type Backend interface {
	Translate(ctx context.Context, req Request) (*Result, error)
}
