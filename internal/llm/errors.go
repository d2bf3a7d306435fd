package llm

import "errors"

// Sentinels returned by LLMClient.Generate. classify maps transport and
// parse failures onto them so callers can word a single notice.
var (
	ErrDisabled          = errors.New("planning assistant is disabled")
	ErrOllamaUnavailable = errors.New("planning assistant unreachable (is ollama running?)")
	ErrTimeout           = errors.New("planning assistant timed out")
	// ErrInvalidOutput means the reply was not the JSON proposal list asked
	// for. It is never retried.
	ErrInvalidOutput  = errors.New("planning assistant returned malformed proposals")
	ErrRetryExhausted = errors.New("planning assistant failed after retries")
)
