package service

import "errors"

var (
	ErrQuotaExceeded      = errors.New("daily quota exceeded")
	ErrUnauthorizedVoice  = errors.New("voice requires premium")
	ErrUnknownVoice       = errors.New("unknown voice")
	ErrCatalogUnavailable = errors.New("voice catalog unavailable")
	ErrUpstreamGeneration = errors.New("text generation failed")
	ErrUpstreamSynthesis  = errors.New("speech synthesis failed")
)
