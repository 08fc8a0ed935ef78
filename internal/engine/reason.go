package engine

import (
	"context"
	"errors"
	"strings"
)

// Failure reasons attached to log entries
const (
	ReasonUnknown     = "unknown"
	ReasonCanceled    = "canceled"
	ReasonTimeout     = "timeout"
	ReasonUnavailable = "unavailable"
	ReasonPrivate     = "private"
	ReasonAgeLimit    = "age_restricted"
	ReasonGeoBlocked  = "geo_blocked"
	ReasonRateLimited = "rate_limited"
	ReasonNetwork     = "network"
	ReasonUnsupported = "unsupported"
)

// Classifier maps adapter-specific errors to a reason, returning "" when unknown.
type Classifier interface {
	Classify(err error) string
}

var messageReasons = []struct {
	needle string
	reason string
}{
	{"private video", ReasonPrivate},
	{"video is private", ReasonPrivate},
	{"sign in to confirm your age", ReasonAgeLimit},
	{"age restricted", ReasonAgeLimit},
	{"not available in your country", ReasonGeoBlocked},
	{"geo", ReasonGeoBlocked},
	{"http error 429", ReasonRateLimited},
	{"too many requests", ReasonRateLimited},
	{"video unavailable", ReasonUnavailable},
	{"has been removed", ReasonUnavailable},
	{"unsupported url", ReasonUnsupported},
	{"connection refused", ReasonNetwork},
	{"no such host", ReasonNetwork},
	{"timeout", ReasonNetwork},
}

// Reason classifies an engine error for logging. The result never reaches the user.
func Reason(eng Engine, err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, ErrUnsupported):
		return ReasonUnsupported
	}
	if c, ok := eng.(Classifier); ok {
		if r := c.Classify(err); r != "" {
			return r
		}
	}
	msg := strings.ToLower(err.Error())
	for _, mr := range messageReasons {
		if strings.Contains(msg, mr.needle) {
			return mr.reason
		}
	}
	return ReasonUnknown
}
