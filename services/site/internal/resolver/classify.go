package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/sony/gobreaker"
)

const (
	msgInfoUnavailable  = "Consumet API is currently unavailable (returned HTML instead of JSON). The service might be down or undergoing maintenance. Please try again later."
	msgWatchUnavailable = "Streaming links unavailable. The Consumet API is currently down or undergoing maintenance."
	msgNoEpisodes       = "No episodes available"
	msgOutage           = "Consumet API is currently down (returning error pages). This is a known issue with the free API service. Please try again later."
	msgNetwork          = "Network error: Unable to connect to Consumet API. Please check your internet connection."
)

func unavailable(stage Stage, status int) *Error {
	msg := msgInfoUnavailable
	if stage == StageWatch {
		msg = msgWatchUnavailable
	}
	return &Error{Kind: KindUnavailable, Stage: stage, Status: status, Message: msg}
}

func httpStatus(stage Stage, status int) *Error {
	msg := fmt.Sprintf("Failed to fetch anime info: %d", status)
	if stage == StageWatch {
		msg = fmt.Sprintf("Failed to fetch streaming links: %d", status)
	}
	return &Error{Kind: KindHTTPStatus, Stage: stage, Status: status, Message: msg}
}

func episodeNotFound(n int) *Error {
	return &Error{Kind: KindEpisodeNotFound, Stage: StageInfo, Message: fmt.Sprintf("Episode %d not found", n)}
}

// classify maps a failure raised while fetching or decoding to a user-facing
// category. Bodies that do not decode and an open breaker both mean the
// upstream is serving error pages.
func classify(stage Stage, err error) *Error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		urlErr    *url.Error
		netErr    net.Error
	)
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &Error{Kind: KindOutage, Stage: stage, Message: msgOutage}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &urlErr), errors.As(err, &netErr):
		return &Error{Kind: KindNetwork, Stage: stage, Message: msgNetwork}
	default:
		return &Error{Kind: KindUnknown, Stage: stage, Message: err.Error()}
	}
}
