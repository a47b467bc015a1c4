// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"net/http"

	gh "github.com/google/go-github/v67/github"
	"github.com/jmgilman/go/errors"
)

// CodeUpstream marks a non-success response that is not a quota problem.
const CodeUpstream errors.ErrorCode = "UPSTREAM_ERROR"

const rateLimitMessage = "GitHub API rate limit exceeded. Please try again later."

// classify maps a failed go-github call onto the error taxonomy. resp may be
// nil when the request never reached GitHub.
func classify(err error, resp *gh.Response) error {
	if err == nil {
		return nil
	}

	var rle *gh.RateLimitError
	if errors.As(err, &rle) {
		return errors.Wrap(err, errors.CodeRateLimit, rateLimitMessage)
	}
	var abuse *gh.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return errors.Wrap(err, errors.CodeRateLimit, rateLimitMessage)
	}

	status := 0
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	} else if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	switch {
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return errors.Wrap(err, errors.CodeRateLimit, rateLimitMessage)
	case status >= 200 && status < 300:
		// A success status with an error means the body did not decode.
		return errors.Wrap(err, CodeUpstream, "GitHub API error: malformed response")
	case status != 0:
		return errors.Wrap(err, CodeUpstream, "GitHub API error: "+statusText(status))
	default:
		return errors.Wrap(err, errors.CodeNetwork, "network failure")
	}
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// IsRateLimited reports whether err signals an exhausted upstream quota.
func IsRateLimited(err error) bool {
	return errors.GetCode(err) == errors.CodeRateLimit
}

// IsUpstream reports whether err is a non-quota upstream failure.
func IsUpstream(err error) bool {
	return errors.GetCode(err) == CodeUpstream
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return errors.GetCode(err) == errors.CodeNetwork
}

// Message returns the text to show a user for err. Network failures carry
// the underlying cause, since that is the only useful detail.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var pe errors.PlatformError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	if pe.Code() == errors.CodeNetwork && pe.Unwrap() != nil {
		return pe.Message() + ": " + pe.Unwrap().Error()
	}
	return pe.Message()
}
