package cmd

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/freshdesk/freshdesk-cli/internal/api"
)

// Exit codes for scripted use. Anything beyond "it failed" maps to a
// distinct code so shell scripts can branch without parsing stderr.
const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}

	var handled *handledError
	if errors.As(err, &handled) {
		return handled.exitCode
	}

	if isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}

	return exitCodeFromStructured(api.StructuredErrorFromError(err))
}

func exitCodeFromStructured(se *api.StructuredError) int {
	if se == nil {
		return exitGeneric
	}
	switch se.Code {
	case api.ErrUnauthorized:
		return exitAuth
	case api.ErrNotFound:
		return exitNotFound
	case api.ErrForbidden:
		return exitForbidden
	case api.ErrRateLimited:
		return exitRateLimited
	case api.ErrServerError:
		return exitServer
	case api.ErrTimeout:
		return exitNetwork
	case api.ErrBadRequest, api.ErrValidation:
		return exitUsage
	default:
		return exitGeneric
	}
}

// isUsageError detects flag and argument mistakes, which Cobra reports as
// plain errors with recognizable phrasing.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"requires at least",
		"requires exactly",
		"accepts at most",
		"accepts between",
		"required flag",
		"must be a positive integer",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	msg := err.Error()
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"certificate",
		"TLS handshake",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
