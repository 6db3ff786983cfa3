package storage

import (
	"errors"
	"strings"
)

// ErrAuthentication indicates the storage endpoint rejected the supplied
// credentials. Callers wrap it around the SDK error so errors.Is works
// alongside the original message.
var ErrAuthentication = errors.New("storage rejected credentials")

// IsCredentialError checks if an error is authentication/authorization
// related, so the CLI can report bad storage credentials distinctly from a
// failed transfer.
//
// Matches the error strings the AWS and Azure SDKs surface for rejected
// credentials:
//   - AWS: InvalidAccessKeyId, SignatureDoesNotMatch, ExpiredToken, 403
//   - Azure: AuthenticationFailed, AuthorizationFailure, invalid SAS
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	credentialIndicators := []string{
		"403",
		"accessdenied",
		"access denied",
		"unauthorized",
		"invalidaccesskeyid",
		"signaturedoesnotmatch",
		"expiredtoken",
		"expired",
		"invalid token",
		"authenticationfailed",
		"authentication failed",
		"authorization failure",
		"invalid sas",
	}

	for _, indicator := range credentialIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// IsNetworkError checks if an error is network-related, for error messages
// that distinguish unreachable endpoints from rejected requests.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	networkIndicators := []string{
		"connection",
		"timeout",
		"network",
		"eof",
		"broken pipe",
		"tls handshake",
		"no such host",
	}

	for _, indicator := range networkIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}
