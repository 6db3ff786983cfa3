package storage

import (
	"errors"
	"testing"
)

// TestJoinKey verifies prefix/name joining across slash variations.
func TestJoinKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		object string
		want   string
	}{
		{"empty prefix", "", "app.zip", "app.zip"},
		{"plain prefix", "builds", "app.zip", "builds/app.zip"},
		{"trailing slash prefix", "builds/", "app.zip", "builds/app.zip"},
		{"leading slash prefix", "/builds", "app.zip", "builds/app.zip"},
		{"both slashes", "/builds/", "/app.zip", "builds/app.zip"},
		{"nested prefix", "releases/v1", "app.zip", "releases/v1/app.zip"},
		{"slash-only prefix", "/", "app.zip", "app.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinKey(tt.prefix, tt.object); got != tt.want {
				t.Errorf("JoinKey(%q, %q) = %q, want %q", tt.prefix, tt.object, got, tt.want)
			}
		})
	}
}

// TestIsCredentialError verifies classification of SDK auth failures.
func TestIsCredentialError(t *testing.T) {
	credErrs := []error{
		errors.New("operation error S3: PutObject, https response error StatusCode: 403, api error AccessDenied"),
		errors.New("api error InvalidAccessKeyId: The AWS Access Key Id you provided does not exist"),
		errors.New("api error SignatureDoesNotMatch"),
		errors.New("RESPONSE 403: AuthenticationFailed"),
	}
	for _, err := range credErrs {
		if !IsCredentialError(err) {
			t.Errorf("IsCredentialError(%v) = false, want true", err)
		}
	}

	otherErrs := []error{
		nil,
		errors.New("api error NoSuchBucket: The specified bucket does not exist"),
		errors.New("dial tcp: lookup s3.amazonaws.com: no such host"),
	}
	for _, err := range otherErrs {
		if IsCredentialError(err) {
			t.Errorf("IsCredentialError(%v) = true, want false", err)
		}
	}
}

// TestIsNetworkError verifies classification of transport failures.
func TestIsNetworkError(t *testing.T) {
	if !IsNetworkError(errors.New("dial tcp 1.2.3.4:443: i/o timeout")) {
		t.Error("timeout not classified as network error")
	}
	if !IsNetworkError(errors.New("unexpected EOF")) {
		t.Error("EOF not classified as network error")
	}
	if IsNetworkError(errors.New("api error NoSuchBucket")) {
		t.Error("bucket error misclassified as network error")
	}
	if IsNetworkError(nil) {
		t.Error("nil misclassified as network error")
	}
}
