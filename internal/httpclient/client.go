// Package httpclient builds the HTTP clients shared by forge and storage
// calls: a pooled, proxy-aware base client, and a retrying variant for
// forge API traffic.
package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	nethttp "net/http"
	"net/url"
	"os"
	"strings"

	ntlmssp "github.com/Azure/go-ntlmssp"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http/httpproxy"
	"golang.org/x/net/http2"

	"github.com/shiplift/shiplift/internal/config"
	"github.com/shiplift/shiplift/internal/constants"
)

// New creates the base HTTP client used for all outbound traffic.
//
// The transport is tuned for binary transfers:
//   - connection pooling sized for the sync command's concurrent uploads
//   - compression disabled (release assets are already compressed)
//   - HTTP/2 enabled, with a DISABLE_HTTP2 env toggle and automatic
//     fallback to HTTP/1.1 when a proxy is active (proxies often mishandle
//     HTTP/2 multiplexing mid-transfer)
//   - no client-level timeout; operations bound themselves via context
//
// Proxy behavior follows p.Mode: "no-proxy" (or empty), "system", "basic",
// or "ntlm".
func New(p config.ProxySettings) (*nethttp.Client, error) {
	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   constants.HTTPDialTimeout,
			KeepAlive: constants.HTTPDialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          constants.HTTPMaxIdleConns,
		MaxIdleConnsPerHost:   constants.HTTPMaxConnsPerHost,
		MaxConnsPerHost:       constants.HTTPMaxConnsPerHost,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
		DisableCompression:    true,
		ForceAttemptHTTP2:     true,
	}

	var ntlm bool
	proxyActive := false

	switch strings.ToLower(p.Mode) {
	case "no-proxy", "":
		transport.Proxy = nil

	case "system":
		transport.Proxy = nethttp.ProxyFromEnvironment
		proxyActive = os.Getenv("HTTP_PROXY") != "" || os.Getenv("HTTPS_PROXY") != "" ||
			os.Getenv("http_proxy") != "" || os.Getenv("https_proxy") != ""

	case "basic":
		if p.Host == "" {
			return nil, fmt.Errorf("proxy mode is basic but host is missing")
		}
		transport.Proxy = proxyFuncWithBypass(buildProxyURL(p), p.NoProxy)
		proxyActive = true

	case "ntlm":
		if p.Host == "" {
			return nil, fmt.Errorf("proxy mode is ntlm but host is missing")
		}
		transport.Proxy = proxyFuncWithBypass(buildProxyURL(p), p.NoProxy)
		proxyActive = true
		ntlm = true

	default:
		return nil, fmt.Errorf("unsupported proxy mode: %s", p.Mode)
	}

	_ = http2.ConfigureTransport(transport)

	// Runtime toggle for HTTP/2, useful for debugging compatibility issues.
	if os.Getenv("DISABLE_HTTP2") == "true" {
		transport.ForceAttemptHTTP2 = false
		transport.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	// Proxies often break HTTP/2 streams mid-transfer; force HTTP/1.1 unless
	// the user overrides with FORCE_HTTP2=true.
	if proxyActive && os.Getenv("FORCE_HTTP2") != "true" {
		transport.ForceAttemptHTTP2 = false
		transport.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	var rt nethttp.RoundTripper = transport
	if ntlm {
		rt = ntlmssp.Negotiator{RoundTripper: transport}
	}

	return &nethttp.Client{
		Transport: rt,
		Timeout:   0, // per-operation timeouts come from context
	}, nil
}

// buildProxyURL constructs the proxy URL from settings. Credentials are only
// embedded when both user and password are present; an empty password in the
// URL causes auth failures with some proxies.
func buildProxyURL(p config.ProxySettings) *url.URL {
	port := p.Port
	if port == 0 {
		port = 8080
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", p.Host, port),
	}

	if p.User != "" && p.Password != "" {
		proxyURL.User = url.UserPassword(p.User, p.Password)
	}

	return proxyURL
}

// proxyFuncWithBypass returns a proxy function that respects the NoProxy
// bypass list. With an empty noProxy it behaves identically to
// nethttp.ProxyURL; otherwise golang.org/x/net/http/httpproxy handles
// host, domain, and CIDR matching.
func proxyFuncWithBypass(proxyURL *url.URL, noProxy string) func(*nethttp.Request) (*url.URL, error) {
	if noProxy == "" {
		return nethttp.ProxyURL(proxyURL)
	}
	cfg := httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    noProxy,
	}
	proxyFunc := cfg.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		result, err := proxyFunc(req.URL)
		if result == nil {
			log.Debug().Str("host", req.URL.Host).Msg("proxy bypass, direct connection")
		} else {
			log.Debug().Str("host", req.URL.Host).Str("proxy", result.Host).Msg("proxied")
		}
		return result, err
	}
}
