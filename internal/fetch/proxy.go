package fetch

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds a transport proxy function from explicit proxy URLs.
// Without explicit proxies it defers to HTTP_PROXY/HTTPS_PROXY/NO_PROXY.
// noProxy is a comma-separated list of hosts (or ".domain" suffixes) that
// bypass the explicit proxies.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypassProxy(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitNoProxy(noProxy string) []string {
	var hosts []string
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func bypassProxy(host string, bypass []string) bool {
	host = strings.ToLower(host)
	for _, b := range bypass {
		if b == "*" || host == b || (strings.HasPrefix(b, ".") && strings.HasSuffix(host, b)) {
			return true
		}
		if !strings.HasPrefix(b, ".") && strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}
