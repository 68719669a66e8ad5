package output

import "net/url"

// redactURL strips credentials and query strings (API keys of hosted RPC
// providers) from rpcURL.
func redactURL(rpcURL string) string {
	parsed, err := url.Parse(rpcURL)
	if err != nil || parsed.Host == "" {
		return rpcURL
	}

	parsed.User = nil
	parsed.RawQuery = ""
	return parsed.String()
}
