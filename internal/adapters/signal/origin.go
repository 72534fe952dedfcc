package signal

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// originChecker builds the upgrader's CheckOrigin from configuration. An
// empty allow-list accepts any origin, which is only suitable for trusted
// deployments.
func originChecker(allowed []string) func(r *http.Request) bool {
	normalized := make(map[string]struct{}, len(allowed))
	allowAll := len(allowed) == 0
	for _, origin := range allowed {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "*" {
			allowAll = true
			continue
		}
		if n, ok := normalizeOrigin(trimmed); ok {
			normalized[n] = struct{}{}
		} else if trimmed != "" {
			log.Warn().Str("module", "signal").Str("origin", origin).Msg("ignoring invalid origin in configuration")
		}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		n, ok := normalizeOrigin(r.Header.Get("Origin"))
		if !ok {
			return false
		}
		_, ok = normalized[n]
		if !ok {
			log.Warn().Str("module", "signal").Str("origin", r.Header.Get("Origin")).Msg("blocked disallowed origin")
		}
		return ok
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
