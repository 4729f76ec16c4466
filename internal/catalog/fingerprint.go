package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Fingerprint derives a stable cache key from an endpoint set and its
// query parameters. Order of endpoints and map iteration do not matter.
func Fingerprint(endpoints []Endpoint, params map[string]string) string {
	sorted := make([]string, len(endpoints))
	for i, e := range endpoints {
		sorted[i] = string(e)
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(strings.Join(sorted, ","))
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:12])
}
