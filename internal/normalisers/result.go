package normalisers

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// MaxContentLength caps the content snippet, in runes.
const MaxContentLength = 500

// newResult starts a normalised result for raw. The id is built from
// nativeID, or from url when the provider gave no id. An item with
// neither is malformed.
func newResult(raw domain.RawResult, nativeID, url string) (domain.NormalizedResult, error) {
	key := strings.TrimSpace(nativeID)
	if key == "" {
		key = strings.TrimSpace(url)
	}
	if key == "" {
		return domain.NormalizedResult{}, fmt.Errorf("%w: %s result has no id and no url", domain.ErrMalformedPayload, raw.Provider)
	}
	return domain.NormalizedResult{
		ID:       string(raw.Provider) + ":" + key,
		Source:   raw.Provider,
		URL:      url,
		Metadata: make(map[string]any),
	}, nil
}

// firstNonEmpty returns the first argument that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// truncate shortens s to at most n runes, ending on a word boundary where
// one is close.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndexAny(cut, " \n"); i > n*3/4 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

// setIf stores value under key when it is not the zero value.
func setIf(m map[string]any, key string, value any) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return
		}
	case []string:
		if len(v) == 0 {
			return
		}
	case nil:
		return
	}
	m[key] = value
}
