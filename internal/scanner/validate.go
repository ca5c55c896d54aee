package scanner

import (
	"strings"
	"unicode"

	"github.com/ironsheep/qr-scan-mcp/internal/engine"
)

// trimSet holds the characters stripped from both ends of a payload in
// addition to whitespace. Some engines wrap content in quotes or brackets.
const trimSet = "'\"()"

// urlSchemes are accepted even when the rest of the payload has no letters.
var urlSchemes = []string{"http://", "https://", "ftp://"}

// ValidatePayload normalizes a raw engine payload and reports whether it
// looks like real QR content.
//
// Engines occasionally surface coordinate arrays or numeric noise instead of
// decoded text. The filter rejects:
//   - binary payloads
//   - anything empty after trimming
//   - text starting with '[' or made only of digits, whitespace and .,[]()-
//   - text with no letter that is not a URL
//
// The last two rules also reject legitimate all-numeric codes. That is a
// known tradeoff.
func ValidatePayload(p engine.Payload) (string, bool) {
	if p.Binary {
		return "", false
	}

	s := strings.Trim(strings.TrimSpace(p.Text), trimSet)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if strings.HasPrefix(s, "[") || isNumericNoise(s) {
		return "", false
	}

	if hasLetter(s) {
		return s, true
	}
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(s, scheme) {
			return s, true
		}
	}
	return "", false
}

func isNumericNoise(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(".,[]()-", r) {
			continue
		}
		return false
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// accumulator collects accepted payloads for one scan, deduplicated by
// exact content with the first occurrence kept.
type accumulator struct {
	seen     map[string]struct{}
	contents []string
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[string]struct{})}
}

// add validates and records payloads, returning how many were new.
func (a *accumulator) add(payloads []engine.Payload) int {
	added := 0
	for _, p := range payloads {
		s, ok := ValidatePayload(p)
		if !ok {
			continue
		}
		if _, dup := a.seen[s]; dup {
			continue
		}
		a.seen[s] = struct{}{}
		a.contents = append(a.contents, s)
		added++
	}
	return added
}

// found reports whether anything has been accepted, which ends the scan.
func (a *accumulator) found() bool { return len(a.contents) > 0 }

func (a *accumulator) result() Result { return newResult(a.contents) }
