// Package quality maps short quality tokens to concrete render profiles.
package quality

import "github.com/animakit/scenectl/internal/domain"

// DefaultToken is used when no quality is requested. Low quality keeps
// preview iteration cheap.
const DefaultToken = "l"

// tokens in their canonical order, used for error messages and listings.
var tokens = []string{"l", "m", "h", "k"}

var profiles = map[string]domain.QualityProfile{
	"l": {Token: "l", ResolutionHeight: 480, FrameRate: 15, EngineFlag: "-ql"},
	"m": {Token: "m", ResolutionHeight: 720, FrameRate: 30, EngineFlag: "-qm"},
	"h": {Token: "h", ResolutionHeight: 1080, FrameRate: 60, EngineFlag: "-qh"},
	"k": {Token: "k", ResolutionHeight: 2160, FrameRate: 60, EngineFlag: "-qk"},
}

// Tokens returns the valid quality tokens in canonical order.
func Tokens() []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

// Resolve returns the profile for a token. An empty token resolves to
// DefaultToken; anything outside the fixed set is an UnknownQualityError.
func Resolve(token string) (domain.QualityProfile, error) {
	if token == "" {
		token = DefaultToken
	}
	p, ok := profiles[token]
	if !ok {
		return domain.QualityProfile{}, &domain.UnknownQualityError{Token: token, Valid: Tokens()}
	}
	return p, nil
}
