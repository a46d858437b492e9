// Package cache memoizes evaluation outputs by a content hash of everything
// that determines them. A cached entry is always identical to a fresh run.
package cache

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// keyInput is hashed as one JSON document so field boundaries stay unambiguous
type keyInput struct {
	Profile *types.NormalizedProfile `json:"profile"`
	Persona types.Persona            `json:"persona"`
	Track   types.Track              `json:"track"`
	Lexicon string                   `json:"lexicon"`
}

// Key derives the cache key for an evaluation: the hex blake2b-256 digest of
// the profile, persona, track and lexicon digest (see lexicon.Lexicon.Digest)
func Key(profile *types.NormalizedProfile, persona types.Persona, track types.Track, lexiconDigest string) (string, error) {
	data, err := json.Marshal(keyInput{Profile: profile, Persona: persona, Track: track, Lexicon: lexiconDigest})
	if err != nil {
		return "", &Error{Message: "failed to encode cache key", Cause: err}
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
