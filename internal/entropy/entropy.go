// Package entropy provides the secret material sources this core's keys
// are derived from: OS randomness, a keystroke-timing mixer for
// user-driven entropy, and mlocked storage for the raw entropy a scalar is
// derived from.
package entropy

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/karpathy/cryptos-go/internal/sha256core"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// MinUserInputs is the minimum number of distinct keystroke inputs the
// user-entropy mixer requires before it will derive a seed.
const MinUserInputs = 5

// RandomBytes draws n bytes of uniform randomness from the OS CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, coreerr.Wrap(err, "reading OS entropy")
	}
	return buf, nil
}

// PromptFunc reads one line of hidden user input and reports how long the
// caller took to submit it, mirroring a keystroke-timing capture.
type PromptFunc func(prompt string) (text string, elapsed time.Duration, err error)

// MixUserEntropy collects at least MinUserInputs prompts via fn and folds
// their bytes and timings through SHA-256 iteratively, producing a seed
// with no single input fully determining the output.
func MixUserEntropy(fn PromptFunc) ([]byte, error) {
	seed := make([]byte, sha256core.Size)

	for i := 0; i < MinUserInputs; i++ {
		text, elapsed, err := fn(fmt.Sprintf("entropy input %d/%d: ", i+1, MinUserInputs))
		if err != nil {
			return nil, coreerr.Wrap(err, "reading user entropy input %d", i+1)
		}

		mixer := sha256core.New()
		mixer.Write(seed)                     //nolint:errcheck
		mixer.Write([]byte(text))             //nolint:errcheck
		mixer.Write([]byte(elapsed.String())) //nolint:errcheck
		seed = mixer.Sum(nil)
	}

	return seed, nil
}

// SecureBytes holds sensitive byte material (a private key scalar) in a
// buffer the caller should zero via Zero as soon as it is no longer needed.
// Locking the pages against swap is handled per-platform in mlock_*.go.
type SecureBytes struct {
	data   []byte
	locked bool
}

// NewSecureBytes copies b into a freshly allocated, best-effort mlocked
// buffer. Locking failures are non-fatal: the buffer is still usable, just
// not guaranteed to stay out of swap.
func NewSecureBytes(b []byte) *SecureBytes {
	data := make([]byte, len(b))
	copy(data, b)

	sb := &SecureBytes{data: data}
	sb.locked = lockMemory(data) == nil
	return sb
}

// Bytes returns the underlying buffer. Callers must not retain it past a
// call to Zero.
func (s *SecureBytes) Bytes() []byte {
	return s.data
}

// Zero overwrites the buffer with zeros and releases its memory lock.
func (s *SecureBytes) Zero() {
	for i := range s.data {
		s.data[i] = 0
	}
	if s.locked {
		unlockMemory(s.data) //nolint:errcheck
		s.locked = false
	}
}
