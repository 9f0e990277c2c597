// Package secret generates the random credentials handed to the control
// plane: site-user passwords and database passwords.
package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// alphabet is deliberately alphanumeric only. clpctl arguments pass through a
// shell-adjacent boundary and the credentials file is plain text, so shell
// metacharacters are not worth their marginal entropy.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength matches the control plane's own generated passwords.
const DefaultLength = 24

// Password returns a random alphanumeric string of the given length, drawn
// from crypto/rand. Lengths below 1 fall back to DefaultLength rather than
// erroring; a caller asking for a nonsense length still needs a password.
func Password(length int) (string, error) {
	if length < 1 {
		length = DefaultLength
	}

	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
