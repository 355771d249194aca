// Package uuid generates random run identifiers.
package uuid

import (
	"crypto/rand"
	"fmt"

	"github.com/pkg/errors"
)

// New returns a random 128-bit identifier formatted as
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func New() (string, error) {
	id := [16]byte{}
	if _, err := rand.Read(id[:]); err != nil {
		return "", errors.Wrap(err, "could not read random bytes for run id")
	}

	return fmt.Sprintf("%x-%x-%x-%x-%x", id[0:4], id[4:6], id[6:8], id[8:10], id[10:]), nil
}
