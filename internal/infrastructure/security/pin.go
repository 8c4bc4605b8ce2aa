package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/baechuer/account-service/internal/domain"
)

const PINLength = 4

var pinSpace = big.NewInt(10000)

// NewPIN returns PINLength uniformly random decimal digits.
func NewPIN() (string, error) {
	n, err := rand.Int(rand.Reader, pinSpace)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
