package infrastructure

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"
)

// CryptoRandomnessProvider draws winning numbers from crypto/rand. Each of
// the seven positions is drawn independently, so repeats are possible.
type CryptoRandomnessProvider struct{}

// NewCryptoRandomnessProvider creates a new crypto randomness provider
func NewCryptoRandomnessProvider() interfaces.RandomnessProvider {
	return &CryptoRandomnessProvider{}
}

// Draw returns seven numbers in [1,49]
func (p *CryptoRandomnessProvider) Draw(ctx context.Context) ([]int32, error) {
	span := big.NewInt(entities.MaxNumber - entities.MinNumber + 1)

	numbers := make([]int32, entities.TicketNumberCount)
	for i := range numbers {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrRandomnessUnavailable, err)
		}
		numbers[i] = int32(n.Int64()) + entities.MinNumber
	}
	return numbers, nil
}
