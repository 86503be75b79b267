package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	orderRandMu sync.Mutex
	orderRand   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// GenerateOrderID produces a correlation id for ledger and investment rows:
// a microsecond component plus a random suffix and the owning user id.
// Uniqueness is enforced by the database index, not by this generator.
func GenerateOrderID(userID uint) string {
	orderRandMu.Lock()
	defer orderRandMu.Unlock()

	micros := time.Now().UnixNano() % 1000000
	suffix := orderRand.Intn(900) + 100

	return fmt.Sprintf("INV-%06d%03d%d", micros, suffix, userID)
}
