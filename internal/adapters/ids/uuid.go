package ids

import (
	"github.com/google/uuid"

	"clubhub/internal/domain"
)

type uuidGenerator struct{}

// NewUUIDGenerator returns an IDGenerator producing random UUIDv4 strings.
// Used for gateway correlation ids and message ids, not database keys.
func NewUUIDGenerator() domain.IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}
