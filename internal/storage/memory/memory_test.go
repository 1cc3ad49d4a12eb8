package memory

import (
	"testing"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return New()
	})
}
