package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/storage/storagetest"
)

// Set POSTGRES_TEST_URL to a disposable database to run the conformance suite.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	storagetest.Run(t, func(t *testing.T) storage.Store {
		_, err := s.db.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" CASCADE")
		require.NoError(t, err)
		return s
	})
}
