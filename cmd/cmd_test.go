package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/config"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/storage/memory"
	"dailyMotivatorAPI/middleware"
)

func TestInspectPrintsCounts(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AUTH_PROVIDER", "jwt")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", "--env-file", "testdata/missing.env"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Driver: memory")
	assert.Contains(t, out.String(), storage.CollectionChallenges)
}

func TestOpenStoreMemory(t *testing.T) {
	store, err := openStore(context.Background(), &config.Config{DatabaseDriver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	_, err = openStore(context.Background(), &config.Config{DatabaseDriver: "sqlite"})
	assert.Error(t, err)
}

func TestNewVerifier(t *testing.T) {
	v := newVerifier(&config.Config{AuthProvider: config.AuthJWT, JWTSecret: "s"})
	assert.IsType(t, &middleware.JWTVerifier{}, v)
}
