package pomodoro_test

import (
	"testing"

	"github.com/aussiebroadwan/pomodoro/pkg/pomodorosdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, _ := setupContainer(t)
	client := pomodorosdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
	require.NotEmpty(t, health.Version)
}

func TestReadyzEndpoint(t *testing.T) {
	baseURL, _ := setupContainer(t)
	client := pomodorosdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}
