package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, ":8080", APIAddr())
	assert.Equal(t, 24, SessionTTLHours())
	assert.Equal(t, 50.0, HeartRateCriticalLow())
	assert.Equal(t, 120.0, HeartRateCriticalHigh())
	assert.Equal(t, 90.0, BloodOxygenCriticalLow())
	assert.Equal(t, 0.1, AnomalyContamination())
	assert.Equal(t, 50, MinTrainingRecords())
}

func TestEnvOverride(t *testing.T) {
	require.NoError(t, Load())

	t.Setenv("HEART_RATE_CRITICAL_HIGH", "135")
	assert.Equal(t, 135.0, HeartRateCriticalHigh())

	viper.Reset()
	require.NoError(t, Load())
}
