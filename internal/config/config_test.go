package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 5*time.Second, cfg.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.WriteTimeout)
	require.Equal(t, int32(25), cfg.MaxConns)
	require.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	require.Equal(t, "order.events", cfg.OrderTopic)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")
	t.Setenv("PG_MAX_CONNS", "7")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()

	require.Equal(t, 45*time.Second, cfg.WriteTimeout)
	require.Equal(t, int32(7), cfg.MaxConns)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("HTTP_WRITE_TIMEOUT", "soon")
	t.Setenv("PG_MAX_CONNS", "many")

	cfg := Load()

	require.Equal(t, 10*time.Second, cfg.WriteTimeout)
	require.Equal(t, int32(25), cfg.MaxConns)
}
