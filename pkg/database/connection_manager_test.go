package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogapi/pkg/logger"
)

func TestConnectionManagerStartsDisconnected(t *testing.T) {
	cm := NewConnectionManager(Settings{URI: "mongodb://localhost:27017", Database: "blogapi"}, logger.Nop())

	assert.Equal(t, StateDisconnected, cm.State())
	assert.Equal(t, 10*time.Second, cm.settings.Timeout)
	assert.Equal(t, map[string]interface{}{"state": "disconnected", "database": "blogapi"}, cm.GetStats())
	assert.Error(t, cm.Ping(context.Background()))
}

func TestConnectionManagerClosed(t *testing.T) {
	cm := NewConnectionManager(Settings{URI: "mongodb://localhost:27017", Database: "blogapi"}, logger.Nop())

	assert.NoError(t, cm.Close(context.Background()))

	_, err := cm.Collection(context.Background(), "users")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, cm.Connect(context.Background()), ErrClosed)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "unknown", State(42).String())
}
