package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"blogapi/pkg/logger"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

var ErrClosed = errors.New("connection manager is closed")

type Settings struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// ConnectionManager owns the process-wide Mongo client. The client is
// created on first use; concurrent callers wait for the connection in
// progress instead of opening another.
type ConnectionManager struct {
	settings Settings
	logger   logger.Logger

	mutex  sync.Mutex
	state  State
	closed bool
	client *mongo.Client
	db     *mongo.Database
}

func NewConnectionManager(settings Settings, logger logger.Logger) *ConnectionManager {
	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}

	return &ConnectionManager{
		settings: settings,
		logger:   logger,
	}
}

func (cm *ConnectionManager) State() State {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	return cm.state
}

// Connect is idempotent: it returns immediately when already connected.
func (cm *ConnectionManager) Connect(ctx context.Context) error {
	_, err := cm.database(ctx)
	return err
}

// Collection returns the named collection, connecting first if needed.
func (cm *ConnectionManager) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := cm.database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (cm *ConnectionManager) database(ctx context.Context) (*mongo.Database, error) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.closed {
		return nil, ErrClosed
	}
	if cm.state == StateConnected {
		return cm.db, nil
	}

	cm.state = StateConnecting
	cm.logger.Info("Connecting to MongoDB", logger.Fields{"database": cm.settings.Database})

	connectCtx, cancel := context.WithTimeout(ctx, cm.settings.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cm.settings.URI).
		SetConnectTimeout(cm.settings.Timeout))
	if err != nil {
		cm.state = StateDisconnected
		cm.logger.Error("MongoDB connection failed", logger.Fields{"error": err.Error()})
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		cm.state = StateDisconnected
		_ = client.Disconnect(context.Background())
		cm.logger.Error("MongoDB ping failed", logger.Fields{"error": err.Error()})
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	cm.client = client
	cm.db = client.Database(cm.settings.Database)
	cm.state = StateConnected
	cm.logger.Info("Connected to MongoDB", logger.Fields{"database": cm.settings.Database})

	return cm.db, nil
}

func (cm *ConnectionManager) Ping(ctx context.Context) error {
	cm.mutex.Lock()
	client := cm.client
	cm.mutex.Unlock()

	if client == nil {
		return errors.New("mongo client is not connected")
	}
	return client.Ping(ctx, readpref.Primary())
}

func (cm *ConnectionManager) GetStats() map[string]interface{} {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	return map[string]interface{}{
		"state":    cm.state.String(),
		"database": cm.settings.Database,
	}
}

func (cm *ConnectionManager) Close(ctx context.Context) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.closed = true
	if cm.client == nil {
		return nil
	}

	err := cm.client.Disconnect(ctx)
	cm.client = nil
	cm.db = nil
	cm.state = StateDisconnected
	if err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}

	cm.logger.Info("MongoDB connection closed", logger.Fields{})
	return nil
}
