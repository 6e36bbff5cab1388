// Package database provides the MongoDB connection and the persistence stores
// backing the moderation pipeline.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// ErrStorageUnavailable is returned when the backing store cannot be reached
var ErrStorageUnavailable = errors.New("storage unavailable")

// ConnectHook runs after every successful connect or reconnect
type ConnectHook func(ctx context.Context) error

// Database manages the MongoDB connection
type Database struct {
	client          *mongo.Client
	db              *mongo.Database
	isConnected     bool
	mongoURL        string
	dbName          string
	reconnectTicker *time.Ticker
	stopReconnect   chan struct{}
	stopOnce        sync.Once
	mu              sync.RWMutex
	collections     map[string]*mongo.Collection
	hooks           []ConnectHook
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a new Database instance
func NewDatabase() *Database {
	return &Database{
		stopReconnect: make(chan struct{}),
		collections:   make(map[string]*mongo.Collection),
	}
}

// Connect establishes a connection to MongoDB.
// On failure a background loop keeps retrying every 15 seconds.
func (d *Database) Connect(mongoURL, dbName string) error {
	connected, err := d.connect(mongoURL, dbName)
	if connected {
		d.runHooks()
	}
	return err
}

// connect reports whether a new connection was established
func (d *Database) connect(mongoURL, dbName string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isConnected {
		return false, nil
	}
	d.mongoURL, d.dbName = mongoURL, dbName

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		d.startReconnect()
		return false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(ctx)
		d.startReconnect()
		return false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	d.client = client
	d.db = client.Database(dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.isConnected = true

	logger.Success("Conectado exitosamente a la base de datos.", "DB")
	d.stopTicker()
	return true, nil
}

// OnConnect registers hook and runs it right away when already connected
func (d *Database) OnConnect(hook ConnectHook) {
	d.mu.Lock()
	d.hooks = append(d.hooks, hook)
	connected := d.isConnected
	d.mu.Unlock()

	if connected {
		d.runHook(hook)
	}
}

func (d *Database) runHooks() {
	d.mu.RLock()
	hooks := make([]ConnectHook, len(d.hooks))
	copy(hooks, d.hooks)
	d.mu.RUnlock()

	for _, hook := range hooks {
		d.runHook(hook)
	}
}

func (d *Database) runHook(hook ConnectHook) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := hook(ctx); err != nil {
		logger.Warn(fmt.Sprintf("Error tras conectar a la base de datos: %v", err), "DB")
	}
}

// stopTicker must be called with d.mu held
func (d *Database) stopTicker() {
	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}
}

// startReconnect must be called with d.mu held
func (d *Database) startReconnect() {
	if d.reconnectTicker != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	d.reconnectTicker = ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Intentando reconectar a la base de datos...", "DB")
				if d.reconnect() {
					return
				}
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// reconnect pings the existing client, whose pool redials on its own, or dials
// a new one when none was ever created. It reports whether storage is back.
func (d *Database) reconnect() bool {
	d.mu.RLock()
	client, url, name := d.client, d.mongoURL, d.dbName
	d.mu.RUnlock()

	if client == nil {
		return d.Connect(url, name) == nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return false
	}

	d.mu.Lock()
	if d.client != client {
		d.mu.Unlock()
		return false
	}
	d.isConnected = true
	d.stopTicker()
	d.mu.Unlock()

	logger.Success("Conexión con la base de datos restablecida.", "DB")
	d.runHooks()
	return true
}

// MarkDisconnected flags the connection as lost after a network failure and
// starts the reconnect loop. The client is kept so its pool can recover.
func (d *Database) MarkDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isConnected {
		return
	}
	d.isConnected = false
	logger.Warn("Se perdió la conexión con la base de datos.", "DB")
	d.startReconnect()
}

// Disconnect closes the database connection
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.stopReconnect) })

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTicker()

	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.client.Disconnect(ctx); err != nil {
			return err
		}
		d.client = nil
		d.isConnected = false
		logger.Warn("La base de datos ha sido desconectada", "DB")
	}
	return nil
}

// Connected reports whether the last connection attempt succeeded
func (d *Database) Connected() bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isConnected
}

// Ping measures the database response time
func (d *Database) Ping(ctx context.Context) (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.isConnected || d.client == nil {
		return 0, ErrStorageUnavailable
	}

	start := time.Now()
	err := d.client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := d.Ping(ctx); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// GetCollection returns a MongoDB collection, or nil while disconnected
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// classify converts driver failures caused by connectivity into ErrStorageUnavailable.
// A caller's own deadline or cancellation is returned as is and leaves the connection alone.
func (d *Database) classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var selection topology.ServerSelectionError
	if mongo.IsNetworkError(err) || errors.As(err, &selection) || errors.Is(err, mongo.ErrClientDisconnected) {
		d.MarkDisconnected()
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
