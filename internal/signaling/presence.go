package signaling

import (
	"encoding/json"
	"fmt"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// PresenceStore is the shared directory of (email, deviceId) ->
// DeviceDescriptor that SessionMachine consults on register/check/
// teardown. PresenceRegistry is the Redis-backed production
// implementation; tests substitute an in-memory fake so core routing
// behavior doesn't require a live Redis (SPEC_FULL.md §8).
type PresenceStore interface {
	Put(email, deviceID string, descriptor DeviceDescriptor) error
	Evict(email, deviceID string) error
	ListDevices(email string) ([]DeviceDescriptor, error)
}

// PresenceRegistry is the shared-bus-backed directory of (email, deviceId)
// -> DeviceDescriptor, following the teacher's ds/redis client/pool
// pattern (one *redis.Pool, a thin key-prefixing wrapper).
type PresenceRegistry struct {
	pool   *redis.Pool
	logger *zap.Logger
}

var _ PresenceStore = (*PresenceRegistry)(nil)

func NewPresenceRegistry(pool *redis.Pool, logger *zap.Logger) *PresenceRegistry {
	return &PresenceRegistry{pool: pool, logger: logger.With(zap.String("component", "presence_registry"))}
}

func presenceKey(email, deviceID string) string {
	return fmt.Sprintf("socket:presence:%s:%s", email, deviceID)
}

func userDevicesKey(email string) string {
	return fmt.Sprintf("socket:user_devices:%s", email)
}

// Put writes the presence key first, then the per-user device-index hash
// entry, matching spec.md §4.2's ordering invariant. A Redis failure is
// returned to the caller (SessionMachine), which degrades to local-only
// mode rather than failing the register.
func (p *PresenceRegistry) Put(email, deviceID string, descriptor DeviceDescriptor) error {
	conn := p.pool.Get()
	defer conn.Close()

	data, err := json.Marshal(descriptor)
	if err != nil {
		return err
	}

	if _, err := conn.Do("SET", presenceKey(email, deviceID), data); err != nil {
		return NewBusError("presence put", err)
	}

	if _, err := conn.Do("HSET", userDevicesKey(email), deviceID, descriptor.SocketID); err != nil {
		return NewBusError("presence index", err)
	}

	return nil
}

// Evict deletes both the presence key and the device-index hash entry.
func (p *PresenceRegistry) Evict(email, deviceID string) error {
	conn := p.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("DEL", presenceKey(email, deviceID)); err != nil {
		return NewBusError("presence evict", err)
	}
	if _, err := conn.Do("HDEL", userDevicesKey(email), deviceID); err != nil {
		return NewBusError("presence evict index", err)
	}
	return nil
}

// ListDevices reads the device-index hash then fetches each presence key.
// Missing or malformed entries are silently skipped, per spec.md §4.2.
func (p *PresenceRegistry) ListDevices(email string) ([]DeviceDescriptor, error) {
	conn := p.pool.Get()
	defer conn.Close()

	deviceIDs, err := redis.Strings(conn.Do("HKEYS", userDevicesKey(email)))
	if err != nil {
		return nil, NewBusError("presence list", err)
	}

	descriptors := make([]DeviceDescriptor, 0, len(deviceIDs))
	for _, deviceID := range deviceIDs {
		raw, err := redis.Bytes(conn.Do("GET", presenceKey(email, deviceID)))
		if err != nil {
			continue
		}
		var d DeviceDescriptor
		if err := json.Unmarshal(raw, &d); err != nil {
			continue
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}
