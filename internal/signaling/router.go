package signaling

import "sync"

// outboundQueueCapacity bounds each socket's outbound frame queue (spec.md
// §5: design target 100 frames). A full queue drops the frame for that
// recipient rather than blocking the sender's read loop.
const outboundQueueCapacity = 100

// Writer is a cloneable handle over a socket's bounded outbound queue.
// LocalRouter only ever holds a lookup reference to it; the owning Session
// is responsible for draining Frames into the actual WebSocket write loop.
type Writer struct {
	SocketID string
	Frames   chan *SignalingEnvelope

	// Evicted closes when a newer registration has superseded this writer
	// (spec.md P2). The transport write loop selects on it alongside
	// Frames and closes the underlying socket when it fires.
	Evicted   chan struct{}
	evictOnce sync.Once
}

// NewWriter allocates a writer with the spec-mandated queue capacity.
func NewWriter(socketID string) *Writer {
	return &Writer{
		SocketID: socketID,
		Frames:   make(chan *SignalingEnvelope, outboundQueueCapacity),
		Evicted:  make(chan struct{}),
	}
}

// Evict closes the Evicted channel exactly once. Called by the register
// flow against the writer a new binding superseded.
func (w *Writer) Evict() {
	w.evictOnce.Do(func() { close(w.Evicted) })
}

// Send enqueues env without blocking. A full queue silently drops the
// frame — spec.md §5/§7 "transient send failure": best-effort, no error
// surfaced to the sender.
func (w *Writer) Send(env *SignalingEnvelope) (delivered bool) {
	select {
	case w.Frames <- env:
		return true
	default:
		return false
	}
}

// LocalRouter holds the per-pod routing state: which socket serves which
// (email, deviceId), protected by a single reader-preferring lock. Every
// mutation updates both indexes atomically under one write-lock
// acquisition — no legacy `email|deviceId` string-keyed map survives (that
// redundant index was a migration artifact, dropped per spec.md §9).
type LocalRouter struct {
	mu      sync.RWMutex
	sockets map[string]*Writer            // socketId -> writer
	devices map[string]map[string]string  // email -> deviceId -> socketId
	owners  map[string]ownerKey           // socketId -> (email, deviceId), for unbind
}

type ownerKey struct {
	email  string
	device string
}

func NewLocalRouter() *LocalRouter {
	return &LocalRouter{
		sockets: make(map[string]*Writer),
		devices: make(map[string]map[string]string),
		owners:  make(map[string]ownerKey),
	}
}

// Bind registers a fresh writer for (email, deviceId). If a writer is
// already bound under that key, it is returned so the caller (SessionMachine
// register flow) can tear down the prior socket — eviction must happen
// before the new binding becomes observable (spec.md P2).
func (r *LocalRouter) Bind(email, deviceID string, writer *Writer) (evicted *Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byDevice, ok := r.devices[email]; ok {
		if prevSocket, ok := byDevice[deviceID]; ok {
			evicted = r.sockets[prevSocket]
			delete(r.sockets, prevSocket)
			delete(r.owners, prevSocket)
		}
	} else {
		r.devices[email] = make(map[string]string)
	}

	r.devices[email][deviceID] = writer.SocketID
	r.sockets[writer.SocketID] = writer
	r.owners[writer.SocketID] = ownerKey{email: email, device: deviceID}

	return evicted
}

// Unbind removes every row associated with socketID: the socket map entry,
// the reverse (email,deviceId) entry, and — when it becomes empty — the
// per-email inner map.
func (r *LocalRouter) Unbind(socketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[socketID]
	if !ok {
		delete(r.sockets, socketID)
		return
	}

	delete(r.sockets, socketID)
	delete(r.owners, socketID)

	if byDevice, ok := r.devices[owner.email]; ok {
		delete(byDevice, owner.device)
		if len(byDevice) == 0 {
			delete(r.devices, owner.email)
		}
	}
}

// Lookup returns the writer bound to (email, deviceId), if any.
func (r *LocalRouter) Lookup(email, deviceID string) (*Writer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDevice, ok := r.devices[email]
	if !ok {
		return nil, false
	}
	socketID, ok := byDevice[deviceID]
	if !ok {
		return nil, false
	}
	w, ok := r.sockets[socketID]
	return w, ok
}

// LocalDevices returns a snapshot of the devices currently bound for
// email, used as the degraded-mode fallback for `check` when the
// PresenceRegistry is unreachable (spec.md §4.8).
func (r *LocalRouter) LocalDevices(email string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDevice, ok := r.devices[email]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byDevice))
	for deviceID := range byDevice {
		out = append(out, deviceID)
	}
	return out
}

// WriterBySocket returns the writer for a raw socketID, used by the
// session to find its own queue on teardown.
func (r *LocalRouter) WriterBySocket(socketID string) (*Writer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.sockets[socketID]
	return w, ok
}
