package realtime

import "sync"

// Registry tracks which connections belong to which user and which chat
// rooms each connection has joined. It is decoupled from the transport so a
// multi-instance deployment can swap in a shared implementation.
type Registry interface {
	Connect(userID uint, connID string)
	Disconnect(userID uint, connID string)
	Join(userID uint, connID string, chatID uint)
	Leave(userID uint, connID string, chatID uint)
	RoomMembers(chatID uint) []string
	Connections(userID uint) []string
	Rooms(userID uint) []uint
}

// memoryRegistry is the process-local implementation. All durable state
// lives in the database; these maps are rebuilt from scratch on reconnect.
type memoryRegistry struct {
	mu        sync.RWMutex
	userConns map[uint]map[string]struct{}
	userRooms map[uint]map[uint]int // chatID -> joined connection count
	roomConns map[uint]map[string]struct{}
	connRooms map[string]map[uint]struct{}
}

func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		userConns: make(map[uint]map[string]struct{}),
		userRooms: make(map[uint]map[uint]int),
		roomConns: make(map[uint]map[string]struct{}),
		connRooms: make(map[string]map[uint]struct{}),
	}
}

func (r *memoryRegistry) Connect(userID uint, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.userConns[userID] == nil {
		r.userConns[userID] = make(map[string]struct{})
	}
	r.userConns[userID][connID] = struct{}{}
}

// Disconnect removes the connection from its user's set and from every room
// it joined. The last connection removes the user entry entirely.
func (r *memoryRegistry) Disconnect(userID uint, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for chatID := range r.connRooms[connID] {
		r.leaveLocked(userID, connID, chatID)
	}
	delete(r.connRooms, connID)

	if conns, ok := r.userConns[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.userConns, userID)
			delete(r.userRooms, userID)
		}
	}
}

func (r *memoryRegistry) Join(userID uint, connID string, chatID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connRooms[connID] == nil {
		r.connRooms[connID] = make(map[uint]struct{})
	}
	if _, joined := r.connRooms[connID][chatID]; joined {
		return
	}
	r.connRooms[connID][chatID] = struct{}{}

	if r.roomConns[chatID] == nil {
		r.roomConns[chatID] = make(map[string]struct{})
	}
	r.roomConns[chatID][connID] = struct{}{}

	if r.userRooms[userID] == nil {
		r.userRooms[userID] = make(map[uint]int)
	}
	r.userRooms[userID][chatID]++
}

func (r *memoryRegistry) Leave(userID uint, connID string, chatID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(userID, connID, chatID)
	delete(r.connRooms[connID], chatID)
}

func (r *memoryRegistry) leaveLocked(userID uint, connID string, chatID uint) {
	if conns, ok := r.roomConns[chatID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.roomConns, chatID)
		}
	}
	if rooms, ok := r.userRooms[userID]; ok {
		rooms[chatID]--
		if rooms[chatID] <= 0 {
			delete(rooms, chatID)
		}
	}
}

func (r *memoryRegistry) RoomMembers(chatID uint) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]string, 0, len(r.roomConns[chatID]))
	for connID := range r.roomConns[chatID] {
		members = append(members, connID)
	}
	return members
}

func (r *memoryRegistry) Connections(userID uint) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]string, 0, len(r.userConns[userID]))
	for connID := range r.userConns[userID] {
		conns = append(conns, connID)
	}
	return conns
}

func (r *memoryRegistry) Rooms(userID uint) []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]uint, 0, len(r.userRooms[userID]))
	for chatID := range r.userRooms[userID] {
		rooms = append(rooms, chatID)
	}
	return rooms
}
