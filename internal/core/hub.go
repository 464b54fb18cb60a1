// Package core implements the room registry and broadcast engine: who is
// in which room, fan-out of inbound frames, periodic member-count pushes
// and the grace-period reclamation of empty rooms.
package core

import (
	"sync"
	"time"

	"github.com/junnushon/voice-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultGracePeriod      = 300 * time.Second
	DefaultPresenceInterval = 5 * time.Second
)

// Options tune the hub's timers. Zero values fall back to the defaults.
type Options struct {
	GracePeriod      time.Duration
	PresenceInterval time.Duration
}

// Hub owns all room state: catalog metadata, membership sets, pending
// deletion timers and running notifier markers. Every mutation goes
// through the one mutex, so joins, leaves, broadcasts, notifier ticks and
// reaper callbacks interleave safely on the same room. Rooms and their
// membership sets are created and deleted together, never one without the
// other.
type Hub struct {
	mu           sync.Mutex
	rooms        map[domain.RoomID]*domain.Room
	members      map[domain.RoomID]map[domain.MemberID]Conn
	reapers      map[domain.RoomID]*time.Timer
	notifiers    map[domain.RoomID]struct{}
	nextPublicID uint64

	grace    time.Duration
	interval time.Duration
	done     chan struct{}
}

func NewHub(opts Options) *Hub {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.PresenceInterval <= 0 {
		opts.PresenceInterval = DefaultPresenceInterval
	}
	return &Hub{
		rooms:     make(map[domain.RoomID]*domain.Room),
		members:   make(map[domain.RoomID]map[domain.MemberID]Conn),
		reapers:   make(map[domain.RoomID]*time.Timer),
		notifiers: make(map[domain.RoomID]struct{}),
		grace:     opts.GracePeriod,
		interval:  opts.PresenceInterval,
		done:      make(chan struct{}),
	}
}

// Close stops every notifier loop and pending deletion timer. Safe to
// call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return
	default:
	}
	close(h.done)
	for id, t := range h.reapers {
		t.Stop()
		delete(h.reapers, id)
	}
	log.Info().Str("module", "core.hub").Msg("hub closed")
}
