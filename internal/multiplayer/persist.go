package multiplayer

// Persister stores rooms, membership and chat.
// This allows the hub to persist state without depending on the storage package.
// Calls happen on a background goroutine, in the order the changes occurred.
type Persister interface {
	SaveRoom(info RoomInfo) error
	DeleteRoom(roomID string) error
	SaveMember(roomID string, m Member) error
	DeleteMember(roomID, playerID string) error
	SaveMessage(msg ChatMessage) error
}

// enqueue schedules a persistence job. Must be called with h.mu held.
// Jobs are dropped when no persister is set or the queue is full.
func (h *Hub) enqueue(job func(Persister) error) {
	if h.persister == nil || h.stopped {
		return
	}
	p := h.persister
	select {
	case h.jobs <- func() error { return job(p) }:
	default:
		h.logger.Warn("persistence queue full, dropping write")
	}
}

// persistLoop runs queued jobs until Stop, then drains what is left.
func (h *Hub) persistLoop() {
	defer h.wg.Done()
	for {
		select {
		case job := <-h.jobs:
			h.runJob(job)
		case <-h.done:
			for {
				select {
				case job := <-h.jobs:
					h.runJob(job)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) runJob(job func() error) {
	// Best effort save, don't block gameplay on error
	if err := job(); err != nil {
		h.logger.Error("persist failed", "err", err)
	}
}
