package jsonrpc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
)

// PendingTable correlates numeric request ids with the goroutine awaiting
// that id's response: one-shot delivery, safe to call Deliver from the
// message pump goroutine while arbitrary caller goroutines wait on
// Register's returned channel.
type PendingTable struct {
	mu      sync.Mutex
	nextID  int64
	waiting map[int64]chan *Message
}

// NewPendingTable returns an empty table.
func NewPendingTable() *PendingTable {
	return &PendingTable{waiting: make(map[int64]chan *Message)}
}

// NextID allocates the next monotonically increasing request id.
func (t *PendingTable) NextID() int64 {
	return atomic.AddInt64(&t.nextID, 1)
}

// Register reserves id and returns a channel that will receive exactly one
// *Message when Deliver(id, ...) is called, or be closed by Cancel(id).
func (t *PendingTable) Register(id int64) chan *Message {
	ch := make(chan *Message, 1)
	t.mu.Lock()
	t.waiting[id] = ch
	t.mu.Unlock()
	return ch
}

// Cancel removes id's registration without delivering a result, closing
// its channel so any waiter unblocks. Safe to call after the response has
// already arrived (a no-op in that case).
func (t *PendingTable) Cancel(id int64) {
	t.mu.Lock()
	ch, ok := t.waiting[id]
	if ok {
		delete(t.waiting, id)
	}
	t.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Deliver routes a response message to its waiter, identified by the
// message's ID field. Reports false if no goroutine is (or is still)
// waiting for that id - a late or duplicate response is simply dropped.
func (t *PendingTable) Deliver(msg *Message) bool {
	id, ok := idOf(msg.ID)
	if !ok {
		return false
	}

	t.mu.Lock()
	ch, ok := t.waiting[id]
	if ok {
		delete(t.waiting, id)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}

	ch <- msg
	return true
}

// DrainAll closes every still-pending channel, unblocking every waiter with
// a nil message - used when the LSP process dies or the pump exits.
func (t *PendingTable) DrainAll() {
	t.mu.Lock()
	waiting := t.waiting
	t.waiting = make(map[int64]chan *Message)
	t.mu.Unlock()
	for _, ch := range waiting {
		close(ch)
	}
}

func idOf(raw *json.RawMessage) (int64, bool) {
	if raw == nil {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(*raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(*raw, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// FormatID is a debug helper for logging a message's id.
func FormatID(raw *json.RawMessage) string {
	if raw == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s", string(*raw))
}
