// Package sse implements a Server-Sent Events broker for live selection updates.
package sse

import (
	"bytes"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Event types broadcast by the broker.
const (
	EventDateSelected  = "date.selected"
	EventStatsUpdated  = "stats.updated"
	EventManageOutcome = "manage.outcome"
)

// Event is one message for subscribers. An event with a Session is only
// delivered to subscribers of that session.
type Event struct {
	Type    string `json:"type"`
	Data    any    `json:"data"`
	Session string `json:"-"`
}

// Filter narrows what a subscriber receives. Zero values match everything.
type Filter struct {
	// Session receives session-scoped events for this session. Events
	// without a session are delivered regardless.
	Session string
	// Types restricts delivery to these event types.
	Types []string
}

func (f Filter) match(ev Event) bool {
	if ev.Session != "" && ev.Session != f.Session {
		return false
	}
	return len(f.Types) == 0 || slices.Contains(f.Types, ev.Type)
}

type subscription struct {
	ch     chan []byte
	filter Filter
}

type selectionReq struct {
	date  string
	count int
}

// Option configures a Broker.
type Option func(*Broker)

// WithSessionFunc sets how ServeHTTP identifies the subscriber's session.
func WithSessionFunc(fn func(*http.Request) string) Option {
	return func(b *Broker) {
		b.sessionOf = fn
	}
}

// WithKeepAlive sends a comment line every d so idle proxies keep the
// stream open. Zero disables it.
func WithKeepAlive(d time.Duration) Option {
	return func(b *Broker) {
		b.keepAlive = d
	}
}

// Broker fans events out to SSE subscribers.
//
// A single goroutine owns the subscriber set, the event id counter and the
// stats throttle timestamp; public methods talk to it over channels.
type Broker struct {
	statsMin  time.Duration
	keepAlive time.Duration
	sessionOf func(*http.Request) string

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	selectionCh   chan selectionReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker that emits stats.updated at most once per
// statsThrottle.
func NewBroker(statsThrottle time.Duration, opts ...Option) *Broker {
	if statsThrottle <= 0 {
		statsThrottle = 2 * time.Second
	}

	b := &Broker{
		statsMin:      statsThrottle,
		keepAlive:     30 * time.Second,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		selectionCh:   make(chan selectionReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

// encode renders ev in the text/event-stream wire format.
func encode(id uint64, ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("id: ")
	buf.WriteString(strconv.FormatUint(id, 10))
	buf.WriteString("\nevent: ")
	buf.WriteString(ev.Type)
	buf.WriteString("\ndata: ")
	buf.Write(payload)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	subs := make(map[chan []byte]Filter)
	var lastStats time.Time
	var nextID uint64

	deliver := func(ev Event) {
		nextID++
		raw, err := encode(nextID, ev)
		if err != nil {
			return
		}
		for ch, f := range subs {
			if !f.match(ev) {
				continue
			}
			select {
			case ch <- raw:
			default:
				// Slow subscriber; drop rather than stall the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range subs {
				close(ch)
			}
			return

		case s := <-b.subscribeCh:
			subs[s.ch] = s.filter

		case ch := <-b.unsubscribeCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			deliver(ev)

		case req := <-b.selectionCh:
			deliver(Event{Type: EventDateSelected, Data: map[string]any{
				"date":  req.date,
				"count": req.count,
			}})
			if now := time.Now(); now.Sub(lastStats) >= b.statsMin {
				lastStats = now
				deliver(Event{Type: EventStatsUpdated, Data: map[string]string{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(subs)
		}
	}
}

// Close stops the broker loop and closes all subscriber channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a subscriber and returns its channel. The channel is
// closed by Unsubscribe or Close.
func (b *Broker) Subscribe(f Filter) chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- subscription{ch: ch, filter: f}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of subscribers.
func (b *Broker) ClientCount() int {
	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish queues ev for delivery. It is a no-op after Close.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}

// PublishSelection announces a recorded selection of date, followed by a
// throttled stats.updated event.
func (b *Broker) PublishSelection(date string, count int) {
	if b.closed.Load() {
		return
	}
	select {
	case b.selectionCh <- selectionReq{date: date, count: count}:
	case <-b.stopped:
	}
}

// ServeHTTP streams events to one client (GET /api/events). The optional
// "types" query parameter is a comma separated list of event types.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	var f Filter
	if b.sessionOf != nil {
		f.Session = b.sessionOf(r)
	}
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Types = append(f.Types, t)
			}
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(f)
	defer b.Unsubscribe(ch)

	var ping <-chan time.Time
	if b.keepAlive > 0 {
		t := time.NewTicker(b.keepAlive)
		defer t.Stop()
		ping = t.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
