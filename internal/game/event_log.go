package game

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/time/rate"
)

const (
	EventBufferSize       = 1024                   // Circular buffer size
	MaxEventsPerSec       = 10000                  // Global rate limit
	MaxEventsPerSession   = 2000                   // Per-session rate limit per second
	BatchFlushSize        = 64                     // Events per batch write
	BatchFlushInterval    = 100 * time.Millisecond // How often to flush
	SessionLimiterCleanup = 5 * time.Minute        // Cleanup interval for session limiters
)

// Compression selects how the event file is encoded.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionSnappy Compression = "snappy"
	CompressionZstd   Compression = "zstd"
)

// ParseCompression accepts "", none, snappy and zstd.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionSnappy, CompressionZstd:
		return Compression(s), nil
	}
	return CompressionNone, fmt.Errorf("unknown event log compression %q", s)
}

// eventSink is the open output file plus its optional compressing stream.
type eventSink struct {
	file   *os.File
	stream io.Writer
	flush  func() error
	close  func() error
}

func openSink(path string, c Compression) (*eventSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	s := &eventSink{file: file, stream: file, flush: func() error { return nil }, close: func() error { return nil }}

	switch c {
	case CompressionSnappy:
		w := snappy.NewBufferedWriter(file)
		s.stream, s.flush, s.close = w, w.Flush, w.Close
	case CompressionZstd:
		enc, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		s.stream, s.flush, s.close = enc, enc.Flush, enc.Close
	}
	return s, nil
}

func (s *eventSink) Close() error {
	err := s.close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// EventLog provides bounded, rate-limited event logging with backpressure
type EventLog struct {
	// Circular buffer
	buffer    [EventBufferSize]Event
	bufMu     sync.Mutex
	writeHead uint64
	readHead  uint64

	// Rate limiting so a runaway weapon cannot flood the disk
	globalLimiter   *rate.Limiter
	sessionLimiters sync.Map // map[string]*sessionLimiterEntry

	// Async writer
	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	// File output
	filePath    string
	compression Compression
	sink        *eventSink
	fileMu      sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
	writtenCount uint64 // atomic
}

type sessionLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nano
}

// NewEventLog creates a new bounded event log
func NewEventLog(compression Compression) *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
		compression:   compression,
	}
}

// Start begins the async writer goroutine. An empty path keeps events in
// memory only.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath
	if filePath != "" {
		sink, err := openSink(filePath, el.compression)
		if err != nil {
			return err
		}
		el.sink = sink
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()

	return nil
}

// Stop flushes pending events and closes the file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.sink != nil {
			el.sink.Close()
			el.sink = nil
		}
		el.fileMu.Unlock()
	})
}

// Emit adds an event with rate limiting.
// Returns false if the log is stopped or the event was rate limited.
func (el *EventLog) Emit(event Event) bool {
	if el == nil || !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}
	if event.SessionID != "" && !el.sessionLimiter(event.SessionID).Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	el.bufMu.Lock()
	el.writeHead++
	if el.writeHead-el.readHead > EventBufferSize {
		// Drop oldest (rolling window)
		el.readHead++
		atomic.AddUint64(&el.droppedCount, 1)
	}
	event.Sequence = el.writeHead
	el.buffer[el.writeHead%EventBufferSize] = event
	el.bufMu.Unlock()

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple is a convenience method to emit an event with automatic creation
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, sessionID string, payload any) bool {
	if el == nil {
		return false
	}
	return el.Emit(NewEvent(eventType, tickNum, sessionID, payload))
}

func (el *EventLog) sessionLimiter(sessionID string) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := el.sessionLimiters.Load(sessionID); ok {
		e := v.(*sessionLimiterEntry)
		e.lastUsed.Store(now)
		return e.limiter
	}

	entry := &sessionLimiterEntry{limiter: rate.NewLimiter(MaxEventsPerSession, MaxEventsPerSession/10)}
	entry.lastUsed.Store(now)
	actual, _ := el.sessionLimiters.LoadOrStore(sessionID, entry)
	return actual.(*sessionLimiterEntry).limiter
}

// writerLoop batches and writes events to disk asynchronously
func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			// Final drain
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

// cleanupLoop removes limiters of finished sessions
func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(SessionLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			el.cleanupSessionLimiters(time.Now().Add(-SessionLimiterCleanup))
		}
	}
}

func (el *EventLog) cleanupSessionLimiters(cutoff time.Time) {
	el.sessionLimiters.Range(func(key, value any) bool {
		if value.(*sessionLimiterEntry).lastUsed.Load() < cutoff.UnixNano() {
			el.sessionLimiters.Delete(key)
		}
		return true
	})
}

// collectBatch reads available events from circular buffer
func (el *EventLog) collectBatch(batch []Event) []Event {
	el.bufMu.Lock()
	defer el.bufMu.Unlock()

	for el.readHead < el.writeHead && len(batch) < BatchFlushSize {
		el.readHead++
		batch = append(batch, el.buffer[el.readHead%EventBufferSize])
	}
	return batch
}

// flushBatch writes events as newline-delimited JSON through the sink
func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.sink == nil {
		return
	}

	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		data = append(data, '\n')
		if _, err := el.sink.stream.Write(data); err != nil {
			atomic.AddUint64(&el.droppedCount, 1)
			continue
		}
		atomic.AddUint64(&el.writtenCount, 1)
	}
	el.sink.flush()
}

// EventLogStats are counters for the stats endpoint.
type EventLogStats struct {
	Total       uint64      `json:"total"`
	Dropped     uint64      `json:"dropped"`
	Written     uint64      `json:"written"`
	Pending     uint64      `json:"pending"`
	Running     bool        `json:"running"`
	Path        string      `json:"path,omitempty"`
	Compression Compression `json:"compression"`
}

// GetStats returns metrics for monitoring
func (el *EventLog) GetStats() EventLogStats {
	el.bufMu.Lock()
	pending := el.writeHead - el.readHead
	el.bufMu.Unlock()

	return EventLogStats{
		Total:       atomic.LoadUint64(&el.totalCount),
		Dropped:     atomic.LoadUint64(&el.droppedCount),
		Written:     atomic.LoadUint64(&el.writtenCount),
		Pending:     pending,
		Running:     el.running.Load(),
		Path:        el.filePath,
		Compression: el.compression,
	}
}
