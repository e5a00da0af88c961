package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/luma/ldds/dcp"
)

const UpdateBufferSize = 255

// DefaultRecordLimit is how many records NewInmemoryStore keeps per address.
const DefaultRecordLimit = 1000

// InmemoryStore keeps the newest records of each DCP address, plus a JSON
// summary per address:
//
//	{"CE31D030": {"count": 2, "channel": 96, "failureCode": "G", "time": "...", "last": "<header>"}}
//
// A record whose header matches one already kept is dropped, so retrieving
// an overlapping time range again doesn't duplicate records.
type InmemoryStore struct {
	dataMu  sync.RWMutex
	values  []byte
	records []dcp.Record

	// windows holds each address' records, oldest first
	windows map[string][]dcp.Record
	limit   int

	mu          sync.Mutex
	updateChans []chan *Update

	// stop will be closed when Close() is called
	stop chan struct{}
}

func NewInmemoryStore() *InmemoryStore {
	return NewBoundedInmemoryStore(DefaultRecordLimit)
}

// NewBoundedInmemoryStore keeps at most limit records per address, dropping
// the oldest first. A limit of 0 or less keeps everything.
func NewBoundedInmemoryStore(limit int) *InmemoryStore {
	return &InmemoryStore{
		windows:     make(map[string][]dcp.Record),
		limit:       limit,
		values:      []byte("{}"),
		stop:        make(chan struct{}),
		updateChans: make([]chan *Update, 0),
	}
}

func (i *InmemoryStore) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isRunning() {
		return nil
	}

	close(i.stop)

	for _, updateChan := range i.updateChans {
		close(updateChan)
	}

	return nil
}

// Append stores a copy of record and updates the summary for its address.
// Records already kept, and records older than a full window, are ignored.
func (i *InmemoryStore) Append(ctx context.Context, record dcp.Record) error {
	if !i.isRunning() {
		return fmt.Errorf("Store is closed")
	}

	record = append(dcp.Record(nil), record...)
	address := record.Address()
	key := escapeKey(address)

	i.dataMu.Lock()

	window := i.windows[address]
	if contains(window, record) || i.stale(window, record) {
		i.dataMu.Unlock()
		return nil
	}

	count := gjson.GetBytes(i.values, key+".count").Int() + 1

	values, err := setAll(i.values, key, map[string]interface{}{
		"count":       count,
		"failureCode": string(rune(record.FailureCode())),
		"last":        string(record.Header()),
	})
	if err == nil {
		if ch, cerr := record.Channel(); cerr == nil {
			values, err = sjson.SetBytes(values, key+".channel", ch)
		}
	}
	if err == nil {
		if t, terr := record.Time(); terr == nil {
			values, err = sjson.SetBytes(values, key+".time", t.Format(time.RFC3339))
		}
	}
	if err != nil {
		i.dataMu.Unlock()
		return err
	}

	i.values = values
	i.records = append(i.records, record)

	window = append(window, record)
	if i.limit > 0 && len(window) > i.limit {
		i.records = remove(i.records, window[0])
		window = append([]dcp.Record(nil), window[1:]...)
	}
	i.windows[address] = window

	i.dataMu.Unlock()

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.isRunning() {
		for _, updateChan := range i.updateChans {
			updateChan <- &Update{
				Address: address,
				Record:  record,
			}
		}
	}

	return nil
}

func (i *InmemoryStore) Get(ctx context.Context, address string) ([]byte, error) {
	i.dataMu.RLock()
	defer i.dataMu.RUnlock()

	result := gjson.GetBytes(i.values, escapeKey(address))
	if !result.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
	}

	return []byte(result.Raw), nil
}

func (i *InmemoryStore) Records(address string) []dcp.Record {
	i.dataMu.RLock()
	defer i.dataMu.RUnlock()

	out := make([]dcp.Record, 0, len(i.records))
	for _, r := range i.records {
		if address == "" || r.Address() == address {
			out = append(out, r)
		}
	}

	return out
}

func (i *InmemoryStore) ListenToUpdates() <-chan *Update {
	i.mu.Lock()
	defer i.mu.Unlock()

	updateChan := make(chan *Update, UpdateBufferSize)
	i.updateChans = append(i.updateChans, updateChan)

	return updateChan
}

// Restore replaces the address summaries. Stored records are left alone.
func (i *InmemoryStore) Restore(values []byte) error {
	if !gjson.ValidBytes(values) {
		return fmt.Errorf("Invalid store backup")
	}

	i.dataMu.Lock()
	defer i.dataMu.Unlock()

	i.values = append([]byte(nil), values...)
	return nil
}

// Backup returns the address summaries as a JSON object.
func (i *InmemoryStore) Backup() ([]byte, error) {
	i.dataMu.RLock()
	defer i.dataMu.RUnlock()

	if len(i.values) == 0 {
		return []byte("{}"), nil
	}

	return append([]byte(nil), i.values...), nil
}

// isRunning returns true if Close has not been called
func (i *InmemoryStore) isRunning() bool {
	select {
	case <-i.stop:
		return false

	default:
		return true
	}
}

// stale reports whether record is older than everything in a full window.
func (i *InmemoryStore) stale(window []dcp.Record, record dcp.Record) bool {
	if i.limit <= 0 || len(window) < i.limit {
		return false
	}

	t, err := record.Time()
	if err != nil {
		return false
	}

	oldest, err := window[0].Time()
	return err == nil && t.Before(oldest)
}

func contains(records []dcp.Record, record dcp.Record) bool {
	for _, r := range records {
		if bytes.Equal(r.Header(), record.Header()) {
			return true
		}
	}

	return false
}

// remove drops the first record with the same header as record.
func remove(records []dcp.Record, record dcp.Record) []dcp.Record {
	for n, r := range records {
		if bytes.Equal(r.Header(), record.Header()) {
			return append(records[:n], records[n+1:]...)
		}
	}

	return records
}

func setAll(doc []byte, key string, fields map[string]interface{}) (out []byte, err error) {
	out = doc
	for name, value := range fields {
		if out, err = sjson.SetBytes(out, key+"."+name, value); err != nil {
			return nil, err
		}
	}

	return out, nil
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

// escapeKey makes s safe to use as a single gjson/sjson path component.
func escapeKey(s string) string {
	return keyEscaper.Replace(s)
}

var _ Store = (*InmemoryStore)(nil)
