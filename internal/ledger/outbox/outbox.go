// Package outbox durably queues committed ledger records for publication.
// Entries move NEW -> SENT -> deleted on broker ack, or to FAILED for retry.
package outbox

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"organmatch/internal/ledger/models"
)

type State uint8

const (
	StateNew State = iota
	StateSent
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

const (
	keyPrefix = "outbox/"
	keyUpper  = "outbox/~"
	// header: [state:1][retries:4][lastAttempt:8]
	headerLen = 1 + 4 + 8
)

// Entry is one queued record. Seq orders entries by enqueue time.
type Entry struct {
	Seq         uint64
	State       State
	Retries     uint32
	LastAttempt time.Time
	Record      models.Record
}

type Outbox struct {
	db  *pebble.DB
	mu  sync.Mutex
	seq uint64
}

func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open outbox: %w", err)
	}
	o := &Outbox{db: db}
	if err := o.loadSeq(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return o, nil
}

func (o *Outbox) Close() error {
	return o.db.Close()
}

// Enqueue stores rec as NEW. The write is synced before returning.
func (o *Outbox) Enqueue(rec *models.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode outbox record: %w", err)
	}
	o.mu.Lock()
	o.seq++
	seq := o.seq
	o.mu.Unlock()

	return o.db.Set(keyFor(seq), encode(StateNew, 0, time.Time{}, payload), pebble.Sync)
}

// MarkSent records that a publish attempt is in flight. SENT entries are
// re-sent after a restart, so delivery is at least once.
func (o *Outbox) MarkSent(e Entry, now time.Time) error {
	return o.update(e, StateSent, e.Retries, now)
}

func (o *Outbox) MarkFailed(e Entry, now time.Time) error {
	return o.update(e, StateFailed, e.Retries+1, now)
}

// Ack removes an entry once the broker has acknowledged it.
func (o *Outbox) Ack(e Entry) error {
	return o.db.Delete(keyFor(e.Seq), pebble.Sync)
}

// Pending returns up to limit entries in enqueue order. A limit <= 0 returns all.
func (o *Outbox) Pending(limit int) ([]Entry, error) {
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyUpper),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			return nil, err
		}
		e, err := decode(seq, iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, iter.Error()
}

func (o *Outbox) update(e Entry, state State, retries uint32, now time.Time) error {
	payload, err := json.Marshal(&e.Record)
	if err != nil {
		return fmt.Errorf("encode outbox record: %w", err)
	}
	return o.db.Set(keyFor(e.Seq), encode(state, retries, now, payload), pebble.Sync)
}

func (o *Outbox) loadSeq() error {
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyUpper),
	})
	if err != nil {
		return err
	}
	defer iter.Close()
	if iter.Last() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			return err
		}
		o.seq = seq
	}
	return iter.Error()
}

func encode(state State, retries uint32, lastAttempt time.Time, payload []byte) []byte {
	buf := make([]byte, headerLen+len(payload))
	buf[0] = byte(state)
	binary.BigEndian.PutUint32(buf[1:5], retries)
	var last int64
	if !lastAttempt.IsZero() {
		last = lastAttempt.UnixNano()
	}
	binary.BigEndian.PutUint64(buf[5:13], uint64(last))
	copy(buf[headerLen:], payload)
	return buf
}

func decode(seq uint64, b []byte) (Entry, error) {
	if len(b) < headerLen {
		return Entry{}, errors.New("invalid outbox entry length")
	}
	e := Entry{
		Seq:     seq,
		State:   State(b[0]),
		Retries: binary.BigEndian.Uint32(b[1:5]),
	}
	if last := int64(binary.BigEndian.Uint64(b[5:13])); last != 0 {
		e.LastAttempt = time.Unix(0, last).UTC()
	}
	if err := json.Unmarshal(b[headerLen:], &e.Record); err != nil {
		return Entry{}, fmt.Errorf("decode outbox record: %w", err)
	}
	return e, nil
}

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, seq))
}

func parseKey(b []byte) (uint64, error) {
	s := string(b)
	if len(s) <= len(keyPrefix) {
		return 0, fmt.Errorf("invalid outbox key %q", s)
	}
	return strconv.ParseUint(s[len(keyPrefix):], 10, 64)
}
