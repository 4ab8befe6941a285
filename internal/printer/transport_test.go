package printer

import (
	"bytes"
	"context"
	"errors"
	"sync"
)

var errNoReply = errors.New("no reply queued")

// scriptedTransport records every write and answers reads from a queue of
// canned replies. An empty queue behaves like a read timeout.
type scriptedTransport struct {
	mu       sync.Mutex
	writes   [][]byte
	replies  [][]byte
	readErrs []error
	writeErr error
	// fail writes once this many have succeeded, ignored if negative
	failWriteAfter int
}

func newScriptedTransport(replies ...[]byte) *scriptedTransport {
	return &scriptedTransport{replies: replies, failWriteAfter: -1}
}

func (t *scriptedTransport) Write(ctx context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeErr != nil && t.failWriteAfter >= 0 && len(t.writes) >= t.failWriteAfter {
		return t.writeErr
	}
	t.writes = append(t.writes, bytes.Clone(data))
	return nil
}

func (t *scriptedTransport) Read(ctx context.Context, buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.readErrs) > 0 {
		err := t.readErrs[0]
		t.readErrs = t.readErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	if len(t.replies) == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 0, errNoReply
	}
	r := t.replies[0]
	t.replies = t.replies[1:]
	return copy(buf, r), nil
}

func (t *scriptedTransport) queue(replies ...[]byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, replies...)
}

func (t *scriptedTransport) written() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writes
}

type statusBytes struct {
	model      byte
	err1, err2 byte
	width      byte
	mediaType  byte
	length     byte
	statusType byte
}

func (s statusBytes) bytes() []byte {
	b := make([]byte, StatusSize)
	b[0] = 0x80
	b[4] = s.model
	b[8] = s.err1
	b[9] = s.err2
	b[10] = s.width
	b[11] = s.mediaType
	b[17] = s.length
	b[18] = s.statusType
	return b
}

// QL-700 with 29mm continuous tape, replying to a status request
func ql700Continuous29() statusBytes {
	return statusBytes{model: 0x35, width: 29, mediaType: 0x0A}
}

func withType(s statusBytes, t byte) statusBytes {
	s.statusType = t
	return s
}
