// Package sink forwards animation frames to external consumers.
package sink

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/san-kum/motion/internal/spring"
)

// Frame is one exposed style on the wire. At is seconds on the host clock.
type Frame struct {
	Seq   uint64            `json:"seq"`
	At    float64           `json:"at"`
	Style spring.PlainStyle `json:"style"`
}

// Sink receives frames in order.
type Sink interface {
	Write(f Frame) error
}

type jsonLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// JSONLines writes each frame as one JSON object per line.
func JSONLines(w io.Writer) Sink {
	return &jsonLines{enc: json.NewEncoder(w)}
}

func (j *jsonLines) Write(f Frame) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(f)
}

// Recorder numbers frames and forwards them to a sink. It satisfies
// sim.Observer; the first write error stops forwarding and is kept.
type Recorder struct {
	sink Sink
	seq  uint64
	err  error
}

func NewRecorder(s Sink) *Recorder {
	return &Recorder{sink: s}
}

func (r *Recorder) OnFrame(style spring.PlainStyle, t float64) {
	if r.err != nil {
		return
	}
	r.seq++
	r.err = r.sink.Write(Frame{Seq: r.seq, At: t, Style: style})
}

func (r *Recorder) Written() uint64 { return r.seq }

func (r *Recorder) Err() error { return r.err }
