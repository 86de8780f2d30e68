package tracer

import (
	"context"
	"sync"
)

// Recorder keeps finished spans in memory for assertions in tests.
type Recorder struct {
	mu    sync.Mutex
	spans []*RecordedSpan
}

// RecordedSpan is a span captured by Recorder.
type RecordedSpan struct {
	Name       string
	Attributes map[string]any
	Events     []string
	Err        error
	Ended      bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	span := &RecordedSpan{Name: name, Attributes: map[string]any{}}
	for _, a := range attrs {
		span.Attributes[a.Key] = a.Value
	}
	r.mu.Lock()
	r.spans = append(r.spans, span)
	r.mu.Unlock()
	return ctx, &recordingSpan{rec: r, span: span}
}

// Spans returns the spans started so far, in start order.
func (r *Recorder) Spans() []RecordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedSpan, len(r.spans))
	for i, s := range r.spans {
		out[i] = *s
	}
	return out
}

type recordingSpan struct {
	rec  *Recorder
	span *RecordedSpan
}

func (s *recordingSpan) End(err error) {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	s.span.Err = err
	s.span.Ended = true
}

func (s *recordingSpan) SetAttributes(attrs ...Attribute) {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	for _, a := range attrs {
		s.span.Attributes[a.Key] = a.Value
	}
}

func (s *recordingSpan) AddEvent(name string, _ ...Attribute) {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	s.span.Events = append(s.span.Events, name)
}

var _ Tracer = (*Recorder)(nil)
