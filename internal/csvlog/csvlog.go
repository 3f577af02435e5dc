// Package csvlog implements core.Log against one buffered CSV file per
// named stream, grounded on the retrieval pack's CSVWriter (buffered
// writer + mutex + explicit Flush/Close) rather than a naive per-row
// os.Create. The simulator is single-threaded, but the mutex costs
// nothing and keeps the writer safe to share if that ever changes.
package csvlog

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// streamWriter is one named stream's buffered CSV file.
type streamWriter struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
}

func newStreamWriter(path string, header []string) (*streamWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csvlog: create %s: %w", path, err)
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	cw := csv.NewWriter(bw)
	if err := cw.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("csvlog: write header for %s: %w", path, err)
	}
	return &streamWriter{file: f, buf: bw, csv: cw}, nil
}

func (w *streamWriter) writeRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.csv.Write(row)
}

func (w *streamWriter) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	return w.buf.Flush()
}

func (w *streamWriter) close() error {
	if err := w.flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Sink is the concrete core.Log implementation the CLI wires up: one CSV
// file per stream name under dir, created lazily on first write.
type Sink struct {
	dir string

	mu      sync.Mutex
	streams map[string]*streamWriter
	err     error
}

// NewSink constructs a Sink writing one file per stream under dir. dir
// must already exist.
func NewSink(dir string) *Sink {
	return &Sink{dir: dir, streams: make(map[string]*streamWriter)}
}

// Evnt records a discrete event on the named stream: a timestamp and the
// event name.
func (s *Sink) Evnt(t time.Time, name string) {
	w, err := s.streamFor(name, []string{"time", "event"})
	if err != nil {
		s.recordErr(err)
		return
	}
	if err := w.writeRow([]string{t.Format(time.RFC3339Nano), name}); err != nil {
		s.recordErr(fmt.Errorf("csvlog: write event %q: %w", name, err))
	}
}

// Meas records one numeric sample on the named stream: a timestamp and
// value.
func (s *Sink) Meas(t time.Time, name string, value float64) {
	w, err := s.streamFor(name, []string{"time", "value"})
	if err != nil {
		s.recordErr(err)
		return
	}
	if err := w.writeRow([]string{t.Format(time.RFC3339Nano), fmt.Sprintf("%g", value)}); err != nil {
		s.recordErr(fmt.Errorf("csvlog: write measurement %q: %w", name, err))
	}
}

// Err returns the first I/O error encountered by any stream, or nil.
// Log writes never fail loudly mid-run (core.Log has no error return)
// but a fatal I/O error per spec §7 must still surface; the driver
// checks Err after every step, and Flush and Close return it.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Flush flushes every open stream to disk.
func (s *Sink) Flush() error {
	s.mu.Lock()
	streams := make([]*streamWriter, 0, len(s.streams))
	for _, w := range s.streams {
		streams = append(streams, w)
	}
	s.mu.Unlock()

	for _, w := range streams {
		if err := w.flush(); err != nil {
			s.recordErr(err)
		}
	}
	return s.Err()
}

// Close flushes and closes every open stream.
func (s *Sink) Close() error {
	s.mu.Lock()
	streams := make([]*streamWriter, 0, len(s.streams))
	for _, w := range s.streams {
		streams = append(streams, w)
	}
	s.mu.Unlock()

	for _, w := range streams {
		if err := w.close(); err != nil {
			s.recordErr(err)
		}
	}
	return s.Err()
}

func (s *Sink) streamFor(name string, header []string) (*streamWriter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.streams[name]; ok {
		return w, nil
	}
	path := filepath.Join(s.dir, name+".csv")
	w, err := newStreamWriter(path, header)
	if err != nil {
		return nil, err
	}
	s.streams[name] = w
	return w, nil
}

func (s *Sink) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
