package csvlog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSinkWritesEventsAndMeasurements(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sink.Evnt(now, "trigger-time")
	sink.Meas(now, "buffer-overflow-sat-3", 1.5)
	sink.Meas(now.Add(time.Second), "buffer-overflow-sat-3", 2.5)

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sink.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	assertLines(t, filepath.Join(dir, "trigger-time.csv"), []string{
		"time,event",
		now.Format(time.RFC3339Nano) + ",trigger-time",
	})
	assertLines(t, filepath.Join(dir, "buffer-overflow-sat-3.csv"), []string{
		"time,value",
		now.Format(time.RFC3339Nano) + ",1.5",
		now.Add(time.Second).Format(time.RFC3339Nano) + ",2.5",
	})
}

func TestSinkFlushMakesRowsReadableBeforeClose(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir)
	defer sink.Close()

	now := time.Now()
	sink.Meas(now, "bits-buffered-sat-1", 42)
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bits-buffered-sat-1.csv"))
	if err != nil {
		t.Fatalf("read flushed file: %v", err)
	}
	if !strings.Contains(string(data), "42") {
		t.Fatalf("flushed file missing expected row: %q", data)
	}
}

func TestSinkSeparatesStreamsByName(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir)
	defer sink.Close()

	sink.Meas(time.Now(), "bits-lost-sat-1", 1)
	sink.Meas(time.Now(), "bits-lost-sat-2", 2)
	sink.Close()

	for _, name := range []string{"bits-lost-sat-1.csv", "bits-lost-sat-2.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected stream file %s: %v", name, err)
		}
	}
}

func assertLines(t *testing.T, path string, want []string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var got []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		got = append(got, scanner.Text())
	}
	if len(got) != len(want) {
		t.Fatalf("%s: got %d lines %v, want %d lines %v", path, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s line %d = %q, want %q", path, i, got[i], want[i])
		}
	}
}
