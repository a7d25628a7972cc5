package lorc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/natefinch/atomic"
)

// Stats accumulates the cache's telemetry counters: hit-rate and
// hit-byte-rate accumulators for scans, and running-average microsecond
// timers for puts and gets. The counters are not guarded by the [Cache]'s
// lock: every update and [Stats.Snapshot] take the Stats' own mutex.
type Stats struct {
	mu sync.Mutex

	scanCount     int64
	scanFullHits  int64
	scanBytes     int64
	scanHitBytes  int64

	putCount int64
	putAvgUs float64

	getCount int64
	getAvgUs float64
}

// StatsSnapshot is an immutable point-in-time copy of [Stats].
type StatsSnapshot struct {
	FullHitRate  float64 `json:"full_hit_rate"`
	HitByteRate  float64 `json:"hit_byte_rate"`
	AvgPutMicros float64 `json:"avg_put_micros"`
	AvgGetMicros float64 `json:"avg_get_micros"`
	ScanCount    int64   `json:"scan_count"`
	PutCount     int64   `json:"put_count"`
	GetCount     int64   `json:"get_count"`
}

func (s *Stats) recordScan(fullHit bool, totalBytes, hitBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scanCount++
	s.scanBytes += totalBytes
	s.scanHitBytes += hitBytes

	if fullHit {
		s.scanFullHits++
	}
}

func (s *Stats) recordPut(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putCount++
	s.putAvgUs = runningAverage(s.putAvgUs, s.putCount, float64(d.Microseconds()))
}

func (s *Stats) recordGet(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCount++
	s.getAvgUs = runningAverage(s.getAvgUs, s.getCount, float64(d.Microseconds()))
}

// runningAverage folds a new sample into a Welford-style running mean,
// avoiding the need to retain every sample just to average them.
func runningAverage(mean float64, count int64, sample float64) float64 {
	return mean + (sample-mean)/float64(count)
}

// Snapshot returns a consistent copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		AvgPutMicros: s.putAvgUs,
		AvgGetMicros: s.getAvgUs,
		ScanCount:    s.scanCount,
		PutCount:     s.putCount,
		GetCount:     s.getCount,
	}

	if s.scanCount > 0 {
		snap.FullHitRate = float64(s.scanFullHits) / float64(s.scanCount)
	}

	if s.scanBytes > 0 {
		snap.HitByteRate = float64(s.scanHitBytes) / float64(s.scanBytes)
	}

	return snap
}

// DumpSnapshot writes the current snapshot to path as indented JSON,
// replacing the file atomically (temp file + rename) so a concurrent
// reader never observes a partially-written file. This is a debugging aid
// for operators inspecting cache health after the fact; the cache never
// reads the file back — the cache itself stays purely in-memory.
func (s *Stats) DumpSnapshot(path string) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("lorc: marshal stats snapshot: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("lorc: write stats snapshot: %w", err)
	}

	return nil
}
