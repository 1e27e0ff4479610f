package polling

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wardwatch/wardwatch/pkg/reconcile"
	"github.com/wardwatch/wardwatch/pkg/report"
	"github.com/wardwatch/wardwatch/pkg/sheet"
	"github.com/wardwatch/wardwatch/pkg/storage"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// ErrNoSnapshot is returned by Cell.Load before the first successful
// cycle. It is the only condition a caller should surface as a
// user-visible error state.
var ErrNoSnapshot = errors.New("no aggregate computed yet")

// TargetDay selects the operational day in local calendar terms. The zero
// value means "the current local day at the start of each cycle".
type TargetDay struct {
	Year  int
	Month time.Month
	Day   int
}

func (d TargetDay) IsZero() bool { return d.Year == 0 }

func (d TargetDay) orToday(now time.Time) TargetDay {
	if !d.IsZero() {
		return d
	}
	y, m, day := now.Date()
	return TargetDay{Year: y, Month: m, Day: day}
}

func (d TargetDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Config holds everything one polling loop needs for a single source.
type Config struct {
	Source   sheet.Source
	Synonyms report.Synonyms // nil = report.DefaultSynonyms
	Universe []string
	Schedule reconcile.Schedule
	TopK     int       // defaults to 3 if <= 0
	Day      TargetDay // zero = today per cycle

	Interval     time.Duration // defaults to 30s
	FetchTimeout time.Duration // defaults to 20s

	Audit *storage.DB // optional; audit failures never fail a cycle
	Log   Logger      // optional; nil = no logging
}

// Aggregate is everything one cycle derives from one snapshot. It is a
// pure function of (snapshot, day, universe, schedule): recomputing it on
// an unchanged snapshot yields a deeply equal value.
type Aggregate struct {
	Source    string    `json:"source"`
	Day       string    `json:"day"`
	FetchedAt time.Time `json:"fetchedAt"`

	RawRows    int `json:"rawRows"`
	DayRows    int `json:"dayRows"`
	Unparsable int `json:"unparsable"`

	Tiles    reconcile.TileSummary  `json:"tiles"`
	Timeline []reconcile.PhaseCount `json:"timeline"`

	// Ranking is the full descending volume ranking; Top is its first
	// TopK entries, the default dashboard view. Callers asking for a
	// larger k slice Ranking themselves.
	Ranking []string                 `json:"ranking"`
	Top     []string                 `json:"top"`
	Latest  map[string]report.Record `json:"latest"`
}

// Cell holds the last good aggregate for one source: written only by the
// polling loop, read by any number of presentation callers through an
// atomically swapped reference.
type Cell struct {
	v atomic.Pointer[Aggregate]
}

func (c *Cell) Publish(a *Aggregate) { c.v.Store(a) }

// Load returns the last good aggregate, or ErrNoSnapshot if no cycle has
// ever succeeded.
func (c *Cell) Load() (*Aggregate, error) {
	a := c.v.Load()
	if a == nil {
		return nil, ErrNoSnapshot
	}
	return a, nil
}

// BuildAggregate runs the whole pipeline on one snapshot. Quality events
// are timestamped with the snapshot's fetch instant so the result stays
// deterministic for a given snapshot.
func BuildAggregate(snap sheet.Snapshot, cfg Config) (*Aggregate, []storage.QualityEvent) {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	day := cfg.Day.orToday(snap.FetchedAt)

	records := report.Normalize(snap, cfg.Synonyms)

	unparsable := 0
	for _, r := range records {
		if r.RawTimestamp != "" && r.ParsedAt == nil {
			unparsable++
		}
	}

	dayRecords := reconcile.FilterDay(records, day.Year, day.Month, day.Day)
	latest, ties := reconcile.Latest(dayRecords)
	tiles := reconcile.Tiles(cfg.Universe, latest)
	ranking := reconcile.RankWards(dayRecords)

	top := ranking
	if topK < len(top) {
		top = top[:topK]
	}

	agg := &Aggregate{
		Source:     snap.Source,
		Day:        day.String(),
		FetchedAt:  snap.FetchedAt,
		RawRows:    len(records),
		DayRows:    len(dayRecords),
		Unparsable: unparsable,
		Tiles:      tiles,
		Timeline:   reconcile.Bucket(dayRecords, cfg.Schedule),
		Ranking:    ranking,
		Top:        top,
		Latest:     latest,
	}

	var events []storage.QualityEvent
	for _, ward := range tiles.Unmatched {
		events = append(events, storage.QualityEvent{
			OccurredAt: snap.FetchedAt,
			Source:     snap.Source,
			Kind:       storage.EventUniverseMismatch,
			Ward:       ward,
		})
	}
	for _, tb := range ties {
		events = append(events, storage.QualityEvent{
			OccurredAt: snap.FetchedAt,
			Source:     snap.Source,
			Kind:       storage.EventOrderTieBreak,
			Ward:       tb.Ward,
			Detail:     fmt.Sprintf("row %d superseded row %d by fetch order", tb.WinnerIndex, tb.LoserIndex),
		})
	}
	if unparsable > 0 {
		events = append(events, storage.QualityEvent{
			OccurredAt: snap.FetchedAt,
			Source:     snap.Source,
			Kind:       storage.EventUnparsableTimestamps,
			Detail:     fmt.Sprintf("%d rows with unparsable timestamps", unparsable),
		})
	}

	return agg, events
}

// RunCycle runs one fetch-compute-publish cycle. On any failure the cell
// keeps its previous aggregate; no partial result is ever published.
func RunCycle(ctx context.Context, cfg Config, cell *Cell) error {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 20 * time.Second
	}

	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	snap, err := cfg.Source.Fetch(fetchCtx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cfg.Source.Name(), err)
	}

	agg, events := BuildAggregate(snap, cfg)
	cell.Publish(agg)

	log.Debugf("cycle %s: %d raw rows, %d on %s, reported %d/%d",
		agg.Source, agg.RawRows, agg.DayRows, agg.Day, agg.Tiles.Reported, len(cfg.Universe))
	for _, e := range events {
		log.Warnf("data quality (%s): %s ward=%q %s", e.Source, e.Kind, e.Ward, e.Detail)
	}

	if cfg.Audit != nil {
		stat := storage.CycleStat{
			Source:    agg.Source,
			FetchedAt: agg.FetchedAt,
			Duration:  time.Since(start),
			RawRows:   agg.RawRows,
			DayRows:   agg.DayRows,
			Reported:  agg.Tiles.Reported,
			Completed: agg.Tiles.Completed,
			Pending:   agg.Tiles.Pending,
		}
		if err := cfg.Audit.RecordCycle(ctx, stat); err != nil {
			log.Warnf("could not record cycle for %s: %v", agg.Source, err)
		}
		if err := cfg.Audit.RecordQualityEvents(ctx, events); err != nil {
			log.Warnf("could not record quality events for %s: %v", agg.Source, err)
		}
	}

	return nil
}

// Loop polls the source on a fixed interval until the context is
// cancelled. The cycle body runs synchronously on the ticker goroutine so
// two cycles can never overlap; a failed cycle leaves the previous
// aggregate in place and retries on the next tick.
func Loop(ctx context.Context, cfg Config, cell *Cell) {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	if err := RunCycle(ctx, cfg, cell); err != nil {
		log.Errorf("poll %s: %v", cfg.Source.Name(), err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := RunCycle(ctx, cfg, cell); err != nil {
				log.Errorf("poll %s: %v", cfg.Source.Name(), err)
			}
		}
	}
}
