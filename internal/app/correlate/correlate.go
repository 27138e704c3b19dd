// Package correlate joins validated interface samples with device metadata
// and with syslog events that fall inside a time window around each sample.
package correlate

import (
	"sort"
	"sync"
	"time"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
)

// DefaultWindow is the half-width of the correlation interval.
const DefaultWindow = 5 * time.Minute

// Options tune one correlation pass.
type Options struct {
	// Window is the half-width of the closed match interval [t-Window, t+Window].
	Window time.Duration
	// Workers bounds the per-device fan-out. Rows for one device are always
	// handled by a single worker so the match policy stays deterministic.
	Workers int
}

// event is one valid syslog row prepared for window lookups. pos is the row's
// original position in the valid-syslog slice; the match policy minimizes it.
type event struct {
	pos      int
	at       time.Time
	severity string
	message  string
}

// Correlate runs with the default window on a single worker.
func Correlate(ifStats []domain.InterfaceStats, syslog []domain.Syslog, inventory []domain.DeviceInventory) []domain.TransformedRecord {
	return Run(ifStats, syslog, inventory, Options{})
}

// Run left-joins every interface-stat row to the device inventory and attaches
// at most one in-window syslog event per row. The result has exactly one entry
// per input row, in input order; unknown devices keep empty site/vendor/role.
//
// Among several in-window events the one with the lowest original position in
// the valid-syslog slice wins, not the nearest in time. That tie-break is load
// bearing for downstream consumers and must survive any reimplementation.
func Run(ifStats []domain.InterfaceStats, syslog []domain.Syslog, inventory []domain.DeviceInventory, opts Options) []domain.TransformedRecord {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	meta := make(map[string]domain.DeviceInventory, len(inventory))
	for _, d := range inventory {
		meta[d.Device] = d
	}
	index := buildIndex(syslog)

	out := make([]domain.TransformedRecord, len(ifStats))

	// Shard rows by device so one worker owns all samples of a device.
	byDevice := make(map[string][]int)
	order := make([]string, 0)
	for i, row := range ifStats {
		if _, seen := byDevice[row.Device]; !seen {
			order = append(order, row.Device)
		}
		byDevice[row.Device] = append(byDevice[row.Device], i)
	}

	work := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for device := range work {
				events := index[device]
				for _, i := range byDevice[device] {
					out[i] = transformRow(ifStats[i], meta, events, opts.Window)
				}
			}
		}()
	}
	for _, device := range order {
		work <- device
	}
	close(work)
	wg.Wait()

	return out
}

func transformRow(row domain.InterfaceStats, meta map[string]domain.DeviceInventory, events []event, window time.Duration) domain.TransformedRecord {
	rec := domain.TransformedRecord{
		TS:         row.TS,
		Device:     row.Device,
		IfName:     row.IfName,
		UtilIn:     row.UtilIn,
		UtilOut:    row.UtilOut,
		OperStatus: row.OperStatus,
	}
	if d, ok := meta[row.Device]; ok {
		rec.Site = d.Site
		rec.Vendor = d.Vendor
		rec.Role = d.Role
	}

	t, err := domain.ParseTimestamp(row.TS)
	if err != nil {
		// QC guarantees parseable timestamps for valid rows; a row arriving
		// here without one keeps its join fields empty rather than failing.
		return rec
	}

	if ev, ok := firstInWindow(events, t.Add(-window), t.Add(window)); ok {
		rec.SyslogSeverity = ev.severity
		rec.SyslogMsg = ev.message
	}
	return rec
}

// buildIndex groups syslog rows by device and sorts each group by timestamp,
// keeping original positions for the tie-break. Rows whose timestamp does not
// parse cannot match anything and are left out of the index.
func buildIndex(syslog []domain.Syslog) map[string][]event {
	index := make(map[string][]event)
	for i, row := range syslog {
		at, err := domain.ParseTimestamp(row.TS)
		if err != nil {
			continue
		}
		index[row.Device] = append(index[row.Device], event{
			pos:      i,
			at:       at,
			severity: row.Severity,
			message:  row.Message,
		})
	}
	for device := range index {
		evs := index[device]
		sort.SliceStable(evs, func(a, b int) bool { return evs[a].at.Before(evs[b].at) })
	}
	return index
}

// firstInWindow returns the event with the lowest original position whose
// timestamp lies in the closed interval [lo, hi].
func firstInWindow(events []event, lo, hi time.Time) (event, bool) {
	start := sort.Search(len(events), func(i int) bool {
		return !events[i].at.Before(lo)
	})

	best := event{pos: -1}
	for i := start; i < len(events) && !events[i].at.After(hi); i++ {
		if best.pos == -1 || events[i].pos < best.pos {
			best = events[i]
		}
	}
	return best, best.pos != -1
}
