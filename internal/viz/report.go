package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/sim"
)

const historyCapacity = 600

// History records per-tick series for charting. It implements sim.Observer.
type History struct {
	capacity   int
	Population []float64
	Merges     []float64
	TickMillis []float64
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = historyCapacity
	}
	return &History{
		capacity:   capacity,
		Population: make([]float64, 0, capacity),
		Merges:     make([]float64, 0, capacity),
		TickMillis: make([]float64, 0, capacity),
	}
}

func (h *History) OnTick(s sim.Summary) {
	h.Population = h.push(h.Population, float64(s.Transients))
	h.Merges = h.push(h.Merges, float64(len(s.NewCollisions)))
	h.TickMillis = h.push(h.TickMillis, float64(s.Stats.LastTick)/float64(time.Millisecond))
}

func (h *History) push(series []float64, v float64) []float64 {
	if len(series) >= h.capacity {
		series = append(series[:0], series[1:]...)
	}
	return append(series, v)
}

func (h *History) Reset() {
	h.Population = h.Population[:0]
	h.Merges = h.Merges[:0]
	h.TickMillis = h.TickMillis[:0]
}

func chart(series []float64, caption string, height, width int) string {
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

// Report renders the outcome of a headless run.
func Report(res *sim.Result, h *History) string {
	var b strings.Builder
	final := res.Final

	b.WriteString(HeaderStyle.Render("RUN SUMMARY") + "\n")
	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Ticks", fmt.Sprintf("%d", res.Ticks))
	row("Frame", fmt.Sprintf("%d", final.Frame))
	row("Elapsed", res.Elapsed.Round(time.Millisecond).String())
	row("Avg tick", final.Stats.AvgTick().String())
	row("dt", fmt.Sprintf("%.3g", final.DeltaTime))
	row("Anchors", fmt.Sprintf("%d", len(final.Anchors)))
	row("Transients", fmt.Sprintf("%d (%d comets)", final.Transients, final.Comets))
	row("Merges", fmt.Sprintf("%d + %d anchor", final.Stats.Merges, final.Stats.AnchorMerges))
	if final.Stats.Discarded > 0 || len(res.Errors) > 0 {
		b.WriteString(StatusError.Render(fmt.Sprintf("%d ticks discarded", final.Stats.Discarded)) + "\n")
	}

	if len(res.Metrics) > 0 {
		b.WriteString("\n" + HeaderStyle.Render("METRICS") + "\n")
		names := make([]string, 0, len(res.Metrics))
		for name := range res.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			row(name, fmt.Sprintf("%.6g", res.Metrics[name]))
		}
	}

	if h != nil {
		for _, c := range []string{
			chart(h.Population, "Transient population", 8, 60),
			chart(h.Merges, "Merges per tick", 5, 60),
			chart(h.TickMillis, "Tick time (ms)", 5, 60),
		} {
			if c != "" {
				b.WriteString("\n" + graphStyle.Render(c) + "\n")
			}
		}
	}
	return b.String()
}

// PartitionLoad renders one bar per partition, scaled to the largest.
func PartitionLoad(sizes []int, width int) string {
	largest := 0
	for _, n := range sizes {
		largest = max(largest, n)
	}

	var b strings.Builder
	for i, n := range sizes {
		ratio := 0.0
		if largest > 0 {
			ratio = float64(n) / float64(largest)
		}
		b.WriteString(fmt.Sprintf("%3d %s %d\n", i, LoadBar(ratio, width), n))
	}
	return b.String()
}
