package l2fwd

import (
	"fmt"
	"io"
	"os"
)

// PortStats contains per-port forwarding counters.
// RX counts packets taken off the port; TX and Dropped count packets sent out
// of the port and packets discarded because the port could not accept them.
// Counters are cumulative and are never reset while the application runs.
type PortStats struct {
	RX      uint64 `json:"rx"`
	TX      uint64 `json:"tx"`
	Dropped uint64 `json:"dropped"`
}

func (st PortStats) String() string {
	return fmt.Sprintf("RX %d, TX %d, dropped %d", st.RX, st.TX, st.Dropped)
}

// Stats returns a snapshot of per-port counters.
// Workers update the counters without synchronization, so a snapshot taken
// while traffic is flowing is approximate; after Close it is exact and final.
func (app *App) Stats() map[uint16]PortStats {
	if app.final != nil {
		return app.final
	}
	return app.snapshotStats()
}

func (app *App) snapshotStats() map[uint16]PortStats {
	m := make(map[uint16]PortStats, len(app.stats))
	for port, st := range app.stats {
		m[port] = *st
	}
	return m
}

// PrintStats writes a statistics table to w.
func (app *App) PrintStats(w io.Writer) {
	var total PortStats
	snapshot := app.Stats()
	fmt.Fprintln(w, "Port statistics ====================================")
	for _, dev := range app.devs {
		port := uint16(dev.ID())
		st := snapshot[port]
		fmt.Fprintf(w, "Statistics for port %d ------------------------------\n", port)
		fmt.Fprintf(w, "Packets sent: %24d\n", st.TX)
		fmt.Fprintf(w, "Packets received: %20d\n", st.RX)
		fmt.Fprintf(w, "Packets dropped: %21d\n", st.Dropped)
		total.RX += st.RX
		total.TX += st.TX
		total.Dropped += st.Dropped
	}
	fmt.Fprintln(w, "Aggregate statistics ===============================")
	fmt.Fprintf(w, "Total packets sent: %18d\n", total.TX)
	fmt.Fprintf(w, "Total packets received: %14d\n", total.RX)
	fmt.Fprintf(w, "Total packets dropped: %15d\n", total.Dropped)
	fmt.Fprintln(w, "====================================================")
}

func (app *App) printPeriodicStats() {
	w := app.StatsWriter
	if w == os.Stdout {
		fmt.Fprint(w, "\x1b[2J\x1b[1;1H") // clear terminal
	}
	app.PrintStats(w)
}
