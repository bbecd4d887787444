package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mpapenbr/racelog-analytics/pkg/analytics/stats"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/api/strategyv1"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(header)
	return tbl
}

func renderRaces(w io.Writer, races []*model.Race) {
	tbl := newTable(w, table.Row{"ID", "Name", "Track", "Laps"})
	for _, r := range races {
		tbl.AppendRow(table.Row{r.ID, r.Name, r.Track, r.TotalLaps})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(races))})
	tbl.Render()
}

func renderDrivers(w io.Writer, drivers []*model.DriverInfo) {
	tbl := newTable(w, table.Row{"ID", "Number", "Vehicle", "Class"})
	for _, d := range drivers {
		tbl.AppendRow(table.Row{d.ID, d.Number, d.Vehicle, d.Class})
	}
	tbl.Render()
}

func renderSummary(w io.Writer, s *model.DriverSummary) {
	if s == nil {
		return
	}
	tbl := newTable(w, table.Row{"Driver", s.DriverID})
	tbl.AppendRows([]table.Row{
		{"Best lap", stats.FormatNullable(s.BestLapTime)},
		{"Average lap", stats.FormatNullable(s.AvgLapTime)},
		{"Consistency", formatSeconds(s.Consistency)},
		{"Laps (valid)", fmt.Sprintf("%d (%d)", s.LapCount, s.ValidLapCount)},
		{"Trend", s.Trend},
		{"Weak sectors", strings.Join(s.WeakSectors, ", ")},
		{"Strengths", strings.Join(s.Strengths, ", ")},
	})
	if t := s.TelemetrySummary; t != nil {
		tbl.AppendSeparator()
		tbl.AppendRows([]table.Row{
			{"Max speed", fmt.Sprintf("%.1f", t.MaxSpeed)},
			{"Avg speed", fmt.Sprintf("%.1f", t.AvgSpeed)},
			{"Throttle usage", fmt.Sprintf("%.1f", t.ThrottleUsage)},
			{"Brake usage", fmt.Sprintf("%.1f", t.BrakeUsage)},
			{"Samples", t.Samples},
		})
	}
	tbl.Render()
}

func renderRacingLine(w io.Writer, rl *model.RacingLine) {
	if rl == nil {
		return
	}
	fmt.Fprintf(w, "Time potential: %.3fs\n", rl.TimePotential)
	for _, s := range rl.Improvements {
		fmt.Fprintf(w, "- %s\n", s)
	}
	tbl := newTable(w, table.Row{"Segment", "Start", "End", "Deviation", "Speed deficit", ""})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Transformer: percent},
		{Number: 3, Transformer: percent},
	})
	for _, s := range rl.Segments {
		flag := ""
		if s.Flagged {
			flag = "*"
		}
		tbl.AppendRow(table.Row{
			s.Segment, s.Start, s.End,
			fmt.Sprintf("%.1fm", s.Deviation),
			fmt.Sprintf("%.1f", s.SpeedDeficit),
			flag,
		})
	}
	tbl.Render()
}

func renderComparison(w io.Writer, drivers []model.DriverSummary) {
	tbl := newTable(w, table.Row{"Pos", "Driver", "Best", "Average", "Std dev", "Laps", "Trend"})
	for i := range drivers {
		d := &drivers[i]
		tbl.AppendRow(table.Row{
			i + 1, d.DriverID,
			stats.FormatNullable(d.BestLapTime),
			stats.FormatNullable(d.AvgLapTime),
			formatSeconds(d.Consistency),
			d.LapCount, d.Trend,
		})
	}
	tbl.Render()
}

func renderInsights(w io.Writer, insights []model.Insight) {
	tbl := newTable(w, table.Row{"Impact", "Type", "Driver", "Title", "Description"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: 60},
	})
	for _, i := range insights {
		tbl.AppendRow(table.Row{i.Impact, i.Type, i.DriverID, i.Title, i.Description})
	}
	tbl.Render()
}

func renderStrategy(w io.Writer, resp *strategyv1.PitStopStrategyResponse) {
	if !resp.Applicable || resp.Result == nil {
		fmt.Fprintf(w, "No strategy: %s\n", resp.Reason)
		return
	}
	r := resp.Result
	fmt.Fprintf(w, "%s, pit on laps %v, gain %.3fs\n%s\n",
		r.StrategyType, r.RecommendedLaps, r.TimeGain, r.Reasoning)

	tbl := newTable(w, table.Row{"Strategy", "Pit laps", "Total time"})
	for _, c := range r.Candidates {
		tbl.AppendRow(table.Row{c.StrategyType, fmt.Sprint(c.RecommendedLaps),
			fmt.Sprintf("%.3f", c.TotalTime)})
	}
	tbl.Render()

	plan := newTable(w, table.Row{"", "From", "To", "Tire age", "Duration"})
	for _, p := range resp.Plan {
		plan.AppendRow(table.Row{p.Type, p.LapStart, p.LapEnd, p.StartAge,
			fmt.Sprintf("%.3f", p.Duration)})
	}
	plan.Render()
}

var percent = text.Transformer(func(val any) string {
	if f, ok := val.(float64); ok {
		return fmt.Sprintf("%.0f%%", f*100)
	}
	return fmt.Sprint(val)
})

func formatSeconds(v null.Val[float64]) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.3fs", f)
	}
	return "N/A"
}
