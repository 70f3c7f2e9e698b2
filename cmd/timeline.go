package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/promille/internal/logger"
	"github.com/Tiliavir/promille/internal/session"
	"github.com/Tiliavir/promille/internal/timecalc"
	"github.com/Tiliavir/promille/internal/timeline"
)

const chartWidth = 40

var (
	timelineFlags sessionFlags
	timelineChart bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Simulate the BAC curve minute by minute",
	Args:  cobra.NoArgs,
	RunE:  runTimeline,
}

func init() {
	timelineFlags.register(timelineCmd, "md, csv, json")
	timelineCmd.Flags().BoolVar(&timelineChart, "chart", false, "Draw a bar chart next to each sample (md only)")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	if err := checkFormat(timelineFlags.format, "md", "csv", "json"); err != nil {
		return err
	}

	s, err := timelineFlags.load(profileUser(), time.Now())
	if err != nil {
		fail(err)
	}

	drinks := session.TimedDrinks(s)
	points := timeline.Simulate(drinks, s.User)
	logger.Info("timeline simulated", "drinks", len(drinks), "samples", len(points))
	if len(points) == timeline.MaxMinutes/timeline.SampleEvery {
		logger.Warn("simulation reached the 48 hour cap")
	}

	return renderTimeline(cmd.OutOrStdout(), timelineFlags.format, points, timelineChart)
}

type timelineJSON struct {
	Peak    *timeline.Point  `json:"peak"`
	SoberAt *time.Time       `json:"sober_at"`
	Points  []timeline.Point `json:"points"`
}

func renderTimeline(w io.Writer, format string, points []timeline.Point, chart bool) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "time,permille")
		for _, p := range points {
			fmt.Fprintf(w, "%s,%.3f\n", p.Time.Format(time.RFC3339), p.Permille)
		}
		return nil

	case "json":
		out := timelineJSON{Points: points}
		if out.Points == nil {
			out.Points = []timeline.Point{}
		}
		if len(points) > 0 {
			peak := timeline.Peak(points)
			out.Peak = &peak
		}
		if at, ok := timeline.SoberAt(points); ok {
			out.SoberAt = &at
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if len(points) == 0 {
		fmt.Fprintln(w, "No drinks found.")
		return nil
	}

	peak := timeline.Peak(points)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Peak %.2f ‰ at %s", peak.Permille, peak.Time.Format("15:04"))))
	if at, ok := timeline.SoberAt(points); ok {
		fmt.Fprintf(w, "Sober at %s (%s after the first drink)\n",
			at.Format("Mon 15:04"), timecalc.FormatDurationHHMM(at.Sub(points[0].Time)))
	} else {
		fmt.Fprintln(w, warningStyle.Render("Not sober within 48 hours"))
	}
	fmt.Fprintln(w, ruleStyle.Render(rule))

	for _, p := range points {
		line := fmt.Sprintf("%s  %s", p.Time.Format("15:04"), formatPermille(p.Permille))
		if chart {
			line += "  " + barStyle.Render(chartBar(p.Permille, peak.Permille, chartWidth))
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// chartBar scales permille against peak into a bar of at most width cells.
func chartBar(permille, peak float64, width int) string {
	if peak <= 0 || permille <= 0 {
		return ""
	}
	n := int(math.Round(permille / peak * float64(width)))
	return strings.Repeat("█", min(n, width))
}
