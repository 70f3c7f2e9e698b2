package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/promille/internal/logger"
	"github.com/Tiliavir/promille/internal/model"
	"github.com/Tiliavir/promille/internal/session"
	"github.com/Tiliavir/promille/internal/timecalc"
	"github.com/Tiliavir/promille/internal/widmark"
)

var estimateFlags sessionFlags

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate peak BAC and time until sober (Widmark)",
	Args:  cobra.NoArgs,
	RunE:  runEstimate,
}

func init() {
	estimateFlags.register(estimateCmd, "md, json")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	if err := checkFormat(estimateFlags.format, "md", "json"); err != nil {
		return err
	}

	s, err := estimateFlags.load(profileUser(), time.Now())
	if err != nil {
		fail(err)
	}

	res := widmark.Estimate(session.EstimateDrinks(s), s.User.Weight, s.User.Gender, s.Start, s.End)
	logger.Info("estimate computed",
		"drinks", len(s.Drinks),
		"grams", res.AlcoholGrams,
		"permille", res.Permille,
		"peak", res.EstimatedPeakPermille)

	return renderEstimate(cmd.OutOrStdout(), estimateFlags.format, s, res)
}

type soberJSON struct {
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	SoberAt time.Time `json:"sober_at"`
}

type estimateJSON struct {
	Start                 time.Time       `json:"start"`
	End                   time.Time       `json:"end"`
	User                  model.UserStats `json:"user"`
	AlcoholGrams          float64         `json:"alcohol_grams"`
	Permille              float64         `json:"permille"`
	EstimatedPeakPermille float64         `json:"estimated_peak_permille"`
	PermilleByVolume      float64         `json:"permille_by_volume"`
	PercentByVolume       float64         `json:"percent_by_volume"`
	Plasma                float64         `json:"plasma_g_per_l"`
	Breath                float64         `json:"breath_mg_per_l"`
	Sober                 struct {
		Fast    soberJSON `json:"fast"`
		Average soberJSON `json:"average"`
		Slow    soberJSON `json:"slow"`
	} `json:"sober"`
}

func toSoberJSON(st widmark.SoberTime) soberJSON {
	return soberJSON{Hours: st.Hours, Minutes: st.Minutes, SoberAt: st.SoberAt}
}

func renderEstimate(w io.Writer, format string, s model.Session, res widmark.Result) error {
	if format == "json" {
		out := estimateJSON{
			Start:                 s.Start,
			End:                   s.End,
			User:                  s.User,
			AlcoholGrams:          res.AlcoholGrams,
			Permille:              res.Permille,
			EstimatedPeakPermille: res.EstimatedPeakPermille,
			PermilleByVolume:      res.PermilleByVolume,
			PercentByVolume:       res.PercentByVolume,
			Plasma:                res.Plasma,
			Breath:                res.Breath,
		}
		out.Sober.Fast = toSoberJSON(res.MinTime)
		out.Sober.Average = toSoberJSON(res.AvgTime)
		out.Sober.Slow = toSoberJSON(res.MaxTime)

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	h, m := timecalc.SplitHours(timecalc.HoursBetween(s.Start, s.End))
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Session %s %s–%s (%s)",
		s.Start.Format("2006-01-02"), s.Start.Format("15:04"), s.End.Format("15:04"),
		timecalc.FormatDuration(h, m))))
	fmt.Fprintln(w, mutedStyle.Render(describeUser(s.User)))
	fmt.Fprintln(w, ruleStyle.Render(rule))
	fmt.Fprintf(w, "%-20s%.1f g\n", "Alcohol", res.AlcoholGrams)
	fmt.Fprintf(w, "%-20s%s\n", "BAC max", formatPermille(res.Permille))
	fmt.Fprintf(w, "%-20s%s\n", "BAC peak (est.)", formatPermille(res.EstimatedPeakPermille))
	fmt.Fprintf(w, "%-20s%.2f ‰ (%.3f %%)\n", "BAC by volume", res.PermilleByVolume, res.PercentByVolume)
	fmt.Fprintf(w, "%-20s%.2f g/l\n", "Plasma", res.Plasma)
	fmt.Fprintf(w, "%-20s%.2f mg/l\n", "Breath", res.Breath)
	fmt.Fprintln(w, ruleStyle.Render(rule))
	for _, row := range []struct {
		label string
		st    widmark.SoberTime
	}{
		{"Sober (fast)", res.MinTime},
		{"Sober (average)", res.AvgTime},
		{"Sober (slow)", res.MaxTime},
	} {
		fmt.Fprintf(w, "%-20s%-9s at %s\n", row.label,
			timecalc.FormatDuration(row.st.Hours, row.st.Minutes),
			row.st.SoberAt.Format("Mon 15:04"))
	}
	return nil
}

func describeUser(u model.UserStats) string {
	desc := fmt.Sprintf("%.0f kg, %s", u.Weight, u.Gender)
	if u.Age > 0 {
		desc += fmt.Sprintf(", %d years", u.Age)
	}
	if u.Height > 0 {
		desc += fmt.Sprintf(", %.0f cm", u.Height)
	}
	return desc
}

func checkFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
