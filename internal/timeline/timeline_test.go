package timeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/promille/internal/model"
	"github.com/Tiliavir/promille/internal/timeline"
)

var (
	start = time.Date(2026, 2, 27, 20, 0, 0, 0, time.UTC)
	man   = model.UserStats{Weight: 80, Gender: model.GenderMale}
)

func beer(id string, at time.Time) model.TimedDrink {
	return model.TimedDrink{ID: id, Volume: 500, Percentage: 5, Time: at}
}

func requireWellFormed(t *testing.T, points []timeline.Point) {
	t.Helper()
	require.NotEmpty(t, points)
	for i, p := range points {
		require.GreaterOrEqual(t, p.Permille, 0.0, "sample %d", i)
		if i > 0 {
			require.Equal(t, 10*time.Minute, p.Time.Sub(points[i-1].Time), "sample %d", i)
		}
	}
}

func TestSimulateEmpty(t *testing.T) {
	assert.Empty(t, timeline.Simulate(nil, man))
}

func TestSimulateSingleDrink(t *testing.T) {
	points := timeline.Simulate([]model.TimedDrink{beer("a", start)}, man)
	requireWellFormed(t, points)

	// 19.75g absorbed over 45 minutes against 0.14 g/min elimination reaches
	// zero at minute 141; the 150 minute sample ends the run.
	require.Len(t, points, 16)
	assert.True(t, points[0].Time.Equal(start))
	assert.Zero(t, points[len(points)-1].Permille)
	assert.Greater(t, points[len(points)-2].Permille, 0.0)

	peak := timeline.Peak(points)
	assert.True(t, peak.Time.Equal(start.Add(50*time.Minute)), "peak at %v", peak.Time)
	assert.Greater(t, peak.Permille, 0.2)
	assert.Less(t, peak.Permille, 19.75/(80*0.7))

	sober, ok := timeline.SoberAt(points)
	require.True(t, ok)
	assert.True(t, sober.Equal(start.Add(150*time.Minute)))
}

func TestSimulateDeterministic(t *testing.T) {
	drinks := []model.TimedDrink{
		beer("a", start),
		beer("b", start.Add(30*time.Minute)),
		{ID: "c", Volume: 50, Percentage: 40, Time: start.Add(95 * time.Minute)},
	}
	first := timeline.Simulate(drinks, man)
	second := timeline.Simulate(drinks, man)
	assert.Equal(t, first, second)
}

func TestSimulateSortsInput(t *testing.T) {
	sorted := []model.TimedDrink{
		beer("a", start),
		beer("b", start.Add(40*time.Minute)),
		beer("c", start.Add(90*time.Minute)),
	}
	shuffled := []model.TimedDrink{sorted[2], sorted[0], sorted[1]}

	assert.Equal(t, timeline.Simulate(sorted, man), timeline.Simulate(shuffled, man))
	assert.Equal(t, "c", shuffled[0].ID, "input slice must not be reordered")
}

func TestSimulateSimultaneousDrinks(t *testing.T) {
	one := timeline.Simulate([]model.TimedDrink{beer("a", start)}, man)
	two := timeline.Simulate([]model.TimedDrink{beer("a", start), beer("b", start)}, man)
	requireWellFormed(t, two)

	assert.Greater(t, timeline.Peak(two).Permille, timeline.Peak(one).Permille)
	assert.Greater(t, len(two), len(one))
}

func TestSimulateKeepsRunningUntilLastDrink(t *testing.T) {
	// The first beer is gone long before the second one is poured.
	points := timeline.Simulate([]model.TimedDrink{
		beer("late", start.Add(3*time.Hour)),
		beer("early", start),
	}, man)
	requireWellFormed(t, points)

	assert.Zero(t, points[15].Permille, "first beer eliminated by minute 150")
	assert.Greater(t, points[20].Permille, 0.0, "second beer absorbing at minute 200")
	assert.Len(t, points, 34)
	assert.Zero(t, points[len(points)-1].Permille)
}

func TestSimulateHonoursIterationCap(t *testing.T) {
	var drinks []model.TimedDrink
	for i := 0; i < 10; i++ {
		drinks = append(drinks, model.TimedDrink{Volume: 1000, Percentage: 40, Time: start})
	}
	points := timeline.Simulate(drinks, man)
	requireWellFormed(t, points)

	assert.Len(t, points, timeline.MaxMinutes/timeline.SampleEvery)
	assert.Greater(t, points[len(points)-1].Permille, 0.0)

	_, ok := timeline.SoberAt(points)
	assert.False(t, ok)
}

func TestSimulateFemaleHigherPeak(t *testing.T) {
	drinks := []model.TimedDrink{beer("a", start)}
	woman := model.UserStats{Weight: 80, Gender: model.GenderFemale}
	assert.Greater(t,
		timeline.Peak(timeline.Simulate(drinks, woman)).Permille,
		timeline.Peak(timeline.Simulate(drinks, man)).Permille)
}
