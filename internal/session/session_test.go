package session_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/promille/internal/model"
	"github.com/Tiliavir/promille/internal/session"
)

var evening = time.Date(2026, 2, 27, 20, 0, 0, 0, time.UTC)

func pct(v float64) *float64 { return &v }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "s.yaml", `
user:
  weight: 72
  gender: female
start: 2026-02-27T20:00:00Z
end: 2026-02-27T22:00:00Z
drinks:
  - alcohol: beer
    count: 2
  - alcohol: Vodka
    bottle: shot
    percentage: 37.5
    time: 2026-02-27T21:15:00Z
`)
	s, err := session.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 72.0, s.User.Weight)
	assert.Equal(t, model.GenderFemale, s.User.Gender)
	assert.True(t, s.Start.Equal(evening))
	require.Len(t, s.Drinks, 2)
	assert.Equal(t, 2, s.Drinks[0].Count)
	require.NotNil(t, s.Drinks[1].Percentage)
	assert.Equal(t, 37.5, *s.Drinks[1].Percentage)
	require.NotNil(t, s.Drinks[1].Time)
	assert.True(t, s.Drinks[1].Time.Equal(evening.Add(75*time.Minute)))
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "s.json", `{
  "user": {"weight": 90, "gender": "male"},
  "start": "2026-02-27T20:00:00Z",
  "drinks": [{"alcohol": "Wine", "size_ml": 200}]
}`)
	s, err := session.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90.0, s.User.Weight)
	require.Len(t, s.Drinks, 1)
	assert.Equal(t, 200.0, s.Drinks[0].SizeML)
	assert.Nil(t, s.Drinks[0].Percentage)
}

func TestLoadErrors(t *testing.T) {
	_, err := session.Load(writeFile(t, "s.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported")

	corrupt := writeFile(t, "s.json", "{")
	_, err = session.Load(corrupt)
	assert.ErrorContains(t, err, corrupt)

	_, err = session.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestResolveDefaults(t *testing.T) {
	s, err := session.Resolve(model.Session{
		User:  model.UserStats{Weight: 80, Gender: model.GenderMale},
		Start: evening,
		Drinks: []model.SessionDrink{
			{Alcohol: "beer"},
			{Alcohol: "Whiskey", Bottle: "SHOT", Count: 3},
			{Alcohol: "Wine", Percentage: pct(13.5)},
		},
	})
	require.NoError(t, err)
	assert.True(t, s.End.Equal(evening), "zero end defaults to start")

	beer := s.Drinks[0]
	assert.Equal(t, "Beer", beer.Alcohol)
	assert.Equal(t, "Pint", beer.Bottle)
	assert.Equal(t, 330.0, beer.SizeML)
	assert.Equal(t, 5.0, *beer.Percentage)
	assert.Equal(t, 1, beer.Count)

	whiskey := s.Drinks[1]
	assert.Equal(t, "Shot", whiskey.Bottle)
	assert.Equal(t, 25.0, whiskey.SizeML)
	assert.Equal(t, 40.0, *whiskey.Percentage)
	assert.Equal(t, 3, whiskey.Count)

	assert.Equal(t, 13.5, *s.Drinks[2].Percentage)
	assert.Equal(t, "Bottle", s.Drinks[2].Bottle)
}

func TestResolveValidation(t *testing.T) {
	valid := func() model.Session {
		return model.Session{
			User:   model.UserStats{Weight: 80, Gender: model.GenderMale},
			Start:  evening,
			End:    evening.Add(time.Hour),
			Drinks: []model.SessionDrink{{Alcohol: "Beer"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*model.Session)
		want   string
	}{
		{"zero weight", func(s *model.Session) { s.User.Weight = 0 }, "weight"},
		{"bad gender", func(s *model.Session) { s.User.Gender = "other" }, "gender"},
		{"missing start", func(s *model.Session) { s.Start = time.Time{} }, "start"},
		{"end before start", func(s *model.Session) { s.End = evening.Add(-time.Minute) }, "before start"},
		{"unknown alcohol", func(s *model.Session) { s.Drinks[0].Alcohol = "Mead" }, "unknown alcohol"},
		{"unknown bottle", func(s *model.Session) { s.Drinks[0].Bottle = "Keg" }, "unknown bottle"},
		{"bottle not allowed", func(s *model.Session) { s.Drinks[0].Bottle = "Shot" }, "not served"},
		{"other needs size", func(s *model.Session) { s.Drinks[0].Alcohol = "Other" }, "size_ml"},
		{"negative count", func(s *model.Session) { s.Drinks[0].Count = -1 }, "count"},
		{"percentage range", func(s *model.Session) { s.Drinks[0].Percentage = pct(120) }, "percentage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			_, err := session.Resolve(s)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := session.Resolve(valid())
	assert.NoError(t, err)
}

func TestResolveReportsEveryProblem(t *testing.T) {
	_, err := session.Resolve(model.Session{
		Start:  evening,
		Drinks: []model.SessionDrink{{Alcohol: "Mead"}},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "weight")
	assert.ErrorContains(t, err, "gender")
	assert.ErrorContains(t, err, "drink 1")
}

func TestFillUser(t *testing.T) {
	s := session.FillUser(
		model.Session{User: model.UserStats{Weight: 65}},
		model.UserStats{Weight: 80, Gender: model.GenderFemale, Age: 30},
	)
	assert.Equal(t, 65.0, s.User.Weight)
	assert.Equal(t, model.GenderFemale, s.User.Gender)
	assert.Equal(t, 30, s.User.Age)
}

func TestEstimateDrinks(t *testing.T) {
	s, err := session.Resolve(model.Session{
		User:  model.UserStats{Weight: 80, Gender: model.GenderMale},
		Start: evening,
		Drinks: []model.SessionDrink{
			{Alcohol: "Beer", SizeML: 500, Count: 4},
			{Alcohol: "Vodka", Bottle: "Shot", SizeML: 50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Drink{
		{Count: 4, Volume: 500, Percentage: 5},
		{Count: 1, Volume: 50, Percentage: 40},
	}, session.EstimateDrinks(s))
}

func TestTimedDrinks(t *testing.T) {
	late := evening.Add(90 * time.Minute)
	s, err := session.Resolve(model.Session{
		User:  model.UserStats{Weight: 80, Gender: model.GenderMale},
		Start: evening,
		Drinks: []model.SessionDrink{
			{Alcohol: "Beer", SizeML: 500, Count: 2},
			{Alcohol: "Wine", Time: &late},
		},
	})
	require.NoError(t, err)

	drinks := session.TimedDrinks(s)
	require.Len(t, drinks, 3)
	assert.True(t, drinks[0].Time.Equal(evening))
	assert.True(t, drinks[1].Time.Equal(evening))
	assert.True(t, drinks[2].Time.Equal(late))
	assert.Equal(t, 330.0, drinks[2].Volume)
	assert.Equal(t, 12.0, drinks[2].Percentage)

	ids := map[string]bool{}
	for _, d := range drinks {
		ids[d.ID] = true
	}
	assert.Len(t, ids, 3, "ids must be unique")
}

func TestWriteTemplate(t *testing.T) {
	for _, name := range []string{"session.yaml", "session.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, session.WriteTemplate(path))

			s, err := session.Load(path)
			require.NoError(t, err)
			s, err = session.Resolve(s)
			require.NoError(t, err)
			assert.Len(t, session.TimedDrinks(s), 4)

			assert.ErrorIs(t, session.WriteTemplate(path), fs.ErrExist)
		})
	}

	assert.Error(t, session.WriteTemplate(filepath.Join(t.TempDir(), "s.txt")))
}
