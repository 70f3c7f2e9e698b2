package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const yamlTemplate = `# promille session file
#
# user: body attributes. Leave weight/gender out to use the profile from
# ~/.promille/config.json.
user:
  weight: 80      # kg
  gender: male    # male | female

# Drinking window. Times are RFC 3339.
start: 2026-02-27T20:00:00+01:00
end: 2026-02-27T23:30:00+01:00

# alcohol: Absent, Beer, Wine, Vodka, Whiskey, Rum, Tequila, Gin, Champagne,
#          Brandy, Other
# bottle, size_ml and percentage default from the alcohol type; run
# "promille tables" to list them. time is optional and only used by
# "promille timeline" (drinks without one start at the session start).
drinks:
  - alcohol: Beer
    bottle: Pint
    size_ml: 500
    count: 2
    time: 2026-02-27T20:00:00+01:00
  - alcohol: Wine
    count: 1
    time: 2026-02-27T21:30:00+01:00
  - alcohol: Vodka
    bottle: Shot
    percentage: 37.5
    time: 2026-02-27T23:00:00+01:00
`

const jsonTemplate = `{
  "user": {"weight": 80, "gender": "male"},
  "start": "2026-02-27T20:00:00+01:00",
  "end": "2026-02-27T23:30:00+01:00",
  "drinks": [
    {"alcohol": "Beer", "bottle": "Pint", "size_ml": 500, "count": 2, "time": "2026-02-27T20:00:00+01:00"},
    {"alcohol": "Wine", "count": 1, "time": "2026-02-27T21:30:00+01:00"},
    {"alcohol": "Vodka", "bottle": "Shot", "percentage": 37.5, "time": "2026-02-27T23:00:00+01:00"}
  ]
}
`

// WriteTemplate writes an example session to path in the format implied by
// its extension. An existing file is never overwritten.
func WriteTemplate(path string) error {
	var content string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		content = jsonTemplate
	case ".yaml", ".yml":
		content = yamlTemplate
	default:
		return fmt.Errorf("unsupported session file type %q: want .json, .yaml or .yml", ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("writing session file: %w", err)
	}
	return f.Close()
}
