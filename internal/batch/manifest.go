package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one shot in the output manifest.
type ManifestEntry struct {
	Index    int        `json:"index"`
	Name     string     `json:"name"`
	Image    string     `json:"image,omitempty"`
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	Drawn    int        `json:"drawn"`
	Culled   int        `json:"culled"`
	Error    string     `json:"error,omitempty"`
}

// WriteManifest writes the shot list with per-shot outcomes. results is
// indexed like shots; failed shots carry their error instead of an image.
func WriteManifest(path string, shots []Shot, results []Result) error {
	entries := make([]ManifestEntry, len(shots))
	for i, s := range shots {
		e := ManifestEntry{
			Index:    i,
			Name:     s.Name,
			Position: s.Position,
			Target:   s.Target,
		}
		if i < len(results) {
			r := results[i]
			e.Drawn = r.Stats.Drawn
			e.Culled = r.Stats.Culled
			if r.Success {
				e.Image = r.Image
			} else {
				e.Error = r.Error
			}
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
