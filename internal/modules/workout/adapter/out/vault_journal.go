package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	workoutdto "mapty/internal/modules/workout/dto"
	workoutout "mapty/internal/modules/workout/port/out"
	"mapty/internal/platform/markdown"
	"mapty/internal/platform/slug"
)

var summaryBlock = markdown.Block{
	Start: "<!-- mapty:summary:start -->",
	End:   "<!-- mapty:summary:end -->",
}

// VaultJournal writes one markdown note per workout. Re-exporting rewrites
// the frontmatter and the summary block and keeps everything else. A note is
// matched to a workout by id and date.
type VaultJournal struct {
	dir string
}

func NewVaultJournal(dir string) workoutout.Journal {
	return &VaultJournal{dir: dir}
}

type journalMeta struct {
	ID            int64     `yaml:"id"`
	Kind          string    `yaml:"kind"`
	Date          string    `yaml:"date"`
	Coords        []float64 `yaml:"coords,flow"`
	Distance      float64   `yaml:"distance_km"`
	Duration      float64   `yaml:"duration_min"`
	Cadence       *float64  `yaml:"cadence_spm,omitempty"`
	Pace          *float64  `yaml:"pace_min_km,omitempty"`
	ElevationGain *float64  `yaml:"elevation_gain_m,omitempty"`
	Speed         *float64  `yaml:"speed_km_h,omitempty"`
}

func (j *VaultJournal) Write(_ context.Context, item workoutdto.WorkoutOutput) (string, error) {
	date := item.Date
	dir := filepath.Join(j.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	meta := metaFor(item)
	base := fmt.Sprintf("%d-%s", item.ID, slug.Make(item.Description))

	body := fmt.Sprintf("# %s %s\n\n## Notes\n\n", item.Icon, item.Description)
	var path string
	// ids restart after a reset, so a note with the same name may belong to
	// an older workout; those get a numbered sibling instead.
	for n := 1; ; n++ {
		path = filepath.Join(dir, base+".md")
		if n > 1 {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", base, n))
		}
		existing, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read journal note: %w", err)
		}
		var previous journalMeta
		rest, splitErr := markdown.SplitFrontmatter(string(existing), &previous)
		if splitErr != nil {
			return "", fmt.Errorf("read journal note %s: %w", path, splitErr)
		}
		if sameWorkout(previous, meta) {
			body = strings.TrimPrefix(rest, "\n")
			break
		}
	}

	rendered, err := markdown.RenderFrontmatter(meta, summaryBlock.Replace(body, summary(item)))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func sameWorkout(a, b journalMeta) bool {
	if a.ID != b.ID {
		return false
	}
	at, errA := time.Parse(time.RFC3339, a.Date)
	bt, errB := time.Parse(time.RFC3339, b.Date)
	return errA == nil && errB == nil && at.Equal(bt)
}

func metaFor(item workoutdto.WorkoutOutput) journalMeta {
	meta := journalMeta{
		ID:       item.ID,
		Kind:     item.Kind,
		Date:     item.Date.Format(time.RFC3339),
		Coords:   []float64{item.Coords.Lat, item.Coords.Lng},
		Distance: item.Distance,
		Duration: item.Duration,
	}
	switch item.Kind {
	case "running":
		meta.Cadence, meta.Pace = &item.Cadence, &item.Pace
	case "cycling":
		meta.ElevationGain, meta.Speed = &item.ElevationGain, &item.Speed
	}
	return meta
}

func summary(item workoutdto.WorkoutOutput) string {
	lines := []string{
		fmt.Sprintf("- Location: %.4f, %.4f", item.Coords.Lat, item.Coords.Lng),
		fmt.Sprintf("- Distance: %.1f km", item.Distance),
		fmt.Sprintf("- Duration: %.0f min", item.Duration),
	}
	switch item.Kind {
	case "running":
		lines = append(lines,
			fmt.Sprintf("- Pace: %.1f min/km", item.Pace),
			fmt.Sprintf("- Cadence: %.0f spm", item.Cadence))
	case "cycling":
		lines = append(lines,
			fmt.Sprintf("- Speed: %.1f km/h", item.Speed),
			fmt.Sprintf("- Elevation gain: %.0f m", item.ElevationGain))
	}
	return strings.Join(lines, "\n")
}
