package dto

import "time"

type Coords struct {
	Lat float64
	Lng float64
}

// WorkoutOutput is the flattened, render-ready view of a workout.
type WorkoutOutput struct {
	ID            int64
	Kind          string
	Icon          string
	Description   string
	Coords        Coords
	Distance      float64
	Duration      float64
	Date          time.Time
	Cadence       float64
	Pace          float64
	ElevationGain float64
	Speed         float64
}

// Marker is what the map widget pins at a workout's location.
type Marker struct {
	WorkoutID int64
	Kind      string
	Coords    Coords
	Popup     string
}

type SubmitInput struct {
	Kind     string
	Distance float64
	Duration float64
	// Extra is cadence for running and elevation gain for cycling.
	Extra float64
}

// FormInput carries raw form field values.
type FormInput struct {
	Type      string
	Distance  string
	Duration  string
	Cadence   string
	Elevation string
}

type SubmitOutput struct {
	Workout      WorkoutOutput
	Persisted    bool
	PersistError string
}

type RestoreOutput struct {
	Workouts []WorkoutOutput
	Skipped  int
}

type State string

const (
	StateIdle          State = "idle"
	StateAwaitingInput State = "awaiting_input"
)

type StateOutput struct {
	State     State
	Pending   Coords
	MapReady  bool
	MapCenter Coords
	Count     int
}

type ExportOutput struct {
	Paths []string
}
