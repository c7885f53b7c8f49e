package in

import (
	"context"

	workoutdto "mapty/internal/modules/workout/dto"
	workoutin "mapty/internal/modules/workout/port/in"
)

// CLIHandler is the driver facade shared by cobra commands and the TUI.
type CLIHandler struct {
	usecase workoutin.Usecase
}

func NewCLIHandler(usecase workoutin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) InitMap(ctx context.Context) (workoutdto.Coords, error) {
	return h.usecase.InitMap(ctx)
}

func (h CLIHandler) Click(ctx context.Context, lat, lng float64) error {
	return h.usecase.SelectLocation(ctx, workoutdto.Coords{Lat: lat, Lng: lng})
}

func (h CLIHandler) Cancel(ctx context.Context) error {
	return h.usecase.Cancel(ctx)
}

// Add records a workout at lat,lng in one step, the way a click followed by
// a form submit would.
func (h CLIHandler) Add(ctx context.Context, lat, lng float64, kind string, distance, duration, extra float64) (workoutdto.SubmitOutput, error) {
	if err := h.Click(ctx, lat, lng); err != nil {
		return workoutdto.SubmitOutput{}, err
	}
	out, err := h.usecase.Submit(ctx, workoutdto.SubmitInput{Kind: kind, Distance: distance, Duration: duration, Extra: extra})
	if err != nil {
		_ = h.usecase.Cancel(ctx)
		return workoutdto.SubmitOutput{}, err
	}
	return out, nil
}

func (h CLIHandler) SubmitForm(ctx context.Context, input workoutdto.FormInput) (workoutdto.SubmitOutput, error) {
	return h.usecase.SubmitForm(ctx, input)
}

func (h CLIHandler) Restore(ctx context.Context) (workoutdto.RestoreOutput, error) {
	return h.usecase.Restore(ctx)
}

// Save writes the in-memory list again, for retrying after a failed save.
func (h CLIHandler) Save(ctx context.Context) error {
	return h.usecase.Persist(ctx)
}

func (h CLIHandler) Locate(ctx context.Context, id int64) (workoutdto.Coords, error) {
	return h.usecase.Locate(ctx, id)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) List(ctx context.Context) ([]workoutdto.WorkoutOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) State(ctx context.Context) (workoutdto.StateOutput, error) {
	return h.usecase.State(ctx)
}

func (h CLIHandler) Export(ctx context.Context) (workoutdto.ExportOutput, error) {
	return h.usecase.Export(ctx)
}
