package in

import (
	"context"

	"mapty/internal/modules/workout/dto"
)

type Usecase interface {
	InitMap(ctx context.Context) (dto.Coords, error)
	SelectLocation(ctx context.Context, coords dto.Coords) error
	Cancel(ctx context.Context) error
	Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error)
	SubmitForm(ctx context.Context, input dto.FormInput) (dto.SubmitOutput, error)
	Restore(ctx context.Context) (dto.RestoreOutput, error)
	Persist(ctx context.Context) error
	Locate(ctx context.Context, id int64) (dto.Coords, error)
	Reset(ctx context.Context) error
	List(ctx context.Context) ([]dto.WorkoutOutput, error)
	State(ctx context.Context) (dto.StateOutput, error)
	Export(ctx context.Context) (dto.ExportOutput, error)
}
