package bootstrap

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	workoutinadapter "mapty/internal/modules/workout/adapter/in"
	workoutoutadapter "mapty/internal/modules/workout/adapter/out"
	workoutout "mapty/internal/modules/workout/port/out"
	workoutservice "mapty/internal/modules/workout/service"
	workoutusecase "mapty/internal/modules/workout/usecase"
	"mapty/internal/platform/clock"
	"mapty/internal/platform/config"
	"mapty/internal/platform/id"
	"mapty/internal/platform/logging"
	uiapp "mapty/internal/ui/app"
	"mapty/internal/ui/scene"
)

// Surface is whatever draws the map and the workout list.
type Surface interface {
	workoutout.MapWidget
	workoutout.WorkoutList
}

type App struct {
	Config     config.Config
	WorkoutCLI workoutinadapter.CLIHandler

	closers []io.Closer
}

func New(cfg config.Config, surface Surface) (*App, error) {
	logCloser := logging.Setup(logging.Params{
		FileName: cfg.Log.File,
		Level:    cfg.Log.Level,
		JSON:     cfg.Log.JSON,
	})

	store, err := newStore(cfg)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("new %s store: %w", cfg.Storage.Backend, err), logCloser.Close())
	}

	svc := workoutservice.NewWorkoutService(clock.SystemClock{}, id.NewSequence())
	uc := workoutusecase.NewInteractor(svc, workoutusecase.Collaborators{
		Store:   store,
		Map:     surface,
		List:    surface,
		Geo:     newLocator(cfg),
		Journal: workoutoutadapter.NewVaultJournal(cfg.Journal.Dir),
	}, cfg.Map.Zoom)

	log.WithFields(log.Fields{
		"data":     cfg.DataDir,
		"backend":  cfg.Storage.Backend,
		"provider": cfg.Geolocation.Provider,
	}).Debug("mapty wired")

	return &App{
		Config:     cfg,
		WorkoutCLI: workoutinadapter.NewCLIHandler(uc),
		closers:    []io.Closer{store, logCloser},
	}, nil
}

// Close releases the store and the log file, reporting every failure.
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c.Close())
	}
	a.closers = nil
	return err
}

func RunTUI(cfg config.Config) (err error) {
	sc := scene.New()
	app, err := New(cfg, sc)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, app.Close()) }()

	model := uiapp.NewModel(app.WorkoutCLI, sc)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func newStore(cfg config.Config) (workoutout.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return workoutoutadapter.NewSQLiteStore(cfg.Storage.Path)
	case config.BackendRedis:
		r := cfg.Storage.Redis
		client := workoutoutadapter.NewRedisClient(r.Addr, r.Password, r.DB)
		return workoutoutadapter.NewRedisStore(client, r.Prefix), nil
	default:
		return workoutoutadapter.NewFileStore(cfg.Storage.Path), nil
	}
}

func newLocator(cfg config.Config) workoutout.Geolocator {
	geo := cfg.Geolocation
	if geo.Provider == config.ProviderStatic {
		return workoutoutadapter.NewStaticLocator(geo.Static.Lat, geo.Static.Lng)
	}
	return workoutoutadapter.NewIPInfoLocator(geo.IPInfoToken, geo.Timeout)
}
