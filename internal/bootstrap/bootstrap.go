package bootstrap

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	alarminadapter "shakker/internal/modules/alarm/adapter/in"
	alarmoutadapter "shakker/internal/modules/alarm/adapter/out"
	alarmservice "shakker/internal/modules/alarm/service"
	alarmusecase "shakker/internal/modules/alarm/usecase"
	challengeinadapter "shakker/internal/modules/challenge/adapter/in"
	challengeoutadapter "shakker/internal/modules/challenge/adapter/out"
	challengedomain "shakker/internal/modules/challenge/domain"
	challengeout "shakker/internal/modules/challenge/port/out"
	challengeservice "shakker/internal/modules/challenge/service"
	challengeusecase "shakker/internal/modules/challenge/usecase"
	dispatchinadapter "shakker/internal/modules/dispatch/adapter/in"
	dispatchoutadapter "shakker/internal/modules/dispatch/adapter/out"
	dispatchdto "shakker/internal/modules/dispatch/dto"
	dispatchout "shakker/internal/modules/dispatch/port/out"
	dispatchservice "shakker/internal/modules/dispatch/service"
	dispatchusecase "shakker/internal/modules/dispatch/usecase"
	scheduleoutadapter "shakker/internal/modules/schedule/adapter/out"
	scheduleservice "shakker/internal/modules/schedule/service"
	scheduleusecase "shakker/internal/modules/schedule/usecase"
	"shakker/internal/platform/clock"
	"shakker/internal/platform/config"
	"shakker/internal/platform/id"
	"shakker/internal/platform/seq"
	uiapp "shakker/internal/ui/app"
	dismissview "shakker/internal/ui/views/dismiss"
)

type App struct {
	AlarmCLI     alarminadapter.CLIHandler
	DispatchCLI  dispatchinadapter.CLIHandler
	ChallengeCLI challengeinadapter.CLIHandler

	// Timer drives daemon mode; it fires into dispatch once Run is called.
	Timer *scheduleoutadapter.WakeTimer

	// IPC serves the dismissal surface of a running daemon; sessions are
	// in-memory only, so other CLI processes reach them over this socket.
	IPC        *dispatchinadapter.JSONRPCServer
	SocketPath string

	// Feed is set when no sensor plugin is configured; the TUI pushes
	// simulated samples through it.
	Feed *challengeoutadapter.ManualSensorSource

	closers []func()
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	timer := scheduleoutadapter.NewWakeTimer(clk, logger)
	scheduleSvc := scheduleservice.NewScheduleService(clk, timer, logger)
	scheduleUC := scheduleusecase.NewInteractor(scheduleSvc)

	store, err := alarmoutadapter.NewSQLiteAlarmStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new alarm store: %w", err)
	}
	alarmSvc := alarmservice.NewAlarmService(clk, logger)
	alarmUC := alarmusecase.NewInteractor(alarmSvc, store, scheduleUC, seq.NewKeyedSequencer())

	app := &App{Timer: timer}
	app.closers = append(app.closers, func() { _ = store.Close() })

	var sensors challengeout.SensorSource
	if cfg.Settings.SensorPlugin != "" {
		pluginSource := challengeoutadapter.NewPluginSensorSource(cfg.Settings.SensorPlugin, logger)
		app.closers = append(app.closers, pluginSource.Close)
		sensors = pluginSource
	} else {
		app.Feed = challengeoutadapter.NewManualSensorSource()
		sensors = app.Feed
	}

	var signal dispatchout.AttentionSignal
	if cfg.Settings.SignalCommand != "" {
		signal = dispatchoutadapter.NewProcessSignal(cfg.Settings.SignalCommand, logger)
	} else {
		signal = dispatchoutadapter.NewTerminalSignal(os.Stdout)
	}

	silencer := challengeoutadapter.NewDispatchSilencer()
	rules := challengedomain.Rules{
		ShakeThreshold: cfg.Settings.ShakeThreshold,
		LuxThreshold:   cfg.Settings.LuxThreshold,
	}
	challengeSvc := challengeservice.NewChallengeService(
		rules, sensors, silencer, challengeoutadapter.NewAlarmCompleter(alarmUC), ids, nil, logger)
	challengeUC := challengeusecase.NewInteractor(challengeSvc)

	dispatchSvc := dispatchservice.NewDispatchService(signal, logger)
	dispatchUC := dispatchusecase.NewInteractor(dispatchSvc, alarmUC, challengeUC, scheduleUC, logger)
	silencer.Bind(dispatchUC)

	timer.Bind(func(alarmID int64, payload string) {
		// Errors are logged inside dispatch; there is nobody else to tell.
		_, _ = dispatchUC.TimerFired(context.Background(), dispatchdto.FiredInput{AlarmID: alarmID, Challenge: payload})
	})

	app.AlarmCLI = alarminadapter.NewCLIHandler(alarmUC)
	app.DispatchCLI = dispatchinadapter.NewCLIHandler(dispatchUC)
	app.ChallengeCLI = challengeinadapter.NewCLIHandler(challengeUC)
	app.IPC = dispatchinadapter.NewIPCServer(dispatchUC, alarmUC, challengeUC)
	app.SocketPath = cfg.SocketPath
	return app, nil
}

// Close releases held resources, notably the hosted sensor plugin process.
func (a *App) Close() {
	for _, closeFn := range a.closers {
		closeFn()
	}
}

func RunTUI(app *App) error {
	var feed dismissview.FeedPort
	if app.Feed != nil {
		feed = app.Feed
	}
	model := uiapp.NewModel(app.AlarmCLI, app.DispatchCLI, app.ChallengeCLI, feed)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
