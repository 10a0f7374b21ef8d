package ui

import (
	"context"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/benchview/benchview/assets"
	"github.com/benchview/benchview/internal/application/port"
	"github.com/benchview/benchview/internal/application/usecase"
	"github.com/benchview/benchview/internal/bridge"
	"github.com/benchview/benchview/internal/control"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/infrastructure/config"
	"github.com/benchview/benchview/internal/infrastructure/session"
	"github.com/benchview/benchview/internal/infrastructure/webkit"
	"github.com/benchview/benchview/internal/logging"
	"github.com/benchview/benchview/internal/ui/component"
	"github.com/benchview/benchview/internal/ui/coordinator"
	"github.com/benchview/benchview/internal/ui/mainloop"
	"github.com/benchview/benchview/internal/ui/window"
)

// AppID is the application identifier for GTK.
const AppID = "com.github.benchview.benchview"

// App wraps the GTK application and owns the shell's lifecycle: widget
// assembly on activation, event channel wiring, and ordered teardown.
type App struct {
	deps   *Dependencies
	gtkApp *gtk.Application

	ctx    context.Context
	cancel context.CancelFunc

	mainWindow *window.MainWindow
	settings   *component.SettingsView
	bar        *component.ControlBar
	camera     *webkit.CameraFeed
	panelView  *webkit.WebView

	surface   port.PanelSurface
	workspace *usecase.WorkspaceUseCase
	overlay   *coordinator.OverlayController

	client     *bridge.Client
	dispatcher *control.Dispatcher
	adjuster   *control.Adjuster
	console    *control.ConsoleClient
	saver      *session.Saver

	coalescer *mainloop.Coalescer

	shutdownOnce sync.Once
}

// New creates the App. Widgets are not built until the GTK application
// activates.
func New(deps *Dependencies) (*App, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(deps.Ctx)
	log := logging.FromContext(ctx)

	a := &App{
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
		coalescer: mainloop.NewCoalescer(mainloop.Post),
	}

	// The client exists before the dispatcher so the workspace can hold
	// its endpoint setter; no command arrives until Connect, which runs
	// after activation finishes wiring.
	a.client = bridge.NewClient(*log, func(cmd bridge.Command) {
		if d := a.dispatcher; d != nil {
			d.Dispatch(cmd)
		}
	})

	return a, nil
}

// Run starts the GTK application and blocks until it exits. Returns the
// process exit code. Must be called from the locked main thread.
func (a *App) Run() int {
	log := logging.FromContext(a.ctx)

	a.gtkApp = gtk.NewApplication(AppID, gio.ApplicationFlagsNone)
	a.gtkApp.ConnectActivate(func() {
		if err := a.activate(); err != nil {
			log.Error().Err(err).Msg("shell activation failed")
			a.gtkApp.Quit()
		}
	})

	code := a.gtkApp.Run(nil)
	a.shutdown()
	return code
}

// Quit stops the GTK main loop. Safe from any goroutine.
func (a *App) Quit() {
	mainloop.Post(func() {
		if a.gtkApp != nil {
			a.gtkApp.Quit()
		}
	})
}

// activate builds the widget tree and wires the components. Runs on the
// GTK main loop.
func (a *App) activate() error {
	cfg := a.deps.Config
	log := logging.FromContext(a.ctx)

	initial, restoreVisible := a.initialLayout()

	a.bar = component.NewControlBar(cfg.Window.ControlBarHeight)

	camera, err := webkit.NewCameraFeed(*log, assets.Camera)
	if err != nil {
		return err
	}
	a.camera = camera

	a.mainWindow, err = window.New(a.ctx, a.gtkApp, window.Config{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		DockSide:  initial.DockSide,
		Fraction:  initial.PanelFraction(),
		TopOffset: initial.ControlBarOffset,
	}, a.bar, camera.AsWidget())
	if err != nil {
		return err
	}

	a.panelView, err = webkit.NewWebView(*log, webkit.PanelConfig())
	if err != nil {
		return err
	}

	hostSurface := cfg.Panel.Mode != config.PanelModeInline
	if hostSurface {
		dock := a.mainWindow.NewOverlayDock(a.panelView.AsWidget())
		a.surface = webkit.NewOverlaySurface(*log, a.panelView, dock)
	} else {
		dock := a.mainWindow.NewInlineDock(a.panelView.AsWidget())
		a.surface = webkit.NewInlineSurface(*log, a.panelView, dock)
	}

	a.workspace = usecase.NewWorkspaceUseCase(a.surface, a.client, usecase.WorkspaceConfig{
		Initial:        initial,
		BridgeEndpoint: cfg.Bridge.Endpoint,
		MockEndpoint:   cfg.Bridge.MockEndpoint,
		MockMode:       cfg.Bridge.MockMode,
	})

	a.console = control.NewConsoleClient(*log, cfg.Bridge.ConsoleEndpoint)
	a.adjuster = control.NewAdjuster(*log, a.console, 0)
	a.adjuster.Start(a.ctx)

	steps := &stepDisplay{bar: a.bar, coalescer: a.coalescer, log: log.With().Str("component", "steps").Logger()}
	a.dispatcher = control.NewDispatcher(*log, a.workspace, steps, a.adjuster)
	a.dispatcher.Start(a.ctx)

	a.settings = component.NewSettingsView()
	a.mainWindow.SetSettingsLayer(a.settings.Widget())
	a.overlay = coordinator.NewOverlayController(*log, a.workspace, a.surface, a.mainWindow, hostSurface)

	a.saver = session.NewSaver(a.deps.SnapshotUC, a.workspace.Layout, cfg.Session.SnapshotIntervalMs)
	a.saver.Start(a.ctx)
	a.workspace.OnChange(func(entity.LayoutState) { a.saver.MarkDirty() })

	a.wireControlBar()
	a.wireSettings()
	a.wireWindow()
	a.wireChannel()
	a.wireConfigWatch()

	if err := camera.Start(a.ctx, cfg.Camera.DeviceHint); err != nil {
		log.Warn().Err(err).Msg("camera feed failed to start")
	}

	a.mainWindow.Present()
	a.workspace.Connect()

	if restoreVisible {
		a.guard(func() {
			if err := a.workspace.SetURLAndShow(a.ctx, ""); err != nil {
				log.Warn().Err(err).Msg("session restore could not show panel")
				return
			}
			log.Info().Str("url", logging.TruncateURL(a.panelView.URI(), 120)).Msg("restored panel visible")
		})
	}

	log.Info().
		Bool("host_surface", hostSurface).
		Str("dock_side", string(initial.DockSide)).
		Msg("shell activated")
	return nil
}

// initialLayout seeds the layout from config, overlaid with the restored
// session when one exists. Visibility is restored through the normal show
// path after wiring, never by flipping state before the surface exists.
func (a *App) initialLayout() (entity.LayoutState, bool) {
	cfg := a.deps.Config

	state := entity.NewLayoutState()
	if side, ok := entity.ParseDockSide(cfg.Panel.DockSide); ok {
		state.DockSide = side
	}
	state.SetSplit(cfg.Panel.WorkspaceSplit)
	state.SetPanelURL(cfg.Panel.DefaultURL)
	state.SetControlBarOffset(cfg.Window.ControlBarHeight)

	restoreVisible := false
	if s := a.deps.RestoredSession; s != nil {
		s.ApplyTo(&state)
		restoreVisible = state.PanelVisible
		state.PanelVisible = false
	}
	return state, restoreVisible
}

// guard runs fn on a worker goroutine, logging panics before they take
// the process down. Surface calls block on the rendering domain, so UI
// callbacks hop through here instead of running on the main loop.
func (a *App) guard(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.LogPanic(*logging.FromContext(a.ctx), r)
			}
		}()
		fn()
	}()
}

// persistSettings writes runtime-adjusted settings back to the config
// file. Best-effort: the live state is authoritative either way.
func (a *App) persistSettings(mutate func(*config.Config)) {
	mgr := a.deps.ConfigManager
	if mgr == nil {
		return
	}
	cfg := mgr.Get()
	mutate(cfg)
	if err := mgr.Save(cfg); err != nil {
		logging.FromContext(a.ctx).Warn().Err(err).Msg("could not persist settings")
	}
}

func (a *App) wireControlBar() {
	a.bar.OnSettings(func() {
		layout := a.workspace.Layout()
		a.settings.SetValues(layout.PanelURL, a.client.Endpoint(), a.workspace.MockMode())
		a.guard(func() { a.overlay.Open(a.ctx) })
	})
}

func (a *App) wireSettings() {
	a.settings.OnClose(func() {
		a.guard(func() { a.overlay.Close(a.ctx) })
	})
	a.settings.OnOpenURL(func(raw string) {
		a.guard(func() {
			a.overlay.Close(a.ctx)
			if err := a.workspace.SetURLAndShow(a.ctx, raw); err != nil {
				logging.FromContext(a.ctx).Warn().Err(err).Str("url", raw).Msg("open from settings failed")
				return
			}
			landed := a.workspace.Layout().PanelURL
			a.persistSettings(func(c *config.Config) { c.Panel.DefaultURL = landed })
		})
	})
	a.settings.OnEndpoint(func(endpoint string) {
		a.guard(func() {
			_ = a.workspace.SetBridgeEndpoint(a.ctx, endpoint)
			a.persistSettings(func(c *config.Config) { c.Bridge.Endpoint = endpoint })
		})
	})
	a.settings.OnMock(func(enabled bool) {
		a.guard(func() {
			_ = a.workspace.SetMockMode(a.ctx, enabled)
			a.persistSettings(func(c *config.Config) { c.Bridge.MockMode = enabled })
		})
	})
}

func (a *App) wireWindow() {
	a.mainWindow.OnDividerDragged(func(split float64) {
		a.workspace.SetSplitFromDrag(a.ctx, split)
	})
	a.workspace.OnChange(func(state entity.LayoutState) {
		a.mainWindow.SetDockSide(state.DockSide)
	})
	a.mainWindow.OnCloseRequest(func() {
		a.Quit()
	})
}

func (a *App) wireChannel() {
	a.client.OnStateChange(func(state bridge.ConnectionState) {
		a.coalescer.Schedule(mainloop.TaskStatusRefresh, func() {
			a.bar.SetConnection(state)
		})
	})
	a.panelView.OnURIChanged(func(u string) {
		a.deps.RecordNavUC.Record(a.ctx, u)
	})
}

// wireConfigWatch re-applies runtime-editable config values through the
// same entry points the remote commands use.
func (a *App) wireConfigWatch() {
	mgr := a.deps.ConfigManager
	if mgr == nil {
		return
	}

	log := logging.FromContext(a.ctx)
	mgr.OnConfigChange(func(cfg *config.Config) {
		a.console.SetEndpoint(cfg.Bridge.ConsoleEndpoint)
		a.guard(func() {
			_ = a.workspace.SetBridgeEndpoint(a.ctx, cfg.Bridge.Endpoint)
			a.workspace.SetControlBarOffset(a.ctx, cfg.Window.ControlBarHeight)
		})
	})
	if err := mgr.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}
}

// shutdown tears the shell down in dependency order: stop inbound
// commands first, then flush outbound state.
func (a *App) shutdown() {
	a.shutdownOnce.Do(func() {
		log := logging.FromContext(a.ctx)

		a.client.Close()
		if a.adjuster != nil {
			a.adjuster.Stop()
		}
		if a.camera != nil {
			_ = a.camera.Stop(a.ctx)
		}
		if a.saver != nil {
			if err := a.saver.Stop(a.ctx); err != nil {
				log.Warn().Err(err).Msg("final layout save failed")
			}
		}
		a.coalescer.Close()
		a.cancel()

		log.Debug().Msg("shell shutdown complete")
	})
}

// stepDisplay surfaces repair-flow steps in the control bar. The flow
// logic lives in the controller; the shell only shows where it is.
type stepDisplay struct {
	bar       *component.ControlBar
	coalescer *mainloop.Coalescer
	log       zerolog.Logger
}

func (s *stepDisplay) TriggerStep(_ context.Context, step string) error {
	s.log.Info().Str("step", step).Msg("repair step")
	s.coalescer.Schedule(mainloop.TaskStepLabel, func() {
		s.bar.SetStep(step)
	})
	return nil
}
