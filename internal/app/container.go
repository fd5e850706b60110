package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/doeshing/phoenix-go/internal/application/actions"
	configapp "github.com/doeshing/phoenix-go/internal/application/config"
	"github.com/doeshing/phoenix-go/internal/application/dispatch"
	"github.com/doeshing/phoenix-go/internal/application/doctor"
	"github.com/doeshing/phoenix-go/internal/application/engine"
	"github.com/doeshing/phoenix-go/internal/application/listener"
	"github.com/doeshing/phoenix-go/internal/application/registry"
	"github.com/doeshing/phoenix-go/internal/application/session"
	appsettings "github.com/doeshing/phoenix-go/internal/application/settings"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/infrastructure/automation"
	"github.com/doeshing/phoenix-go/internal/infrastructure/bridge"
	"github.com/doeshing/phoenix-go/internal/infrastructure/config"
	"github.com/doeshing/phoenix-go/internal/infrastructure/executor"
	"github.com/doeshing/phoenix-go/internal/infrastructure/history"
	"github.com/doeshing/phoenix-go/internal/infrastructure/security"
	settingsstore "github.com/doeshing/phoenix-go/internal/infrastructure/settings"
	"github.com/doeshing/phoenix-go/internal/infrastructure/speech"
	"github.com/doeshing/phoenix-go/internal/pkg/filesystem"
	"github.com/doeshing/phoenix-go/internal/pkg/logger"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Options tunes how the container is built.
type Options struct {
	Verbose    bool
	ConfigPath string
	Version    string
	Stdin      io.Reader
	Stdout     io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	Logger         ports.Logger
	Registry       *registry.Registry
	Dispatcher     *dispatch.Service
	Engine         *engine.Service
	SettingsStore  ports.SettingsStore
	Settings       *appsettings.Service
	HistoryStore   ports.HistoryRepository
	Guardrail      ports.SecurityService
	Runtime        ports.ActionRuntime
	SpeechInput    ports.SpeechInput
	Hub            *bridge.Hub
	Bridge         *bridge.Server
	DoctorService  *doctor.Service
	Version        string
	closers        []io.Closer
	logFile        io.Closer
}

// BuildContainer constructs the dependency graph. Nothing starts running here.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := configapp.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgLoader.Path(), err)
	}
	baseDir := filepath.Dir(cfgLoader.Path())

	log := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Verbose: opts.Verbose,
	})

	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Version:      opts.Version,
		logFile:      log,
	}

	c.Guardrail, err = buildGuardrail(cfg, log)
	if err != nil {
		return nil, err
	}
	c.HistoryStore = c.buildHistory(cfg, baseDir, log)

	exec := executor.NewLocalExecutor(cfg.Execution.Shell, cfg.Execution.DryRun, log)
	c.Runtime = automation.New(exec, log, automation.Options{})

	c.SettingsStore = settingsstore.NewJSONStore(cfg.SettingsFile)
	c.Settings = appsettings.NewService(c.SettingsStore, log)
	if _, err := c.Settings.Load(ctx); err != nil {
		log.Warn("continuing with default settings", map[string]interface{}{"error": err.Error()})
	}

	c.SpeechInput = buildSpeechInput(cfg, exec, c.Settings, opts.Stdin)
	speaker := buildSpeaker(cfg, exec, opts.Stdout)

	browseRoot := cfg.Session.BrowseRoot
	if browseRoot == "" {
		browseRoot = defaultBrowseRoot()
	}
	machine := session.NewMachine(c.Runtime, session.Options{
		BrowseRoot:           browseRoot,
		ResetBrowsingOnSleep: cfg.Session.ResetBrowsingOnSleep,
		MapsURL:              cfg.Session.MapsURL,
	})

	home := filesystem.UserHomeDir()
	var listen *listener.Service
	c.Registry = registry.New()
	if err := actions.Register(c.Registry, actions.Deps{
		Runtime:       c.Runtime,
		Session:       machine,
		AssistantName: cfg.GetAssistantName(),
		SearchURL:     cfg.Session.SearchURL,
		HomeDir:       home,
		StopListening: func() bool { return listen != nil && listen.Stop() },
	}); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}

	c.Hub = bridge.NewHub(log)
	c.Dispatcher, err = dispatch.New(dispatch.Options{
		Registry:      c.Registry,
		Session:       machine,
		Recent:        session.NewRecentLog(domain.RecentCommandCapacity),
		Settings:      c.Settings,
		Speaker:       speaker,
		Security:      c.Guardrail,
		History:       c.HistoryStore,
		Events:        c.Hub,
		Logger:        log,
		AssistantName: cfg.GetAssistantName(),
	})
	if err != nil {
		return nil, err
	}

	listen = listener.New(listener.Options{
		Input:         c.SpeechInput,
		Dispatcher:    c.Dispatcher,
		Settings:      c.Settings,
		Logger:        log,
		Timeout:       cfg.GetListenTimeout(),
		PhraseLimit:   cfg.GetPhraseLimit(),
		ErrorBackoff:  cfg.GetErrorBackoff(),
		AssistantName: cfg.GetAssistantName(),
	})

	c.Engine = &engine.Service{
		Dispatcher: c.Dispatcher,
		Listener:   listen,
		Settings:   c.Settings,
		Input:      c.SpeechInput,
		Logger:     log,
	}

	perSecond, burst := cfg.GetBridgeRateLimit()
	c.Bridge, err = bridge.NewServer(c.Engine, log,
		bridge.WithHub(c.Hub),
		bridge.WithRateLimit(perSecond, burst),
		bridge.WithRequestTimeout(domain.DefaultRequestTimeout),
		bridge.WithVersion(opts.Version),
	)
	if err != nil {
		return nil, err
	}

	c.DoctorService = &doctor.Service{
		ConfigProvider:  cfgLoader,
		SettingsStore:   c.SettingsStore,
		SecurityService: c.Guardrail,
		SpeechInput:     c.SpeechInput,
		HistoryStore:    c.HistoryStore,
		Runtime:         c.Runtime,
		Registry:        c.Registry,
	}
	return c, nil
}

// NewSettingsWatcher reloads settings whenever settings.json changes on disk.
func (c *Container) NewSettingsWatcher(ctx context.Context) (*settingsstore.Watcher, error) {
	return settingsstore.NewWatcher(c.SettingsStore.Path(), c.Logger, func() {
		c.Settings.Reload(ctx)
	})
}

// Close stops the listener and releases stores.
func (c *Container) Close() error {
	if c.Engine != nil {
		c.Engine.Close()
	}
	var first error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func buildGuardrail(cfg domain.Config, log ports.Logger) (ports.SecurityService, error) {
	if err := security.EnsureRulesFile(cfg.Security.RulesFile); err != nil {
		log.Warn("cannot write default guardrail rules", map[string]interface{}{"error": err.Error()})
	}
	guardrail, err := security.NewGuardrail(cfg.Security.RulesFile, cfg.IsSecurityEnabled())
	if err != nil {
		log.Error("guardrail rules invalid, using built-in rules", err, map[string]interface{}{"path": cfg.Security.RulesFile})
		guardrail, err = security.NewDefaultGuardrail(cfg.IsSecurityEnabled())
		if err != nil {
			return nil, err
		}
	}
	return guardrail, nil
}

func (c *Container) buildHistory(cfg domain.Config, baseDir string, log ports.Logger) ports.HistoryRepository {
	dir := filepath.Join(baseDir, "history")
	if cfg.UsesSQLiteHistory() {
		store, err := history.NewSQLiteStore(filepath.Join(dir, "history.db"))
		if err == nil {
			c.closers = append(c.closers, store)
			return store
		}
		log.Error("sqlite history unavailable, falling back to jsonl", err, nil)
	}
	return history.NewFileStore(filepath.Join(dir, "history.jsonl"))
}

func buildSpeechInput(cfg domain.Config, exec ports.CommandExecutor, settings *appsettings.Service, stdin io.Reader) ports.SpeechInput {
	if cfg.Speech.Input != domain.SpeechInputRecorder {
		return speech.NewConsoleInput(stdin)
	}
	apiKey := ""
	if cfg.Speech.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.Speech.APIKeyEnv)
	}
	transcriber := speech.NewWhisperTranscriber(cfg.Speech.TranscriberEndpoint, apiKey, cfg.Speech.Model)
	device := func() string { return settings.Current().SelectedMicrophone }
	return speech.NewRecorderInput(exec, cfg.Speech.RecorderCommand, cfg.Speech.ListCommand, device, transcriber)
}

func buildSpeaker(cfg domain.Config, exec ports.CommandExecutor, stdout io.Writer) ports.SpeechOutput {
	switch cfg.Speech.Output {
	case domain.SpeechOutputCommand:
		return speech.NewCommandSpeaker(exec, cfg.Speech.TTSCommand)
	case domain.SpeechOutputNone:
		return speech.Silent{}
	default:
		return speech.NewConsoleSpeaker(stdout)
	}
}

func defaultBrowseRoot() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}
