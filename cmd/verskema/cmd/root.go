package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/backend"
	"github.com/reoring/verskema/config"
	"github.com/reoring/verskema/i18n"
	"github.com/reoring/verskema/store"
)

// app holds what PersistentPreRunE resolved for the subcommands.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   store.Store
	backend verskema.Backend
	tr      i18n.Translator
}

// NewRootCmd builds the verskema command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "verskema",
		Short: "verskema - versioned record archives",
		Long: `verskema writes and reads versioned record archives in a textual (JSON)
or a compact binary format, reporting schema drift between revisions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	f := root.PersistentFlags()
	f.StringP("config", "c", "", "Path to a YAML config file")
	f.StringP("format", "f", "text", "Archive format ("+joinNames()+")")
	f.String("json-driver", "go-json", "JSON driver of the text format (go-json, encoding/json)")
	f.String("store", string(store.KindFile), "Archive store (file, memory, pebble)")
	f.StringP("dir", "d", "./archives", "Directory of the file or pebble store")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("lang", "en", "Language of diagnostic messages (en, ja)")

	root.AddCommand(newDemoCmd(a), newInspectCmd(a), newKeysCmd(a), newFormatsCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.log = log
	verskema.SetLogger(log)
	a.tr = i18n.New(cfg.Language)

	if !needsStore(cmd) {
		return nil
	}
	a.backend, err = backend.Select(cfg.Format, cfg.BackendOptions())
	if err != nil {
		return err
	}
	a.store, err = store.New(cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	log.Debug("store opened", zap.String("kind", cfg.Store.Kind), zap.String("path", cfg.Store.Path))
	return nil
}

// run wraps a RunE so the store is released whether or not fn fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, a.teardown())
	}
}

func (a *app) teardown() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

// resolveConfig starts from the config file (or defaults) and applies the
// flags the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := config.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("format", &cfg.Format)
	override("json-driver", &cfg.JSONDriver)
	override("store", &cfg.Store.Kind)
	override("dir", &cfg.Store.Path)
	override("log-level", &cfg.Logging.Level)
	override("lang", &cfg.Language)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func needsStore(cmd *cobra.Command) bool {
	return cmd.Annotations["store"] == "true"
}

var storeAnnotation = map[string]string{"store": "true"}

func joinNames() string {
	s := ""
	for i, n := range backend.Names() {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}
