package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/config"
	"github.com/abhisek/methodo/internal/logging"
	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/store"
	"github.com/abhisek/methodo/internal/user"
)

var rootCmd = &cobra.Command{
	Use:   "methodo",
	Short: "Practice structured questioning methodologies",
	Long:  "Methodo: a terminal app for learning questioning methodologies (5W2H, STAR, SCQA, ...) by practicing them on your own problems.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides METHODO_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/methodo/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(diagramCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config (or the default one)
// and applies the --db and --verbose flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// services bundles everything a command needs. Close releases the database
// and flushes the logger.
type services struct {
	cfg      *config.Config
	log      *logging.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	practice *practice.Store
	users    *user.Service
	assist   *assist.Service
}

// openServices loads configuration, builds the logger and opens the store.
// logFile routes log output to a file next to the database instead of
// stderr; the TUI uses it so log lines do not tear the frame.
func openServices(cmd *cobra.Command, logFile bool) (*services, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureDir(cfg.DB); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logOpts := logging.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level}
	if logFile {
		logOpts.OutputPaths = []string{filepath.Join(filepath.Dir(cfg.DB), "methodo.log")}
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", cfg.DB)

	provider, err := assist.NewProvider(cfg.Assist.Provider, log)
	if err != nil {
		st.Close()
		log.Sync()
		return nil, err
	}

	kv := st.KV()
	ps := practice.NewStore(kv, log)
	return &services{
		cfg:      cfg,
		log:      log,
		store:    st,
		catalog:  catalog.New(kv, log),
		practice: ps,
		users:    user.NewService(kv, ps, log),
		assist:   assist.NewService(provider, cfg.Assist.Timeout),
	}, nil
}

func (s *services) Close() error {
	err := s.store.Close()
	s.log.Sync()
	return err
}
