package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/commands"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/config"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/db"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/logger"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/manifest"
)

var (
	configFlag   string
	logLevelFlag string
	noHistory    bool
)

var rootCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Compile Sam's Club liquidation manifests",
	Long: `Reads Sam's Club liquidation manifest reports, pulls the "Item list" tables
out of them and turns them into typed records.

Examples:
  manifest extract report1.csv report2.csv
  manifest categories report1.csv
  manifest export report1.csv --categories electronics,40 --output filtered.xlsx`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "parser config file (overrides CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record this run")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.Wrap(apperr.KindInvalidInput, err)
	})
}

// Execute runs the root command. Failures are written to stderr as a
// kind+message payload and the process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	data, merr := json.Marshal(apperr.ToPayload(err))
	if merr != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// app bundles everything a command needs.
type app struct {
	cfg     config.AppConfig
	parser  *config.ParserConfig
	logger  *zap.Logger
	db      *sql.DB
	history *db.History
	service *commands.Service
}

// newApp loads config, builds the logger and, unless disabled, opens the run
// history.
func newApp() (*app, error) {
	appCfg, err := config.GetAppConfig()
	if err != nil {
		return nil, err
	}
	if configFlag != "" {
		appCfg.ConfigPath = configFlag
	}
	if logLevelFlag != "" {
		appCfg.LogLevel = logLevelFlag
	}

	log, err := logger.New(appCfg.LogLevel, appCfg.LogFormat)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, err)
	}

	parserCfg, err := config.LoadParserConfig(appCfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: appCfg, parser: parserCfg, logger: log}

	var history commands.History
	if appCfg.HistoryEnabled() && !noHistory {
		database, err := db.Connect(appCfg.DBPath)
		if err != nil {
			log.Warn("run history unavailable", zap.String("db_path", appCfg.DBPath), zap.Error(err))
		} else {
			a.db = database
			a.history = db.NewHistory(database)
			history = a.history
		}
	}

	p := manifest.NewParser(parserCfg.Markers, parserCfg.LazyQuotes)
	a.service = commands.NewService(p, history, logger.Named(log, "commands"))
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}
