package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	standardlogger "github.com/klugman-yanai/standard-logger"
)

var (
	flagPlain      bool
	flagSimpleTB   bool
	flagNoFile     bool
	flagFilePath   string
	flagText       bool
	flagLevel      string
	flagShowLocals bool
	flagPanic      bool
)

var rootCmd = &cobra.Command{
	Use:   "standard-logger-demo",
	Short: "Showcase the standardlogger facade",
	Long:  "Runs through severity methods, extra data, panels, rules, progress tracking, and exception logging with the configured renderer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := standardlogger.DefaultConfig()
		cfg.AppName = "StandardLoggerDemo"
		cfg.ConsoleLevel = flagLevel
		cfg.UseRichConsole = !flagPlain
		cfg.UseSimpleTracebacks = flagSimpleTB
		cfg.ShowLocalsOnException = flagShowLocals
		cfg.LogFileSerialize = !flagText
		switch {
		case flagNoFile:
			cfg.LogFilePath = standardlogger.FileDisabled
		case flagFilePath != "":
			cfg.LogFilePath = flagFilePath
		}

		enabled, path, err := standardlogger.Setup(cfg)
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}

		log := standardlogger.New("demo")
		log.Infof("file logging enabled: %v path: %s", enabled, path)

		runDemo(log)

		if flagPanic {
			defer standardlogger.RecoverPanic()
			panic("demo panic requested via --panic")
		}

		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&flagPlain, "plain", false, "Use the plain console renderer instead of pterm")
	rootCmd.Flags().BoolVar(&flagSimpleTB, "simple-tracebacks", false, "Render tracebacks without decoration")
	rootCmd.Flags().BoolVar(&flagNoFile, "no-file", false, "Disable file logging")
	rootCmd.Flags().StringVar(&flagFilePath, "file", "", "Explicit log file path (default: auto-generated)")
	rootCmd.Flags().BoolVar(&flagText, "text", false, "Write the log file as templated text instead of JSON lines")
	rootCmd.Flags().StringVar(&flagLevel, "log-level", "debug", "Console level (trace, debug, info, warn, error, fatal)")
	rootCmd.Flags().BoolVar(&flagShowLocals, "show-locals", false, "Verbose traceback frames")
	rootCmd.Flags().BoolVar(&flagPanic, "panic", false, "End the demo with a panic routed through RecoverPanic")
}

func runDemo(log *standardlogger.Logger) {
	log.Rule("Severity methods")
	log.Debug("debug message")
	log.Info("plain info message")
	log.Infof("info with formatting: %s=%d", "value", 100)
	log.Warn("a warning occurred")
	log.WithExtra(standardlogger.Extra{"data_id": 12345}).Error("error processing data")

	log.Rule("Extra data", standardlogger.WithAlign(standardlogger.AlignLeft))
	req := log.WithExtra(standardlogger.Extra{"request_id": "r-188", "user": "demo"})
	req.Info("request accepted")
	req.WithExtra(standardlogger.Extra{"elapsed_ms": 42}).Info("request served")

	log.Rule("Panels")
	log.Panel("Processing complete!", standardlogger.WithTitle("Status"))
	log.Panel("Short panel that hugs its content.", standardlogger.WithTitle("Compact"), standardlogger.Compact())
	log.Panel(pterm.TableData{
		{"Component", "Usage"},
		{"CPU", "75%"},
		{"Memory", "1.2 GB"},
	}, standardlogger.WithTitle("System Metrics"), standardlogger.Compact())

	log.Rule("Progress")
	runProgressDemo(log)

	log.Rule("Exceptions", standardlogger.WithAlign(standardlogger.AlignRight))
	if err := readConfig("/nonexistent/app.conf"); err != nil {
		log.Exception(err, "configuration load failed")
	}
	log.ShowLocals(true).Exception(errors.New("synthetic failure"), "demonstrating verbose frames")

	log.Info("demo finished")
}

func runProgressDemo(log *standardlogger.Logger) {
	p := log.Progress(standardlogger.WithDescription("Crunching records"))
	defer p.Stop()

	id := p.AddTask("Crunching records", 40)
	for i := 0; i < 40; i += 8 {
		p.Update(id, standardlogger.Advance(8))
		time.Sleep(60 * time.Millisecond)
	}

	// Indeterminate phase: no total, spinner only.
	id = p.AddTask("Waiting for downstream", -1)
	for i := 0; i < 5; i++ {
		p.Update(id, standardlogger.Description(fmt.Sprintf("Waiting for downstream (%d)", i+1)))
		time.Sleep(120 * time.Millisecond)
	}
}

func readConfig(path string) error {
	return errors.Wrapf(errors.New("permission denied"), "open %s", path)
}
