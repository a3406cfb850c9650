package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docqa/internal/tui"
	"docqa/internal/watch"
)

var (
	configPath string
	logLevel   string
	watchFile  bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "docqa [file]",
		Short:        "Ask questions against a numbered Q&A document",
		Long:         "docqa loads a PDF, DOCX, TXT, XLS or XLSX file of numbered \"N. Question?\\nAnswer\" pairs and answers free-text questions with the closest pair.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runTUI,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ./config.yaml, then ~/.config/docqa/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	root.Flags().BoolVar(&watchFile, "watch", false, "reload the file whenever it changes on disk")

	root.AddCommand(askCmd())
	root.AddCommand(formatsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	opts := tui.Options{Formats: a.registry.Supported()}
	if len(args) == 1 {
		opts.InitialPath = args[0]
		if watchFile {
			w, err := watch.NewFileWatcher(args[0], time.Duration(a.cfg.Watch.DebounceMillis)*time.Millisecond, a.logger)
			if err != nil {
				return err
			}
			defer w.Stop()
			changes, err := w.Watch(ctx)
			if err != nil {
				return err
			}
			opts.Changes = changes
		}
	} else if watchFile {
		return fmt.Errorf("--watch needs a file argument")
	}

	m := tui.New(ctx, a.service, opts)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		a.logger.Error("TUI exited", zap.Error(err))
		return err
	}
	return nil
}
