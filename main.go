package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"paperhub/config"
	"paperhub/extract"
	appmodel "paperhub/model"
	"paperhub/provider"
	"paperhub/storage"
	"paperhub/ui"
	"paperhub/worker"
)

const Version = "v0.01.00"

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "paperhub",
	Short: "Research tools directory and paper assistant for the terminal",
	Long: `PaperHub is a catalog of research tools with comments and likes, a desk
with deadlines, a focus timer and notes, and a chat assistant that can answer
questions about an attached paper.

Run without a subcommand to start the terminal UI.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a debug log to <data_dir>/debug.log")

	rootCmd.AddCommand(serveCmd, toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return showFatal("Configuration Error", err.Error())
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir(), debugFlag)

	prefs, err := storage.LoadPrefs(cfg.DataDir())
	if err != nil {
		return showFatal("Preferences Error", err.Error())
	}

	store, err := openStore(cfg)
	if err != nil {
		return showFatal("Data Store Error", err.Error())
	}
	defer store.Close()

	// The worker reports load progress from its own goroutine; the model
	// forwards it to the event loop once it exists.
	var m *appmodel.Model
	p, err := provider.FromConfig(cfg, func(pr worker.Progress) {
		if m != nil {
			m.ReportProgress(pr.Percent, pr.Text)
		}
	})
	if err != nil {
		return showFatal("Chat Backend Error", err.Error())
	}
	if c, ok := p.(interface{ Close() }); ok {
		defer c.Close()
	}

	m = appmodel.NewModel(cfg, p, store, prefs, extract.New(cfg.Chat.MaxAttachmentChars), Version)
	defer m.Close()

	program := tea.NewProgram(ui.NewAppView(m), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running paperhub: %w", err)
	}
	return nil
}

// openStore returns the comments and likes backend for cfg.Store.Mode.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store.Mode {
	case "local":
		s, err := storage.NewSQLiteStore(cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return storage.NewRemoteStore(cfg.Store.URL, nil), nil
	}
}

// showFatal shows msg in a modal until dismissed, then exits non-zero.
func showFatal(title, msg string) error {
	if _, err := tea.NewProgram(ui.NewErrorModal(title, msg), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return fmt.Errorf("%s: %s", title, msg)
}
