package main

import (
	"context"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/datanauts/genie-chat/internal/auth"
	"github.com/datanauts/genie-chat/internal/config"
	"github.com/datanauts/genie-chat/internal/genie"
	"github.com/datanauts/genie-chat/internal/logger"
	"github.com/datanauts/genie-chat/internal/session"
	"github.com/datanauts/genie-chat/internal/tui"
)

const fxStartTimeout = 5 * time.Second

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "genie-chat",
	Short: "A terminal chat client for Databricks Genie",
	Long: `Genie Chat is a terminal chatbot for the Databricks Genie API.
Sign in with your Microsoft account via the device-code flow, then ask
natural-language questions about your data and get answers as tables.`,
	Run: runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

// runChat wires the application together and runs the TUI
func runChat(cmd *cobra.Command, args []string) {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(&cfg.Logging); err != nil {
		pterm.Error.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var (
		flow   *auth.Flow
		client *genie.Client
	)

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			func(c *config.Config) *config.AzureConfig { return &c.Azure },
			func(c *config.Config) *config.GenieConfig { return &c.Genie },
		),
		auth.Module,
		genie.Module,
		fx.Populate(&flow, &client),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), fxStartTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		pterm.Error.Printf("Failed to start application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), fxStartTimeout)
		defer stopCancel()
		_ = app.Stop(stopCtx)
	}()

	sess := session.New()
	defer sess.Teardown()

	p := tea.NewProgram(tui.NewAppModel(cfg, flow, client, sess), tea.WithAltScreen())

	m, err := p.Run()
	if err != nil {
		pterm.Error.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	finalModel := m.(tui.AppModel)
	if identity := finalModel.Identity(); identity != nil {
		pterm.Info.Printfln("Signed out %s. Goodbye!", pterm.LightGreen(identity.DisplayName))
	}
}
