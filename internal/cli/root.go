// Package cli wires configuration loading, logging, and the dashboard
// into the sctl command tree.
package cli

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sctl/internal/config"
	"sctl/internal/dashboard"
	"sctl/internal/errors"
	"sctl/internal/logger"
)

// Root flags
var (
	userFlag           string
	logFlag            string
	configFlag         string
	connectTimeoutFlag string
)

// rootCmd launches the dashboard over an inventory and a service catalog.
var rootCmd = &cobra.Command{
	Use:   "sctl <inventory> <services>",
	Short: "Fleet service dashboard over SSH",
	Long: `Monitor named systemd services across a fleet of SSH-reachable hosts.

sctl probes every host in the inventory, expands service name globs
against each host's live unit list, and shows a triage-sorted dashboard:
unreachable hosts and failed services come first. From there you can view
logs and config files, stop or restart a service, or drop into a shell on
the host.

Examples:
  sctl hosts.ini services.yaml
  sctl --user deploy hosts.ini services.yaml
  sctl --log /tmp/sctl.log hosts.ini services.yaml`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(args[0], args[1])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "settings file path")
	rootCmd.Flags().StringVar(&userFlag, "user", "", "SSH login user (qualifies targets as user@host)")
	rootCmd.Flags().StringVar(&logFlag, "log", "", "write diagnostic logs to this file")
	rootCmd.Flags().StringVar(&connectTimeoutFlag, "connect-timeout", "", "SSH connect timeout (e.g., 2s, 500ms)")
}

// Execute runs the root command and prints structured errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings merges the settings file (if any) with command-line flags;
// flags win.
func loadSettings() (config.Settings, error) {
	path, err := config.FindSettings(configFlag)
	if err != nil {
		return config.Settings{}, err
	}

	settings := config.DefaultSettings()
	if path != "" {
		settings, err = config.LoadSettings(path)
		if err != nil {
			return config.Settings{}, err
		}
	}

	if userFlag != "" {
		settings.User = userFlag
	}
	if logFlag != "" {
		settings.Log = logFlag
	}
	if connectTimeoutFlag != "" {
		d, err := time.ParseDuration(connectTimeoutFlag)
		if err != nil {
			return config.Settings{}, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' doesn't look like a valid timeout", connectTimeoutFlag),
				"Try something like 2s or 500ms.")
		}
		settings.ConnectTimeout = d
	}

	return settings, nil
}

// buildLogger sets up file logging when a log path is configured.
func buildLogger(settings config.Settings) (logger.Logger, error) {
	if settings.Log == "" {
		return logger.Noop(), nil
	}
	return logger.NewFileLogger(settings.Log)
}

func runDashboard(inventoryPath, servicesPath string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	hosts, err := config.LoadInventory(inventoryPath)
	if err != nil {
		return err
	}
	services, err := config.LoadServices(servicesPath)
	if err != nil {
		return err
	}

	log, err := buildLogger(settings)
	if err != nil {
		return err
	}
	logger.SetDefault(log)
	log.Info("sctl starting: %d hosts, %d service configs", len(hosts), len(services))

	backend := dashboard.NewBackend(settings.User, settings.ConnectTimeout, log)
	model := dashboard.NewModel(backend, hosts, services, settings.User, settings.Viewer, log)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerm,
			"The dashboard terminated unexpectedly",
			"Your terminal may need a reset; try running 'reset'.")
	}

	log.Info("sctl exiting")
	return nil
}
