package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"sctl/internal/errors"
)

var (
	initForce   bool
	initHost    string
	initService string
)

// initCmd scaffolds a starter inventory and service catalog.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create starter inventory and service catalog files",
	Long: `Initialize sctl configuration in the current directory.

Walks you through your first host and service, then writes hosts.ini and
services.yaml ready for 'sctl hosts.ini services.yaml'. With --host and
--service the files are written without prompting.

Examples:
  sctl init
  sctl init --force
  sctl init --host web1.example.com --service nginx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce, initHost, initService)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	initCmd.Flags().StringVar(&initHost, "host", "", "first host address (skips prompts)")
	initCmd.Flags().StringVar(&initService, "service", "", "first service name (skips prompts)")
}

const (
	inventoryFileName = "hosts.ini"
	servicesFileName  = "services.yaml"
)

// scaffold holds the answers collected by the init form.
type scaffold struct {
	Group    string
	Host     string
	Service  string
	Files    string
	Commands string
}

func initCommand(force bool, host, service string) error {
	if !force {
		for _, name := range []string{inventoryFileName, servicesFileName} {
			if _, err := os.Stat(name); err == nil {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("File already exists: %s", name),
					"Use --force to overwrite.")
			}
		}
	}

	answers := scaffold{Group: "production", Host: host, Service: service}

	// Non-interactive path: both answers supplied via flags
	if host != "" && service != "" {
		return writeScaffold(answers)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New(errors.ErrTerm,
			"init needs an interactive terminal",
			"Run sctl init from a terminal, pass --host and --service, or write hosts.ini and services.yaml by hand.")
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Host group").
				Description("Section name in the inventory file").
				Placeholder("production").
				Value(&answers.Group).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("group is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("First host").
				Description("Hostname or IP address reachable over SSH").
				Placeholder("web1.example.com").
				Value(&answers.Host).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("host is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Service name or glob").
				Description("A systemd unit name; globs like worker-* match per host").
				Placeholder("nginx").
				Value(&answers.Service).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("service is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Config files (optional)").
				Description("Comma-separated remote paths shown in the detail view").
				Placeholder("/etc/nginx/nginx.conf").
				Value(&answers.Files),
			huh.NewInput().
				Title("Extra commands (optional)").
				Description("Comma-separated remote commands shown in the detail view").
				Placeholder("nginx -t").
				Value(&answers.Commands),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerm,
			"Failed to read answers",
			"Try again, or write hosts.ini and services.yaml by hand.")
	}

	return writeScaffold(answers)
}

func writeScaffold(answers scaffold) error {
	if err := writeInventory(answers); err != nil {
		return err
	}
	if err := writeServices(answers); err != nil {
		return err
	}

	fmt.Printf("Wrote %s and %s. Start the dashboard with:\n\n  sctl %s %s\n",
		inventoryFileName, servicesFileName, inventoryFileName, servicesFileName)
	return nil
}

func writeInventory(answers scaffold) error {
	var b strings.Builder
	b.WriteString("# sctl host inventory\n")
	b.WriteString("# One host per line; [sections] group hosts.\n\n")
	fmt.Fprintf(&b, "[%s]\n%s\n", strings.TrimSpace(answers.Group), strings.TrimSpace(answers.Host))

	if err := os.WriteFile(inventoryFileName, []byte(b.String()), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+inventoryFileName,
			"Check directory permissions.")
	}
	return nil
}

func writeServices(answers scaffold) error {
	entry := map[string]interface{}{}
	if files := splitList(answers.Files); len(files) > 0 {
		entry["files"] = files
	}
	if commands := splitList(answers.Commands); len(commands) > 0 {
		entry["commands"] = commands
	}

	doc := map[string]interface{}{
		"services": map[string]interface{}{
			strings.TrimSpace(answers.Service): entry,
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "Couldn't encode "+servicesFileName)
	}
	if err := os.WriteFile(servicesFileName, out, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+servicesFileName,
			"Check directory permissions.")
	}
	return nil
}

// splitList parses a comma-separated answer into trimmed entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
