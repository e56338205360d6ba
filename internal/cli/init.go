package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"sysglance/internal/config"
	"sysglance/internal/errors"
)

// initCommand creates a sysglance.yaml in the current directory,
// prompting for the settings people actually change and leaving the
// rest at defaults.
func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	services := strings.Join(cfg.Services, ", ")
	refresh := strconv.FormatFloat(cfg.RefreshRate, 'f', -1, 64)
	logLimit := strconv.Itoa(cfg.LogLimit)
	severity := cfg.LogSeverity
	webAddr := cfg.Web.Addr

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Services to monitor").
				Description("Comma-separated systemd unit names").
				Placeholder("ssh.service, cron.service").
				Value(&services).
				Validate(func(s string) error {
					if len(splitServices(s)) == 0 {
						return fmt.Errorf("at least one service is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh rate (seconds)").
				Description("How often to sample metrics, services, and logs").
				Value(&refresh).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive number of seconds")
					}
					return nil
				}),
			huh.NewInput().
				Title("Log lines to show").
				Value(&logLimit).
				Validate(func(s string) error {
					v, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive whole number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Minimum log severity").
				Options(
					huh.NewOption("error", "error"),
					huh.NewOption("critical", "critical"),
					huh.NewOption("warning", "warning"),
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
				).
				Value(&severity),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Web dashboard address").
				Description("Listen address for 'sysglance serve'").
				Placeholder(":8050").
				Value(&webAddr).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("address is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Re-run 'sysglance init' or write sysglance.yaml by hand")
	}

	cfg.Services = splitServices(services)
	cfg.RefreshRate, _ = strconv.ParseFloat(strings.TrimSpace(refresh), 64)
	cfg.LogLimit, _ = strconv.Atoi(strings.TrimSpace(logLimit))
	cfg.LogSeverity = severity
	cfg.Web.Addr = strings.TrimSpace(webAddr)

	if err := config.WriteFile(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("Run 'sysglance' to start the console dashboard.")
	return nil
}

// splitServices parses a comma-separated unit list, dropping blanks.
func splitServices(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
