package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"github.com/authsmoke-io/authsmoke/internal/browser"
	"github.com/authsmoke-io/authsmoke/internal/config"
	"github.com/authsmoke-io/authsmoke/internal/fixture"
	"github.com/authsmoke-io/authsmoke/internal/preflight"
	"github.com/authsmoke-io/authsmoke/internal/scenario"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "authsmoke",
	Short: "Browser smoke tests for login flows",
	Long: `authsmoke drives a real browser through a login flow and checks
the outcome. It ships a hermetic fixture site for offline runs and a
preflight prober for cheap diagnosis before a browser is launched.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision the browser driver under the vendor directory",
	Long: `Install downloads the Playwright driver and the configured browser
into the driver directory (by default ./vendor), the location the
harness checks before starting any session.`,
	RunE: runInstall,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check driver installation and probe the target login page",
	RunE:  runDoctor,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hermetic login fixture site",
	RunE:  runServe,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the login scenario once against the configured target",
	RunE:  runScenario,
}

var (
	addrFlag   string
	usersFlag  string
	secretFlag string
)

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8080", "Listen address for the fixture site")
	serveCmd.Flags().StringVar(&usersFlag, "users", "", "YAML credential file (username: bcrypt hash); defaults to the built-in demo user")
	serveCmd.Flags().StringVar(&secretFlag, "secret", "", "Session cookie signing secret; generated when empty")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := os.MkdirAll(cfg.Browser.DriverDir, 0o755); err != nil {
		return fmt.Errorf("creating driver dir: %w", err)
	}
	fmt.Printf("Installing %s driver into %s...\n", cfg.Browser.Name, cfg.Browser.DriverDir)
	err := playwright.Install(&playwright.RunOptions{
		DriverDirectory: cfg.Browser.DriverDir,
		Browsers:        []string{cfg.Browser.Name},
	})
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	fmt.Println("Driver installed.")
	return nil
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	failed := false

	if info, err := os.Stat(cfg.Browser.DriverDir); err != nil || !info.IsDir() {
		fmt.Printf("driver dir %s: MISSING (run 'authsmoke install')\n", cfg.Browser.DriverDir)
		failed = true
	} else {
		fmt.Printf("driver dir %s: ok\n", cfg.Browser.DriverDir)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	report, err := preflight.Probe(ctx, cfg.LoginURL())
	if err != nil {
		fmt.Printf("target: %v\n", err)
		failed = true
	} else {
		fmt.Printf("target: %s\n", report)
		if !report.OK() {
			failed = true
		}
	}

	if failed {
		return errors.New("doctor found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	var users *fixture.UserStore
	var err error
	if usersFlag != "" {
		users, err = fixture.LoadUserStore(usersFlag)
	} else {
		users, err = fixture.NewUserStore(cfg.Target.Username, cfg.Target.Password)
	}
	if err != nil {
		return err
	}
	defer users.Close()

	secret := secretFlag
	if secret == "" {
		secret = fixture.RandomSecret()
	}

	log.Printf("[fixture] serving login site on %s", addrFlag)
	return fixture.New(users, secret).Run(addrFlag)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	sess, err := browser.Acquire(cfg.SessionOptions())
	if err != nil {
		return err
	}
	defer sess.Close()

	page, err := scenario.Login(sess, cfg)
	if err != nil {
		return err
	}

	if !page.SuccessMessagePresent() {
		return fmt.Errorf("login did not reach the secure area (now at %s, flash %q)",
			page.CurrentURL(), page.FlashText())
	}
	fmt.Printf("Login succeeded, landed on %s\n", page.CurrentURL())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
