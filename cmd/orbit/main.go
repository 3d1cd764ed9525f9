package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/jask/orbit/internal/config"
	"github.com/jask/orbit/internal/database"
	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/logging"
	"github.com/jask/orbit/internal/service"
	"github.com/jask/orbit/internal/state"
	"github.com/jask/orbit/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
)

// CLI is the top-level command structure for orbit.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	Run      RunCmd           `cmd:"" default:"1" help:"Open the portfolio dashboard."`
	Accounts AccountsCmd      `cmd:"" help:"List accounts, or show one account and its timeline."`
	Seed     SeedCmd          `cmd:"" help:"Load the demo portfolio into an empty database."`
	Reset    ResetCmd         `cmd:"" help:"Delete every account and its activity."`
}

// environment is bound into every command's Run.
type environment struct {
	ctx context.Context
	out io.Writer
	// isTTY reports whether the dashboard can take over the terminal.
	isTTY func() bool
}

// app is the opened database plus the services built on it.
type app struct {
	cfg         config.Config
	db          *sql.DB
	log         *logrus.Logger
	accounts    *service.AccountService
	maintenance *service.MaintenanceService
	closeLog    func() error
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	db, err := database.Setup(cfg.Database.Path)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("database: %w", err)
	}
	log.WithField("path", cfg.Database.Path).Debug("database ready")

	return &app{
		cfg: cfg,
		db:  db,
		log: log,
		accounts: &service.AccountService{
			Accounts:   repository.NewAccountRepo(db),
			Activities: repository.NewActivityRepo(db),
			Log:        log,
		},
		maintenance: &service.MaintenanceService{DB: db, Log: log},
		closeLog:    closeLog,
	}, nil
}

func (a *app) Close() error {
	err := a.db.Close()
	if cerr := a.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// RunCmd opens the TUI.
type RunCmd struct {
	NoSeed bool `help:"Skip seeding the demo portfolio on an empty database."`
}

func (c *RunCmd) Run(env *environment) error {
	if !env.isTTY() {
		return fmt.Errorf("run: requires a terminal (TTY); try `orbit accounts`")
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Database.SeedDemo && !c.NoSeed {
		if _, err := a.maintenance.Seed(env.ctx); err != nil {
			return err
		}
	}

	if !a.cfg.KnownDefaultView() {
		a.log.WithField("default_view", a.cfg.UI.DefaultView).Warn("unknown default view, showing overview")
	}
	store := state.New(state.ParseView(a.cfg.UI.DefaultView))
	logRouteChanges(store, a.log)
	shell, err := tui.New(env.ctx, a.cfg, tui.Deps{
		Store:       store,
		Accounts:    a.accounts,
		Maintenance: a.maintenance,
		Log:         a.log,
		SaveConfig:  config.Save,
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer shell.Close()

	a.log.Info("dashboard started")
	if _, err := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(env.ctx)).Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	a.log.Info("dashboard closed")
	return nil
}

// logRouteChanges writes a debug line whenever the view or selection moves.
// Cache reloads also notify, so unchanged routes are skipped.
func logRouteChanges(store *state.Provider, log logrus.FieldLogger) {
	view, selected := store.ActiveView(), store.SelectedAccountID()
	store.OnChange(func() {
		v, id := store.ActiveView(), store.SelectedAccountID()
		if v == view && id == selected {
			return
		}
		view, selected = v, id
		log.WithFields(logrus.Fields{"view": v.Label(), "account": id}).Debug("route changed")
	})
}

// AccountsCmd prints the portfolio as a table, or one account in detail.
type AccountsCmd struct {
	ID string `arg:"" optional:"" help:"Account ID to show in detail."`
}

func (c *AccountsCmd) Run(env *environment) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := a.cfg.UI.CurrencySymbol
	if c.ID != "" {
		acct, err := a.accounts.Get(env.ctx, c.ID)
		if err != nil {
			return fmt.Errorf("accounts: %w", err)
		}
		timeline, err := a.accounts.Activity(env.ctx, acct.ID, 0)
		if err != nil {
			return fmt.Errorf("accounts: %w", err)
		}
		return printAccount(env.out, acct, timeline, symbol)
	}

	accounts, err := a.accounts.List(env.ctx)
	if err != nil {
		return err
	}
	return printAccounts(env.out, accounts, symbol)
}

func printAccounts(w io.Writer, accounts []repository.Account, symbol string) error {
	if len(accounts) == 0 {
		_, err := fmt.Fprintln(w, "no accounts")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTIER\tOWNER\tARR\tHEALTH\tID")
	for _, acct := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d %s\t%s\n",
			acct.Name, acct.Tier, acct.Owner,
			service.FormatMoney(acct.ARRCents, symbol),
			acct.Health, service.HealthLabel(acct.Health), acct.ID)
	}
	sum := service.Pulse(accounts, 0)
	fmt.Fprintf(tw, "\n%d accounts\t\t\t%s\tavg %d\n",
		sum.Accounts, service.FormatMoney(sum.TotalARRCents, symbol), sum.AverageHealth)
	return tw.Flush()
}

func printAccount(w io.Writer, acct repository.Account, timeline []repository.Activity, symbol string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", acct.Name)
	fmt.Fprintf(tw, "Tier:\t%s\n", acct.Tier)
	fmt.Fprintf(tw, "Industry:\t%s\n", acct.Industry)
	fmt.Fprintf(tw, "Owner:\t%s\n", acct.Owner)
	fmt.Fprintf(tw, "ARR:\t%s\n", service.FormatMoney(acct.ARRCents, symbol))
	fmt.Fprintf(tw, "Health:\t%d %s\n", acct.Health, service.HealthLabel(acct.Health))
	fmt.Fprintln(tw)
	if len(timeline) == 0 {
		fmt.Fprintln(tw, "no activity")
	}
	for _, act := range timeline {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", act.OccurredAt.Local().Format("2006-01-02 15:04"), act.Kind, act.Summary)
	}
	return tw.Flush()
}

// SeedCmd loads the demo data.
type SeedCmd struct{}

func (c *SeedCmd) Run(env *environment) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	seeded, err := a.maintenance.Seed(env.ctx)
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Fprintln(env.out, "database already has accounts; nothing seeded")
		return nil
	}
	fmt.Fprintln(env.out, "demo portfolio seeded")
	return nil
}

// ResetCmd wipes all data.
type ResetCmd struct {
	Yes bool `help:"Confirm the reset." short:"y"`
}

func (c *ResetCmd) Run(env *environment) error {
	if !c.Yes {
		return fmt.Errorf("reset: refusing without --yes")
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.maintenance.Reset(env.ctx); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "all portfolio data removed")
	return nil
}

func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("orbit"),
		kong.Description("Customer portfolio dashboard."),
		kong.Vars{"version": version + " " + commit},
	)
	err := kctx.Run(&environment{ctx: ctx, out: os.Stdout, isTTY: stdoutIsTTY})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		stop()
		os.Exit(1)
	}
}
