package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	appServices "github.com/yigit/eduadmin/internal/app/services"
	"github.com/yigit/eduadmin/internal/bootstrap"
	"github.com/yigit/eduadmin/internal/config"
	"github.com/yigit/eduadmin/internal/db"
	"github.com/yigit/eduadmin/internal/pkg/logger"
	"github.com/yigit/eduadmin/internal/seed"
)

var readPasswordFunc = term.ReadPassword // replaced in tests

// commandLine carries the configuration and the lazily opened stores shared by the commands
type commandLine struct {
	cfg     *config.Config
	stores  *appServices.Stores
	release func()
}

func newApp(cl *commandLine) *cli.App {
	return &cli.App{
		Name:  "eduadmin-admin",
		Usage: "operator tasks for the EduAdmin backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Before: func(c *cli.Context) error {
			if cl.cfg != nil {
				return nil
			}
			cfg, _, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
			if err != nil {
				return err
			}
			cl.cfg = cfg
			return nil
		},
		After: func(*cli.Context) error {
			if cl.release != nil {
				cl.release()
				cl.release = nil
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending SQL migrations",
				Action: cl.migrate,
			},
			{
				Name:   "seed",
				Usage:  "create the configured admin and the default department",
				Action: cl.seed,
			},
			{
				Name:  "create-admin",
				Usage: "create an ADMIN account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "prompted when omitted"},
					&cli.StringFlag{Name: "first-name", Value: "System"},
					&cli.StringFlag{Name: "last-name", Value: "Administrator"},
				},
				Action: cl.createAdmin,
			},
			{
				Name:  "reset-password",
				Usage: "set a new password for an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "prompted when omitted"},
				},
				Action: cl.resetPassword,
			},
			{
				Name:   "purge-reset-tokens",
				Usage:  "delete expired password reset tokens",
				Action: cl.purgeResetTokens,
			},
		},
	}
}

// openStores connects to the configured stores once per run
func (cl *commandLine) openStores(ctx context.Context) (appServices.Stores, error) {
	if cl.stores != nil {
		return *cl.stores, nil
	}
	stores, release, err := bootstrap.SetupStores(ctx, cl.cfg, logger.Get())
	if err != nil {
		return appServices.Stores{}, err
	}
	cl.stores, cl.release = &stores, release
	return stores, nil
}

func (cl *commandLine) migrate(c *cli.Context) error {
	if cl.cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate needs the %s driver, configured driver is %q", config.DriverPostgres, cl.cfg.Database.Driver)
	}

	database, err := db.NewPostgresDB(cl.cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := bootstrap.RunMigrations(c.Context, cl.cfg, database, logger.Get()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "migrations applied")
	return nil
}

func (cl *commandLine) seed(c *cli.Context) error {
	stores, err := cl.openStores(c.Context)
	if err != nil {
		return err
	}
	if err := seed.CreateDefaultData(c.Context, stores, cl.cfg.Seed.AdminEmail, cl.cfg.Seed.AdminPassword, logger.Get()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "default data created")
	return nil
}

func (cl *commandLine) createAdmin(c *cli.Context) error {
	password, err := passwordFrom(c)
	if err != nil {
		return err
	}
	stores, err := cl.openStores(c.Context)
	if err != nil {
		return err
	}

	admin, err := seed.CreateAdmin(c.Context, stores.Users, c.String("email"), password, c.String("first-name"), c.String("last-name"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "admin %s created with id %d\n", admin.Email, admin.ID)
	return nil
}

func (cl *commandLine) resetPassword(c *cli.Context) error {
	password, err := passwordFrom(c)
	if err != nil {
		return err
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	stores, err := cl.openStores(c.Context)
	if err != nil {
		return err
	}

	user, err := stores.Users.GetByEmail(c.Context, c.String("email"))
	if err != nil {
		return fmt.Errorf("user %s: %w", c.String("email"), err)
	}

	resets := appServices.NewPasswordResets(stores.ResetTokens, stores.Users,
		config.MustDuration(cl.cfg.Auth.ResetTokenTTL), logger.Component("admin"))
	err = stores.Tx.WithTransaction(c.Context, func(ctx context.Context) error {
		return resets.ChangePassword(ctx, user.ID, password)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "password updated for %s\n", user.Email)
	return nil
}

func (cl *commandLine) purgeResetTokens(c *cli.Context) error {
	stores, err := cl.openStores(c.Context)
	if err != nil {
		return err
	}
	resets := appServices.NewPasswordResets(stores.ResetTokens, stores.Users,
		config.MustDuration(cl.cfg.Auth.ResetTokenTTL), logger.Component("admin"))

	removed, err := resets.Purge(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d expired reset tokens removed\n", removed)
	return nil
}

// passwordFrom returns the --password flag, or prompts for it without echo
func passwordFrom(c *cli.Context) (string, error) {
	if password := c.String("password"); password != "" {
		return password, nil
	}

	fmt.Fprint(c.App.Writer, "Enter password: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(c.App.Writer)
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	password := strings.TrimSpace(string(pwd))
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}
