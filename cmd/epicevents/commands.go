package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/auth"
	"epicevents.org/internal/crm"
	"epicevents.org/internal/menu"
	"epicevents.org/internal/obs"
	"epicevents.org/internal/store/pg"
	"epicevents.org/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Authenticate and save a session token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		defer func() { _ = obs.WriteTextfile(cfg.Metrics.Path) }()

		tokens, err := tokenManager(cfg)
		if err != nil {
			return err
		}

		prompt := ui.NewTermPrompter()
		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			if email, err = prompt.Input("Email"); err != nil {
				return err
			}
		}
		password, err := prompt.Secret("Password")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		verifier := auth.NewVerifier(store)
		employee, role, ok := verifier.Authenticate(ctx, email, password)
		if !ok {
			obs.RecordLogin("failure")
			_ = audit.LogEvent(ctx, "auth.login_failed", map[string]any{"email": email})
			return errors.New("invalid credentials")
		}

		_, expiresAt, err := tokens.Issue(employee.ID)
		if err != nil {
			return err
		}
		obs.RecordLogin("success")
		_ = audit.LogEvent(audit.WithActor(ctx, employee.Email), "auth.login", map[string]any{"role": role.Name})
		fmt.Printf("Logged in as %s (%s), session valid until %s.\n",
			employee.Email, role.Name, expiresAt.Local().Format(time.RFC822))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Erase the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tokens, err := tokenManager(cfg)
		if err != nil {
			return err
		}
		if err := tokens.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tokens, err := tokenManager(cfg)
		if err != nil {
			return err
		}
		claims, ok := tokens.Validate()
		if !ok {
			return errors.New("no active session, run \"epicevents login\"")
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		employee, err := store.EmployeeByID(ctx, claims.UserID)
		if err != nil {
			return fmt.Errorf("load operator: %w", err)
		}
		role, err := store.RoleByID(ctx, employee.RoleID)
		if err != nil {
			return fmt.Errorf("load role: %w", err)
		}
		fmt.Printf("%s %s <%s>\nRole: %s\nSession expires: %s\n",
			employee.FirstName, employee.LastName, employee.Email,
			role.Name, claims.ExpiresAt.Local().Format(time.RFC822))
		return nil
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		defer func() { _ = obs.WriteTextfile(cfg.Metrics.Path) }()

		tokens, err := tokenManager(cfg)
		if err != nil {
			return err
		}
		claims, ok := tokens.Validate()
		if !ok {
			return errors.New("no active session, run \"epicevents login\"")
		}

		ctx := cmd.Context()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		employee, err := store.EmployeeByID(ctx, claims.UserID)
		if err != nil {
			return fmt.Errorf("load operator: %w", err)
		}
		role, err := store.RoleByID(ctx, employee.RoleID)
		if err != nil {
			return fmt.Errorf("load role: %w", err)
		}

		session := menu.NewSession(store, tokens, ui.NewView(), ui.NewTermPrompter(), employee, role)
		return session.Run(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func withMigrator(cmd *cobra.Command, fn func(*pg.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return fn(pg.NewMigrator(store))
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *pg.Migrator) error {
			if err := m.Up(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Schema is up to date.")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *pg.Migrator) error {
			if err := m.Down(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Rolled back one migration.")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *pg.Migrator) error {
			applied, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("No migrations applied.")
				return nil
			}
			for _, name := range applied {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var seedAdminEmail string

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "", "email for the bootstrap management account")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the default roles and a bootstrap management account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}

		prompt := ui.NewTermPrompter()
		email := seedAdminEmail
		if email == "" {
			if email, err = prompt.Input("Admin email"); err != nil {
				return err
			}
		}
		if email, err = crm.NormalizeEmail(email); err != nil {
			return err
		}
		password, err := prompt.Secret("Admin password")
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		if err := store.SeedDefaults(cmd.Context(), email, hash); err != nil {
			return err
		}
		fmt.Println("Default roles and admin account are in place.")
		return nil
	},
}
