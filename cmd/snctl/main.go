// Command snctl drives the social network from a terminal: sign up, log in,
// follow people, write and react to posts, and read feeds.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/anonto42/social-network/internal/app"
	"github.com/anonto42/social-network/internal/logger"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// opener builds the App and returns a function releasing it
type opener func(ctx context.Context) (*app.App, func(), error)

type cli struct {
	open opener
	out  io.Writer

	app     *app.App
	release func()

	email    string
	password string
}

func main() {
	c := &cli{open: openFromConfig, out: os.Stdout}
	err := newRootCmd(c).Execute()
	if c.release != nil {
		c.release()
	}
	if err != nil {
		os.Exit(1)
	}
}

// openFromConfig connects to the configured stores
func openFromConfig(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	zl, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := config.InitDB(cfg, zl)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Open(ctx, cfg, db, zl)
	if err != nil {
		db.CloseDB()
		return nil, nil, err
	}
	release := func() {
		if err := a.Close(); err != nil {
			zl.Warn("closing recorders", zap.Error(err))
		}
		db.CloseDB()
		_ = zl.Sync()
	}
	return a, release, nil
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "snctl",
		Short:        "Social network command line client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.app != nil {
				return nil
			}
			a, release, err := c.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			c.app, c.release = a, release
			return nil
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.out)

	root.PersistentFlags().StringVar(&c.email, "email", "", "Log-in email")
	root.PersistentFlags().StringVar(&c.password, "password", "", "Log-in password")

	root.AddCommand(
		signupCmd(c),
		loginCmd(c),
		subscribeCmd(c, true),
		subscribeCmd(c, false),
		postCmd(c),
		likeCmd(c, true),
		likeCmd(c, false),
		commentCmd(c),
		feedCmd(c),
		findCmd(c),
		repairEdgesCmd(c),
	)
	return root
}

// login resolves the --email/--password user
func (c *cli) login(ctx context.Context) (*models.User, error) {
	if c.email == "" || c.password == "" {
		return nil, fmt.Errorf("--email and --password are required")
	}
	return c.app.Accounts.LogIn(ctx, c.email, c.password)
}
