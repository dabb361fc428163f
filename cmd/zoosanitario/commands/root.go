package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/esmeraldas/zoosanitario/internal/app"
	"github.com/esmeraldas/zoosanitario/internal/notify"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// cli is the state shared by every subcommand of one invocation.
type cli struct {
	configPath string
	apiURL     string
	verbose    bool

	cfg       *app.Config
	wire      *app.Wire
	stopWatch func()

	// build overrides app.NewWire in tests.
	build func(*app.Config, app.Options) (*app.Wire, error)
}

func Execute(ctx context.Context) error {
	c := &cli{build: app.NewWire}
	root := newRootCmd(c)
	err := root.ExecuteContext(ctx)
	// PostRun hooks are skipped when a command fails.
	if terr := c.teardown(); err == nil {
		err = terr
	}
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), notify.FromError(err))
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "zoosanitario",
		Short:         "Back-office client for the municipal zoosanitario API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.zoosanitario/config.yaml)")
	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "API base URL, overrides the config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		ratesCmd(c),
		introducersCmd(c),
		invoicesCmd(c),
		certificatesCmd(c),
		statsCmd(c),
		credentialsCmd(c),
		eventsCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath == "" {
		path, err := app.DefaultPath()
		if err != nil {
			return err
		}
		c.configPath = path
	}
	cfg, err := app.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
	}
	c.cfg = cfg

	w, err := c.build(cfg, app.Options{Verbose: c.verbose})
	if err != nil {
		return err
	}
	c.wire = w
	c.stopWatch = watchGate(cmd.Context(), w, cfg, cmd.InOrStdin(), cmd.ErrOrStderr())
	return nil
}

func (c *cli) teardown() error {
	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
	if c.wire == nil {
		return nil
	}
	w := c.wire
	c.wire = nil

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := w.Close(ctx)
	_ = w.Logger.Sync()
	return err
}

func success(out io.Writer, format string, args ...any) {
	fmt.Fprintln(out, notify.Success(fmt.Sprintf(format, args...)))
}
