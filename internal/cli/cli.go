package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-nodes/internal/asset"
	"github.com/ironsheep/image-nodes/internal/config"
	"github.com/ironsheep/image-nodes/internal/logging"
	"github.com/ironsheep/image-nodes/internal/node"
)

const appName = "image-nodes"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
	trace      bool
	cfg        config.Config
	catalog    *node.Registry

	// shutdown runs after the command finishes.
	shutdown []func(context.Context) error
}

// New creates a CLI writing command output to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{
		Logger:  logging.New(errOut, log.InfoLevel),
		out:     out,
		cfg:     config.Default(),
		catalog: node.NewCatalog(),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Image processing nodes served over MCP or run as workflows",
		Long:              `image-nodes exposes a catalog of image, SVG and OCR nodes as MCP tools and runs HCL workflows that wire them together.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to a TOML config file")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&c.trace, "trace", false, "write OpenTelemetry spans to stderr")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.nodesCommand())

	return root
}

// setup loads configuration and prepares logging and tracing.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.Logger.SetLevel(level)

	if c.trace {
		shutdown, err := setupTracing(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		c.shutdown = append(c.shutdown, shutdown)
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), c.Logger))
	return nil
}

// Execute runs root and then closes whatever the command opened, whether
// or not it succeeded.
func (c *CLI) Execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if terr := c.teardown(context.WithoutCancel(ctx)); terr != nil {
		c.Logger.Warn("Shutdown failed", "err", terr)
		if err == nil {
			err = terr
		}
	}
	return err
}

func (c *CLI) teardown(ctx context.Context) error {
	var first error
	for i := len(c.shutdown) - 1; i >= 0; i-- {
		if err := c.shutdown[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	c.shutdown = nil
	return first
}

// openAssets returns a node context backed by the configured store. The
// store is closed on teardown.
func (c *CLI) openAssets() (*asset.Context, error) {
	var store asset.Store
	switch c.cfg.Storage.Backend {
	case config.BackendBadger:
		bs, err := asset.OpenBadger(asset.BadgerOptions{
			Path:     c.cfg.Storage.Path,
			InMemory: c.cfg.Storage.Path == "",
			Logger:   c.Logger,
		})
		if err != nil {
			return nil, err
		}
		store = bs
	default:
		store = asset.NewMemoryStore()
	}
	c.shutdown = append(c.shutdown, func(context.Context) error { return store.Close() })

	c.Logger.Debug("Opened asset store", "backend", c.cfg.Storage.Backend, "path", c.cfg.Storage.Path)
	return asset.NewContext(store, c.cfg.Env()), nil
}
