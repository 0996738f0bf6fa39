// Package cli implements the ticketgen command-line interface.
//
// Commands:
//   - render: draw one ticket from a style or template file and a JSON data file
//   - styles: list the styles in the template directory
//   - fields: list the user data keys a style reads
//
// All commands accept --config for a TOML configuration file and --verbose
// for debug logging. The logger and configuration travel in the command
// context.
package cli

import (
	"context"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/youruser/ticketapp/internal/config"
	"github.com/youruser/ticketapp/internal/fonts"
	"github.com/youruser/ticketapp/internal/ticket"
)

// Execute runs the ticketgen CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "ticketgen",
		Short:        "ticketgen renders ticket images from JSON templates",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debug("configuration loaded", "path", configPath, "templates", cfg.TemplatePath())
			ctx := withConfig(withLogger(cmd.Context(), logger), cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newStylesCmd())
	root.AddCommand(newFieldsCmd())

	return root
}

func newCatalog(cfg config.Config) *ticket.Catalog {
	return ticket.NewCatalog(cfg.TemplatePath(), ticket.DefaultDecodeOptions)
}

func newRenderer(cfg config.Config, logger *charmlog.Logger) *ticket.Renderer {
	chain := fonts.NewChain(cfg.BaseDir, cfg.Fonts.Bundled, cfg.Fonts.System)
	return ticket.NewRenderer(fonts.NewResolver(chain, logger), ticket.Options{
		Overlays: cfg.Overlays,
		Logger:   logger,
	})
}
