package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/youruser/ticketapp/internal/errors"
	"github.com/youruser/ticketapp/internal/ticket"
	"github.com/youruser/ticketapp/internal/util"
)

type renderOpts struct {
	style    string
	template string
	data     string
	out      string
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a ticket image",
		Long: `Render draws one ticket. The template is either a style from the configured
template directory (--style) or a template file (--template), whose
background and overlays are resolved next to it. The output format follows
the --out extension.`,
		Example: `  ticketgen render --style red15 --data passenger.json --out ticket.png
  cat passenger.json | ticketgen render --template ./my_template.json --data - --out out.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "style name from the template directory")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "template JSON file")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "user data JSON file (- for stdin)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "ticket.png", "output image")
	cmd.MarkFlagsMutuallyExclusive("style", "template")
	cmd.MarkFlagsOneRequired("style", "template")

	return cmd
}

func runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	tplPath, assetDir := opts.template, filepath.Dir(opts.template)
	if opts.style != "" {
		catalog := newCatalog(cfg)
		p, err := catalog.TemplatePath(opts.style)
		if err != nil {
			return err
		}
		tplPath, assetDir = p, catalog.Dir()
	}

	raw, err := readUserData(cmd, opts.data)
	if err != nil {
		return err
	}

	start := time.Now()
	img, err := newRenderer(cfg, logger).Render(tplPath, assetDir, raw)
	if err != nil {
		return err
	}
	if err := util.EnsureDir(filepath.Dir(opts.out)); err != nil {
		return err
	}
	if err := imaging.Save(img, opts.out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "saving %s", opts.out)
	}
	logger.Info("ticket written", "out", opts.out, "template", tplPath, "took", time.Since(start).Round(time.Millisecond))
	return nil
}

func readUserData(cmd *cobra.Command, path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading user data")
	}
	raw, err := ticket.DecodeUserData(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding user data %s", path)
	}
	return raw, nil
}
