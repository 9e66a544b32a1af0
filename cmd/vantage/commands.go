package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vantage/internal/codec"
	"vantage/internal/config"
	"vantage/internal/domain"
	"vantage/internal/repository"
	"vantage/internal/service"
	"vantage/internal/termview"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Output formats of the render command
const (
	outputTerm = "term"
	outputJSON = "json"
	outputYAML = "yaml"
)

func newDomainsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List industry domains and their tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domains := a.svc.Domains()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), domains)
			}
			_, err := io.WriteString(cmd.OutOrStdout(), termview.RenderDomains(domains))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newToolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools <domain>",
		Short: "List the tools of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := a.svc.Tools(args[0])
			if err != nil {
				return err
			}
			dedicated := func(t domain.Tool) bool {
				return a.svc.IsDedicated(domain.ViewKey{DomainID: args[0], ToolID: t.ID})
			}
			_, err = io.WriteString(cmd.OutOrStdout(), termview.RenderTools(tools, dedicated))
			return err
		},
	}
}

// renderFlags are shared by render and export
type renderFlags struct {
	session string
	loading bool
	seed    uint64
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.session, "session", "cli", "Session whose fallback numbers to show")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Fixed fallback seed (bypasses the session's seed)")
}

func (f *renderFlags) request(cmd *cobra.Command, domainID, toolID string) service.RenderRequest {
	req := service.RenderRequest{
		DomainID: domainID,
		ToolID:   toolID,
		Session:  f.session,
		Loading:  f.loading,
	}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		req.Seed = &seed
	}
	return req
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		flags  renderFlags
		format string
		bare   bool
	)

	cmd := &cobra.Command{
		Use:   "render <domain> <tool>",
		Short: "Render a dashboard page",
		Long: `Render the page for a domain and tool. Unknown domains and tools render
the generic analytics view, exactly as the dashboard would.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request(cmd, args[0], args[1])
			out := cmd.OutOrStdout()

			var payload interface{}
			if bare {
				payload = a.svc.View(cmd.Context(), req)
			} else {
				payload = a.svc.Page(cmd.Context(), req)
			}

			switch strings.ToLower(format) {
			case outputTerm:
				var s string
				switch p := payload.(type) {
				case domain.View:
					s = termview.RenderView(p)
				case domain.Page:
					s = termview.RenderPage(p)
				}
				_, err := io.WriteString(out, s)
				return err
			case outputJSON:
				return writeJSON(out, payload)
			case outputYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(payload); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, outputTerm, outputJSON, outputYAML)
			}
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&flags.loading, "loading", false, "Render the loading skeleton")
	cmd.Flags().StringVarP(&format, "format", "f", outputTerm, "Output format: term, json or yaml")
	cmd.Flags().BoolVar(&bare, "view-only", false, "Render the view without navigation and header")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		flags  renderFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <domain> <tool>",
		Short: "Export a view's data",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request(cmd, args[0], args[1])

			var res *service.ExportResult
			export := func(w io.Writer) error {
				var err error
				res, err = a.svc.Export(cmd.Context(), req, format, w)
				return err
			}

			if output == "" {
				if err := export(cmd.OutOrStdout()); err != nil {
					return err
				}
			} else {
				if err := writeFile(output, export); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %s to %s\n", req.Key(), output)
			}
			a.logger.Debug("export written", zap.String("filename", res.Filename))
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", codec.FormatJSON,
		"Export format: "+strings.Join(codec.NewRegistry().Formats(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newActionsCmd(a *app) *cobra.Command {
	var (
		filter repository.ActionFilter
		kind   string
	)

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List recorded header actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Kind = domain.ActionKind(kind)
			events, err := a.svc.Actions(cmd.Context(), filter)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), termview.RenderActions(events, time.Now()))
			return err
		},
	}

	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", repository.DefaultActionLimit, "Maximum number of actions")
	cmd.Flags().StringVar(&filter.DomainID, "domain", "", "Only actions on this domain")
	cmd.Flags().StringVar(&filter.ToolID, "tool", "", "Only actions on this tool")
	cmd.Flags().StringVar(&kind, "kind", "", "Only this kind of action (primary or export)")
	return cmd
}

func newViewCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Show a previously exported view",
		Long: `Show a view exported as JSON or YAML. The format is taken from the
file extension unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(path), ".")
			}
			importer, err := a.svc.Codecs().Importer(format)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := importer.Parse(f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s exported %s\n\n", doc.Key(), humanize.Time(doc.ExportedAt))
			_, err = io.WriteString(out, termview.RenderView(doc.View))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json or yaml")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# "+a.cfg.Summary())
			fmt.Fprintln(out, "# search path:")
			for _, p := range config.SearchPaths() {
				fmt.Fprintln(out, "#   "+p)
			}
			return yaml.NewEncoder(out).Encode(a.cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if err := a.cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

// writeFile writes path through fn via a temp file in the same directory,
// then renames it over the target. On failure the target is left untouched.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0644); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
