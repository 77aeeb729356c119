// Package cli implements the resolve command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"bibresolver/internal/app"
	"bibresolver/internal/config"
	"bibresolver/internal/entity"
	"bibresolver/internal/resolve"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Resolver is the part of the resolve service the commands use.
type Resolver interface {
	ByBibID(ctx context.Context, bibID string, opts resolve.Options) (entity.Record, error)
	ByNumber(ctx context.Context, num, numType string, opts resolve.Options) (entity.Record, error)
}

// Opener builds a Resolver and the function that releases it.
type Opener func(ctx context.Context) (Resolver, func(), error)

// OpenFromEnv loads configuration from the environment and wires the
// full resolver.
func OpenFromEnv(ctx context.Context) (Resolver, func(), error) {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	app.SetupLogger(cfg.Log)
	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return a.Service, a.Close, nil
}

type options struct {
	format     string
	electronic string
}

// NewRootCmd returns the resolve command tree.
func NewRootCmd(open Opener) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "resolve",
		Short:         "Resolve consortium holdings for a bib record or standard number",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.format != "json" && o.format != "text" {
				return fmt.Errorf("%w: --format must be json or text", entity.ErrInvalidArgument)
			}
			if o.electronic != "first" && o.electronic != "last" {
				return fmt.Errorf("%w: --electronic must be first or last", entity.ErrInvalidArgument)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&o.format, "format", "f", "json", "Output format: json or text")
	root.PersistentFlags().StringVar(&o.electronic, "electronic", "last", "Place electronic holdings first or last")

	root.AddCommand(
		&cobra.Command{
			Use:   "bib <bibid>",
			Short: "Resolve holdings for a catalog bib id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, open, o, func(ctx context.Context, r Resolver, opts resolve.Options) (entity.Record, error) {
					return r.ByBibID(ctx, args[0], opts)
				})
			},
		},
		&cobra.Command{
			Use:   "number <isbn|issn|oclc> <number>",
			Short: "Resolve holdings for a standard number",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, open, o, func(ctx context.Context, r Resolver, opts resolve.Options) (entity.Record, error) {
					return r.ByNumber(ctx, args[1], args[0], opts)
				})
			},
		},
	)
	return root
}

func run(cmd *cobra.Command, open Opener, o *options, fn func(context.Context, Resolver, resolve.Options) (entity.Record, error)) error {
	r, release, err := open(cmd.Context())
	if err != nil {
		return fmt.Errorf("open resolver: %w", err)
	}
	defer release()

	rec, err := fn(cmd.Context(), r, resolve.Options{ElectronicFirst: o.electronic == "first"})
	if err != nil {
		return err
	}
	if o.format == "text" {
		return writeText(cmd.OutOrStdout(), rec)
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

func writeText(w io.Writer, rec entity.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s %s)\n", rec.Bib.Title, rec.Bib.LibraryCode, rec.Bib.BibID)
	if rec.Bib.Author != "" {
		fmt.Fprintf(&b, "  %s\n", rec.Bib.Author)
	}
	fmt.Fprintf(&b, "related: %s\n", strings.Join(rec.RelatedBibIDs, ", "))
	for _, h := range rec.Holdings {
		mark := " "
		if h.Available() {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %-3s %-30s %s\n", mark, h.LibraryCode, h.DisplayLocation, h.CallNumber)
		for _, it := range h.Items {
			fmt.Fprintf(&b, "      %-10s %s\n", it.Enumeration, it.StatusDescription)
		}
		for _, l := range h.Links {
			fmt.Fprintf(&b, "      %s\n", l.URL)
		}
	}
	if rec.ILLiadLink != "" {
		fmt.Fprintf(&b, "ILL: %s\n", rec.ILLiadLink)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
