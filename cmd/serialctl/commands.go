package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"serialseq/internal/config"
	"serialseq/internal/core/serial"
	"serialseq/internal/runtime"
	"serialseq/pkg/logger"
)

type rootOptions struct {
	configPath string
	backend    string
	logLevel   string
}

// session is an opened backend plus the loaded configuration.
type session struct {
	cfg *config.Config
	rt  *runtime.Runtime
	ctx context.Context
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.App.LogLevel = o.logLevel
	}

	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel, OutputPaths: []string{"stderr"}})
	if err != nil {
		return nil, err
	}
	ctx := logger.WithLogger(cmd.Context(), log)

	rt, err := runtime.Open(ctx, cfg, o.backend)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, rt: rt, ctx: ctx}, nil
}

func (s *session) close() { _ = s.rt.Close() }

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "serialctl",
		Short:         "Period-scoped serial numbers",
		Long:          "serialctl allocates serials such as INV-0224-000123 and inspects their counters.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (or SERIALSEQ_CONFIG)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: postgres|pebble")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(
		newGenerateCmd(opts),
		newPeekCmd(opts),
		newMigrateCmd(opts),
		newSoftDeleteCmd(opts),
	)
	return root
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		prefix string
		asOf   string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "generate <series>",
		Short: "Allocate the next serial(s) of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var at time.Time
			if asOf != "" {
				var err error
				at, err = parseAsOf(asOf)
				if err != nil {
					return err
				}
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			format, err := s.cfg.Serial.Formatting()
			if err != nil {
				return err
			}
			allocator := s.rt.Allocator(format)

			for i := 0; i < count; i++ {
				res, err := allocator.Generate(s.ctx, args[0], prefix, at)
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix placed before the serial")
	cmd.Flags().StringVar(&asOf, "as-of", "", "date selecting the period (YYYY-MM-DD or RFC3339; default now)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of serials to allocate")
	return cmd
}

func newPeekCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "peek <series> <year> <month>",
		Short: "Show the last number issued for a period",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePeriod(args)
			if err != nil {
				return err
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			last, found, err := s.rt.Store().Current(s.ctx, p)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"series":     p.Series,
				"year":       p.Year,
				"month":      p.Month,
				"exists":     found,
				"lastNumber": last,
			})
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL schema (postgres backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.rt.Migrate(s.ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema applied (%s)\n", s.rt.Backend())
			return err
		},
	}
}

func newSoftDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "soft-delete <series> <year> <month>",
		Short: "Retire a period counter; the next allocation starts at 1",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePeriod(args)
			if err != nil {
				return err
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			deleted, err := s.rt.SoftDelete(s.ctx, p)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"period":  p.String(),
				"deleted": deleted,
			})
		},
	}
}

func parsePeriod(args []string) (serial.Period, error) {
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return serial.Period{}, fmt.Errorf("invalid year %q", args[1])
	}
	month, err := strconv.Atoi(args[2])
	if err != nil {
		return serial.Period{}, fmt.Errorf("invalid month %q", args[2])
	}
	p := serial.Period{Series: args[0], Year: year, Month: month}
	return p, p.Validate()
}

func parseAsOf(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}
