// Package main is the pgcrud command line tool: quick connectivity checks
// and ad-hoc statements against the configured database.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgcrud/internal/debug"
	"github.com/satishbabariya/pgcrud/runtime/client"
	"github.com/satishbabariya/pgcrud/runtime/config"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}

func run() error {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "pgcrud",
		Short: "PostgreSQL CRUD driver utility",
		Long:  "pgcrud checks connectivity and runs ad-hoc statements using DB_* environment configuration",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.Init(verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log executed statements to stderr")

	rootCmd.AddCommand(newPingCommand())
	rootCmd.AddCommand(newExecCommand())
	rootCmd.AddCommand(newCountCommand())

	return rootCmd.Execute()
}

func newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			start := time.Now()
			err = client.WithDriver(ctx, cfg, func(d *client.Driver) error {
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s %s:%s/%s (%s)\n", green("OK"), cfg.Host, cfg.Port, cfg.Database, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func newExecCommand() *cobra.Command {
	var noFetch bool

	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run an ad-hoc SQL statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			return client.WithDriver(cmd.Context(), cfg, func(d *client.Driver) error {
				d.Use(client.LoggingMiddleware())
				res, err := d.ExecuteQuery(cmd.Context(), args[0], nil, &client.QueryOptions{
					NoFetch:   noFetch,
					AsRecords: true,
				})
				if err != nil {
					return err
				}

				if noFetch {
					fmt.Printf("%s %d row(s) affected\n", green("OK"), res.RowsAffected)
					return nil
				}
				for _, rec := range res.Records {
					fields := make([]string, 0, rec.Len())
					for _, col := range rec.Columns() {
						v, _ := rec.Get(col)
						fields = append(fields, fmt.Sprintf("%s=%s", col, v))
					}
					fmt.Println(strings.Join(fields, "\t"))
				}
				fmt.Printf("%s %d row(s)\n", green("OK"), len(res.Records))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "skip result retrieval (for DML without RETURNING)")
	return cmd
}

func newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count <table>",
		Short: "Count rows in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			return client.WithDriver(cmd.Context(), cfg, func(d *client.Driver) error {
				d.Use(client.LoggingMiddleware())
				n, err := d.Count(cmd.Context(), args[0], nil)
				if err != nil {
					return err
				}
				fmt.Printf("%s %s: %d row(s)\n", green("OK"), args[0], n)
				return nil
			})
		},
	}
}
