// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/relevit"
	"github.com/poiesic/relevit/analytics"
	"github.com/poiesic/relevit/config"
	"github.com/poiesic/relevit/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "relevit",
		Usage: "Precision retrieval over an OpenSearch-compatible events index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Resolve an identifier through exact, prefix, and fuzzy lookups",
				ArgsUsage: "QUERY",
				Action:    resolveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "field",
						Aliases: []string{"f"},
						Usage:   "Identifier field to resolve (rid, docid)",
						Value:   "rid",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Hybrid lexical and semantic search over the events index",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:    "boost",
						Aliases: []string{"b"},
						Usage:   "Semantic leg weight between 0 and 1",
						Value:   0.3,
					},
					&cli.IntFlag{
						Name:    "size",
						Aliases: []string{"n"},
						Usage:   "Number of results to return",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "country",
						Usage: "Restrict results to one country",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Restrict results to one year",
					},
					&cli.IntFlag{
						Name:  "year-from",
						Usage: "Restrict results to this year and later",
					},
					&cli.IntFlag{
						Name:  "year-to",
						Usage: "Restrict results to this year and earlier",
					},
					&cli.IntFlag{
						Name:  "min-attendance",
						Usage: "Minimum event attendance",
					},
					&cli.IntFlag{
						Name:  "max-attendance",
						Usage: "Maximum event attendance",
					},
				},
			},
			{
				Name:      "suggest",
				Usage:     "Suggest event titles completing a partial query",
				ArgsUsage: "PREFIX...",
				Action:    suggestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "size",
						Aliases: []string{"n"},
						Usage:   "Maximum number of suggestions",
						Value:   5,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Attendance statistics over the scoped events",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "country",
						Usage: "Restrict statistics to one country",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Restrict statistics to one year",
					},
				},
			},
			{
				Name:   "overview",
				Usage:  "Corpus breakdowns by year, country, and theme",
				Action: overviewCommand,
			},
			{
				Name:   "list",
				Usage:  "List events page by page",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "size",
						Aliases: []string{"n"},
						Usage:   "Page size",
						Value:   10,
					},
					&cli.IntFlag{
						Name:  "from",
						Usage: "Pagination offset",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort field",
						Value: "year",
					},
					&cli.BoolFlag{
						Name:  "asc",
						Usage: "Sort ascending instead of descending",
					},
				},
			},
			{
				Name:   "info",
				Usage:  "Show cluster name and engine version",
				Action: infoCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func resolveCommand(c *cli.Context) error {
	ctx := context.Background()

	// Validate args
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one QUERY argument, got %d", c.NArg())
	}
	query := c.Args().First()

	field := core.IdentifierField(c.String("field"))
	if field != core.FieldRID && field != core.FieldDocID {
		return fmt.Errorf("invalid field %q: must be one of rid, docid", c.String("field"))
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	payload, err := svc.Resolve(ctx, field, query)
	if err != nil {
		return err
	}
	return printJSON(payload)
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := core.HybridQuery{
		Text:          strings.Join(c.Args().Slice(), " "),
		SemanticBoost: c.Float64("boost"),
		PageSize:      c.Int("size"),
	}
	filters := core.Filters{
		Country:       c.String("country"),
		Year:          c.Int("year"),
		YearFrom:      c.Int("year-from"),
		YearTo:        c.Int("year-to"),
		MinAttendance: c.Int("min-attendance"),
		MaxAttendance: c.Int("max-attendance"),
	}

	// Validate before building the retrieval stack
	if err := core.ValidateHybridQuery(query); err != nil {
		return err
	}
	if err := core.ValidateFilters(filters); err != nil {
		return err
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	payload, err := svc.Search(ctx, query, filters)
	if err != nil {
		return err
	}
	return printJSON(payload)
}

func suggestCommand(c *cli.Context) error {
	ctx := context.Background()

	prefix := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if prefix == "" {
		return fmt.Errorf("PREFIX argument is required")
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	for _, suggestion := range svc.Suggest(ctx, prefix, c.Int("size")) {
		fmt.Println(suggestion)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	filters := core.Filters{
		Country: c.String("country"),
		Year:    c.Int("year"),
	}
	if err := core.ValidateFilters(filters); err != nil {
		return err
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	summary, err := svc.Analyzer().AttendanceStats(ctx, filters)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func overviewCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	overview, err := svc.Analyzer().Overview(ctx)
	if err != nil {
		return err
	}
	return printJSON(overview)
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	opts := analytics.ListOptions{
		Size:      c.Int("size"),
		From:      c.Int("from"),
		SortBy:    c.String("sort"),
		Ascending: c.Bool("asc"),
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	page, err := svc.Analyzer().List(ctx, opts)
	if err != nil {
		return err
	}
	return printJSON(page)
}

func infoCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	info, err := svc.Info(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Cluster: %s\n", info.ClusterName)
	fmt.Printf("Node: %s\n", info.NodeName)
	if info.Distribution != "" {
		fmt.Printf("Distribution: %s\n", info.Distribution)
	}
	fmt.Printf("Version: %s\n", info.Version)
	return nil
}

// newService builds the retrieval stack from the configured or default
// deployment settings.
func newService(c *cli.Context) (*relevit.Service, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return relevit.NewService(cfg)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
