package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/gazetteer/internal/logger"
	"github.com/cognicore/gazetteer/pkg/gazetteer"
	"github.com/cognicore/gazetteer/pkg/gazetteer/config"
	"github.com/cognicore/gazetteer/pkg/gazetteer/store"
	"github.com/cognicore/gazetteer/pkg/gazetteer/store/sqlite"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	sourceFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Parser config file (.yaml, .yml or .toml)",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "SQLite gazetteer store (overrides db_path from the config)",
		},
		&cli.StringFlag{
			Name:  "gazetteer",
			Usage: "Gazetteer file (overrides gazetteer_path from the config)",
		},
		&cli.StringFlag{
			Name:  "stoplist",
			Usage: "Stoplist file (overrides stoplist_path from the config)",
		},
	}

	return &cli.App{
		Name:      "gazetteer-cli",
		Usage:     "Find known entities in free text",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
				Value: "text",
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(c.App.ErrWriter, c.String("log-level"), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "parse",
				Usage: "Parse one query, or one query per stdin line",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "One-shot query (non-interactive mode)",
					},
					&cli.IntFlag{
						Name:  "max-alternatives",
						Usage: "Alternatives reported per entity",
						Value: 5,
					},
				}, sourceFlags...),
				Action: parseCommand,
			},
			{
				Name:  "batch",
				Usage: "Parse stdin lines concurrently, printing results in input order",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "max-alternatives",
						Usage: "Alternatives reported per entity",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (0 = GOMAXPROCS)",
					},
				}, sourceFlags...),
				Action: batchCommand,
			},
			{
				Name:  "import",
				Usage: "Append a gazetteer file to a SQLite store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Usage:    "SQLite gazetteer store",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "gazetteer",
						Usage:    "Gazetteer file to import",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "stoplist",
						Usage: "Stoplist file replacing the stored stop words",
					},
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Remove stored entities before importing",
					},
				},
				Action: importCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print a summary of the built parser",
				Flags:  sourceFlags,
				Action: statsCommand,
			},
		},
	}
}

// buildParser loads the configured sources and builds a parser.
func buildParser(c *cli.Context) (*gazetteer.Parser, error) {
	ctx := c.Context

	loader := &config.Loader{
		GazetteerPath: c.String("gazetteer"),
		StoplistPath:  c.String("stoplist"),
	}

	dbPath := c.String("db")
	if path := c.String("config"); path != "" {
		cfg, err := config.LoadParserConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		loader.Config = cfg
		if dbPath == "" {
			dbPath = cfg.DBPath
		}
	}

	if dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		loader.Store = st
	}

	start := time.Now()
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := comp.Parser.Stats()
	logger.WithComponent("build").Info("parser built",
		"parser_id", stats.ID,
		"entities", stats.Entities,
		"tokens", stats.Tokens,
		"stop_words", stats.StopWords,
		"took", time.Since(start),
	)
	return comp.Parser, nil
}

func parseCommand(c *cli.Context) error {
	p, err := buildParser(c)
	if err != nil {
		return err
	}
	ctx := logger.WithParserID(c.Context, p.Stats().ID)
	enc := json.NewEncoder(c.App.Writer)
	maxAlternatives := c.Int("max-alternatives")

	// One-shot query mode
	if c.IsSet("query") {
		return parseOne(ctx, p, enc, c.String("query"), maxAlternatives)
	}

	scanner := newLineScanner(c.App.Reader)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if err := parseOne(ctx, p, enc, query, maxAlternatives); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseOne(ctx context.Context, p *gazetteer.Parser, enc *json.Encoder, query string, maxAlternatives int) error {
	parsed, err := p.Run(query, maxAlternatives)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("query parsed", "query", query, "entities", len(parsed))
	return enc.Encode(nonNil(parsed))
}

func batchCommand(c *cli.Context) error {
	p, err := buildParser(c)
	if err != nil {
		return err
	}
	ctx := logger.WithParserID(c.Context, p.Stats().ID)

	var queries []string
	scanner := newLineScanner(c.App.Reader)
	for scanner.Scan() {
		queries = append(queries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	start := time.Now()
	results, err := p.RunBatch(ctx, queries, c.Int("max-alternatives"), c.Int("workers"))
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("batch parsed", "queries", len(queries), "took", time.Since(start))

	enc := json.NewEncoder(c.App.Writer)
	for _, parsed := range results {
		if err := enc.Encode(nonNil(parsed)); err != nil {
			return err
		}
	}
	return nil
}

func importCommand(c *cli.Context) error {
	ctx := c.Context
	importLog := logger.WithComponent("import")

	g, err := config.LoadGazetteer(c.String("gazetteer"))
	if err != nil {
		return fmt.Errorf("load gazetteer: %w", err)
	}

	st, err := sqlite.OpenSQLite(ctx, c.String("db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if c.Bool("reset") {
		if err := st.Reset(ctx); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
		importLog.Info("store reset")
	}

	entities := make([]store.Entity, 0, g.Len())
	for _, v := range g.Values() {
		entities = append(entities, store.Entity{RawValue: v.RawValue, ResolvedValue: v.ResolvedValue})
	}
	if err := st.AppendEntities(ctx, entities); err != nil {
		return fmt.Errorf("append entities: %w", err)
	}
	importLog.Info("entities imported", "count", len(entities))

	if path := c.String("stoplist"); path != "" {
		sl, err := config.LoadStoplist(path)
		if err != nil {
			return fmt.Errorf("load stoplist: %w", err)
		}
		if err := st.UpsertStoplist(ctx, sl.Terms); err != nil {
			return fmt.Errorf("upsert stoplist: %w", err)
		}
		importLog.Info("stoplist replaced", "terms", len(sl.Terms))
	}

	fmt.Fprintf(c.App.Writer, "imported %d entities into %s\n", len(entities), c.String("db"))
	return nil
}

func statsCommand(c *cli.Context) error {
	p, err := buildParser(c)
	if err != nil {
		return err
	}

	out := struct {
		gazetteer.Stats
		MinimumTokensRatio float64  `json:"minimum_tokens_ratio"`
		StopWordList       []string `json:"stop_word_list"`
	}{
		Stats:              p.Stats(),
		MinimumTokensRatio: p.MinimumTokensRatio(),
		StopWordList:       p.StopWords(),
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// maxQueryBytes bounds a single stdin query line.
const maxQueryBytes = 16 << 20

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxQueryBytes)
	return scanner
}

// nonNil makes empty results encode as [] rather than null.
func nonNil(parsed []gazetteer.ParsedValue) []gazetteer.ParsedValue {
	if parsed == nil {
		return []gazetteer.ParsedValue{}
	}
	return parsed
}
