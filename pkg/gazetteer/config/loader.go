package config

import (
	"context"
	"fmt"

	"github.com/cognicore/gazetteer/pkg/gazetteer"
	"github.com/cognicore/gazetteer/pkg/gazetteer/store"
)

// Loader loads all configuration sources and builds a parser
type Loader struct {
	ConfigPath    string
	Config        *ParserConfig // used instead of ConfigPath when set
	GazetteerPath string        // overrides gazetteer_path from the config file
	StoplistPath  string        // overrides stoplist_path from the config file
	Store         store.Store
}

// Components holds all loaded configuration components
type Components struct {
	Config *ParserConfig
	Parser *gazetteer.Parser
}

// Load reads all configuration sources and returns initialized components.
// Entity values are concatenated in this order: inline config values, the
// gazetteer file, then the store. Stop words from the config, the stoplist
// file and the store are merged.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := &ParserConfig{}
	if l.Config != nil {
		copied := *l.Config
		cfg = &copied
	} else if l.ConfigPath != "" {
		loaded, err := LoadParserConfig(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if l.GazetteerPath != "" {
		cfg.GazetteerPath = l.GazetteerPath
	}
	if l.StoplistPath != "" {
		cfg.StoplistPath = l.StoplistPath
	}

	g := gazetteer.New(cfg.Gazetteer...)

	// Load gazetteer file
	if cfg.GazetteerPath != "" {
		fromFile, err := LoadGazetteer(cfg.GazetteerPath)
		if err != nil {
			return nil, fmt.Errorf("load gazetteer: %w", err)
		}
		for _, v := range fromFile.Values() {
			g.Add(v)
		}
	}

	stopWords := append([]string(nil), cfg.AdditionalStopWords...)

	// Load stoplist
	if cfg.StoplistPath != "" {
		sl, err := LoadStoplist(cfg.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stopWords = append(stopWords, sl.Terms...)
	}

	if l.Store != nil {
		entities, err := l.Store.Entities(ctx)
		if err != nil {
			return nil, fmt.Errorf("load store entities: %w", err)
		}
		for _, e := range entities {
			g.Add(gazetteer.EntityValue{RawValue: e.RawValue, ResolvedValue: e.ResolvedValue})
		}
		stored, err := l.Store.StopWords(ctx)
		if err != nil {
			return nil, fmt.Errorf("load store stop words: %w", err)
		}
		stopWords = append(stopWords, stored...)
	}

	p, err := gazetteer.Build(cfg.Options(g, stopWords))
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}

	return &Components{Config: cfg, Parser: p}, nil
}
