package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/gazetteer/pkg/gazetteer"
	"github.com/cognicore/gazetteer/pkg/gazetteer/internalerr"
)

// ParserConfig is the on-disk parser configuration
type ParserConfig struct {
	MinimumTokensRatio  float64                 `yaml:"minimum_tokens_ratio" toml:"minimum_tokens_ratio"`
	NStopWords          int                     `yaml:"n_stop_words" toml:"n_stop_words"`
	AdditionalStopWords []string                `yaml:"additional_stop_words" toml:"additional_stop_words"`
	FoldDiacritics      bool                    `yaml:"fold_diacritics" toml:"fold_diacritics"`
	Gazetteer           []gazetteer.EntityValue `yaml:"gazetteer" toml:"gazetteer"`
	GazetteerPath       string                  `yaml:"gazetteer_path" toml:"gazetteer_path"`
	StoplistPath        string                  `yaml:"stoplist_path" toml:"stoplist_path"`
	DBPath              string                  `yaml:"db_path" toml:"db_path"`
}

// LoadParserConfig loads a parser configuration from a YAML or TOML file,
// chosen by extension. Relative paths inside the file are resolved
// against the file's directory.
func LoadParserConfig(path string) (*ParserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ParserConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", internalerr.ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	dir := filepath.Dir(path)
	cfg.GazetteerPath = resolvePath(dir, cfg.GazetteerPath)
	cfg.StoplistPath = resolvePath(dir, cfg.StoplistPath)
	cfg.DBPath = resolvePath(dir, cfg.DBPath)

	return &cfg, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Options converts the configuration to parser options for the given
// gazetteer and stop words.
func (c *ParserConfig) Options(g gazetteer.Gazetteer, stopWords []string) gazetteer.Options {
	return gazetteer.Options{
		Gazetteer:           g,
		MinimumTokensRatio:  c.MinimumTokensRatio,
		NStopWords:          c.NStopWords,
		AdditionalStopWords: stopWords,
		FoldDiacritics:      c.FoldDiacritics,
	}
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// gazetteerFile is the YAML form of a gazetteer file
type gazetteerFile struct {
	Gazetteer []gazetteer.EntityValue `yaml:"gazetteer"`
}

// LoadGazetteer loads entity values from a file, in file order.
// YAML files (.yaml, .yml) hold a `gazetteer:` list; any other file uses
// the line format: raw value|Resolved Value
func LoadGazetteer(path string) (gazetteer.Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gazetteer.Gazetteer{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var f gazetteerFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return gazetteer.Gazetteer{}, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidInput, path, err)
		}
		return gazetteer.New(f.Gazetteer...), nil
	}

	var g gazetteer.Gazetteer
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		raw, resolved, ok := strings.Cut(line, "|")
		raw, resolved = strings.TrimSpace(raw), strings.TrimSpace(resolved)
		if !ok || raw == "" || resolved == "" || strings.Contains(resolved, "|") {
			return gazetteer.Gazetteer{}, fmt.Errorf("%w: %s:%d: expected \"raw value|Resolved Value\"", internalerr.ErrInvalidInput, path, n+1)
		}
		g.Add(gazetteer.EntityValue{RawValue: raw, ResolvedValue: resolved})
	}

	return g, nil
}
