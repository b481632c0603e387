package config

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/gazetteer/pkg/gazetteer"
	"github.com/cognicore/gazetteer/pkg/gazetteer/store"
	"github.com/cognicore/gazetteer/pkg/gazetteer/store/memstore"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}

	_, err := loader.Load(context.Background())
	if !errors.Is(err, gazetteer.ErrConfiguration) {
		t.Fatalf("empty loader should fail with ErrConfiguration, got %v", err)
	}
}

func TestLoaderNonExistentConfig(t *testing.T) {
	loader := Loader{ConfigPath: "/nonexistent/parser.yaml"}

	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent config")
	}
}

func TestLoaderNonExistentGazetteer(t *testing.T) {
	dir := t.TempDir()
	loader := Loader{
		ConfigPath:    writeFile(t, dir, "parser.yaml", "minimum_tokens_ratio: 0.5\n"),
		GazetteerPath: filepath.Join(dir, "missing.txt"),
	}

	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent gazetteer")
	}
}

func TestLoaderNonExistentStoplist(t *testing.T) {
	dir := t.TempDir()
	loader := Loader{
		ConfigPath:   writeFile(t, dir, "parser.yaml", "minimum_tokens_ratio: 0.5\ngazetteer: [{raw_value: a, resolved_value: A}]\n"),
		StoplistPath: filepath.Join(dir, "missing.yaml"),
	}

	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}
}

func TestLoaderMergesSources(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, dir, "artists.txt", "the rolling stones|The Rolling Stones\nthe crying stones|The Crying Stones\n")
	writeFile(t, dir, "stoplist.yaml", "terms:\n  - the\n")
	cfgPath := writeFile(t, dir, "parser.yaml", `minimum_tokens_ratio: 0.6
additional_stop_words: [stones]
gazetteer_path: artists.txt
stoplist_path: stoplist.yaml
gazetteer:
  - raw_value: king of pop
    resolved_value: Michael Jackson
`)

	st := memstore.New()
	if err := st.AppendEntities(ctx, []store.Entity{{RawValue: "queen of soul", ResolvedValue: "Aretha Franklin"}}); err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertStoplist(ctx, []string{"of"}); err != nil {
		t.Fatal(err)
	}

	comp, err := (&Loader{ConfigPath: cfgPath, Store: st}).Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if comp.Config.MinimumTokensRatio != 0.6 {
		t.Errorf("config not loaded: %+v", comp.Config)
	}

	var resolved []string
	for _, v := range comp.Parser.Gazetteer().Values() {
		resolved = append(resolved, v.ResolvedValue)
	}
	want := []string{"Michael Jackson", "The Rolling Stones", "The Crying Stones", "Aretha Franklin"}
	if !reflect.DeepEqual(resolved, want) {
		t.Errorf("gazetteer order = %v, want %v", resolved, want)
	}

	// Token ids: king, of, pop, the, rolling, stones, ...
	if got, want := comp.Parser.StopWords(), []string{"of", "the", "stones"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StopWords() = %v, want %v", got, want)
	}
}

func TestLoaderOverridesConfigPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "brel|Jacques Brel\n")
	override := writeFile(t, dir, "b.txt", "brel|Daniel Brel\n")
	cfgPath := writeFile(t, dir, "parser.yaml", "minimum_tokens_ratio: 1\ngazetteer_path: a.txt\n")

	comp, err := (&Loader{ConfigPath: cfgPath, GazetteerPath: override}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	values := comp.Parser.Gazetteer().Values()
	if len(values) != 1 || values[0].ResolvedValue != "Daniel Brel" {
		t.Errorf("override ignored: %v", values)
	}
}

func TestLoaderPreloadedConfig(t *testing.T) {
	cfg := &ParserConfig{
		MinimumTokensRatio: 0.5,
		Gazetteer:          []gazetteer.EntityValue{{RawValue: "the hives", ResolvedValue: "The Hives"}},
	}
	dir := t.TempDir()
	stoplist := writeFile(t, dir, "stoplist.yaml", "terms: [the]\n")

	comp, err := (&Loader{Config: cfg, ConfigPath: "/nonexistent.yaml", StoplistPath: stoplist}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoplistPath != "" {
		t.Error("Load must not modify the preloaded config")
	}
	if got := comp.Parser.StopWords(); !reflect.DeepEqual(got, []string{"the"}) {
		t.Errorf("StopWords() = %v", got)
	}
}

type brokenStopWords struct {
	*memstore.Store
}

func (brokenStopWords) StopWords(context.Context) ([]string, error) {
	return nil, errors.New("disk I/O error")
}

func TestLoaderReportsStoreStopWordErrors(t *testing.T) {
	cfg := &ParserConfig{
		MinimumTokensRatio: 0.5,
		Gazetteer:          []gazetteer.EntityValue{{RawValue: "the hives", ResolvedValue: "The Hives"}},
	}

	_, err := (&Loader{Config: cfg, Store: brokenStopWords{memstore.New()}}).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk I/O error") {
		t.Fatalf("expected the store error to surface, got %v", err)
	}
}
