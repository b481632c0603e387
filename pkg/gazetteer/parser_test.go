package gazetteer

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func artists() Gazetteer {
	return FromPairs([][2]string{
		{"king of pop", "Michael Jackson"},
		{"the rolling stones", "The Rolling Stones"},
		{"the crying stones", "The Crying Stones"},
		{"the fab four", "The Beatles"},
		{"queen of soul", "Aretha Franklin"},
	})
}

func mustBuild(t *testing.T, opts Options) *Parser {
	t.Helper()
	p, err := Build(opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return p
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty gazetteer", Options{MinimumTokensRatio: 0.5}},
		{"zero ratio", Options{Gazetteer: artists()}},
		{"negative ratio", Options{Gazetteer: artists(), MinimumTokensRatio: -0.1}},
		{"ratio above one", Options{Gazetteer: artists(), MinimumTokensRatio: 1.5}},
		{"nan ratio", Options{Gazetteer: artists(), MinimumTokensRatio: math.NaN()}},
		{"negative stop words", Options{Gazetteer: artists(), MinimumTokensRatio: 0.5, NStopWords: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(tt.opts)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if p != nil {
				t.Error("no parser should be returned on error")
			}
		})
	}
}

func TestBuildAcceptsRatioOne(t *testing.T) {
	p := mustBuild(t, Options{Gazetteer: artists(), MinimumTokensRatio: 1})
	if p.MinimumTokensRatio() != 1 {
		t.Errorf("MinimumTokensRatio = %v", p.MinimumTokensRatio())
	}
}

func TestBuildClampsStopWords(t *testing.T) {
	p := mustBuild(t, Options{Gazetteer: artists(), MinimumTokensRatio: 0.5, NStopWords: 1000})
	if got := p.Stats().StopWords; got != p.Stats().Tokens {
		t.Errorf("expected every token to be a stop word, got %d of %d", got, p.Stats().Tokens)
	}
}

func TestStopWordsFrequencyOrder(t *testing.T) {
	// Counts: the=3, of=2, stones=2, everything else 1. "of" is seen
	// before "stones" and wins the tie.
	p := mustBuild(t, Options{Gazetteer: artists(), MinimumTokensRatio: 0.5, NStopWords: 2})
	if got, want := p.StopWords(), []string{"of", "the"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StopWords() = %v, want %v", got, want)
	}

	p = mustBuild(t, Options{Gazetteer: artists(), MinimumTokensRatio: 0.5, NStopWords: 3})
	if got, want := p.StopWords(), []string{"of", "the", "stones"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StopWords() = %v, want %v", got, want)
	}
}

func TestAdditionalStopWords(t *testing.T) {
	p := mustBuild(t, Options{
		Gazetteer:           artists(),
		MinimumTokensRatio:  0.5,
		AdditionalStopWords: []string{"QUEEN", "unknown", "Of Pop"},
	})

	if got, want := p.StopWords(), []string{"of", "pop", "queen"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StopWords() = %v, want %v", got, want)
	}

	r, ok := p.StopWordReason("Queen")
	if !ok || !r.Configured || r.Frequent || r.Count != 1 {
		t.Errorf("unexpected reason for queen: %+v %v", r, ok)
	}
	if _, ok := p.StopWordReason("unknown"); ok {
		t.Error("words absent from the gazetteer cannot be stop words")
	}
}

func TestStats(t *testing.T) {
	p := mustBuild(t, Options{Gazetteer: artists(), MinimumTokensRatio: 0.5})
	stats := p.Stats()

	if stats.Entities != 5 {
		t.Errorf("Entities = %d, want 5", stats.Entities)
	}
	if stats.Tokens != 11 {
		t.Errorf("Tokens = %d, want 11", stats.Tokens)
	}
	if stats.StopWords != 0 {
		t.Errorf("StopWords = %d, want 0", stats.StopWords)
	}
	if stats.IndexedOccurrences != 15 {
		t.Errorf("IndexedOccurrences = %d, want 15", stats.IndexedOccurrences)
	}
	if len(stats.ID) != 26 {
		t.Errorf("expected a ULID, got %q", stats.ID)
	}

	other := mustBuild(t, Options{Gazetteer: artists(), MinimumTokensRatio: 0.5})
	if other.Stats().ID == stats.ID {
		t.Error("each build should get its own id")
	}
	if other.Stats().Fingerprint != stats.Fingerprint {
		t.Error("same gazetteer should have the same fingerprint")
	}

	values := artists().Values()
	values[1], values[2] = values[2], values[1]
	reordered := mustBuild(t, Options{Gazetteer: New(values...), MinimumTokensRatio: 0.5})
	if reordered.Stats().Fingerprint == stats.Fingerprint {
		t.Error("reordering the gazetteer should change the fingerprint")
	}
}

func TestGazetteerIsCopied(t *testing.T) {
	g := artists()
	p := mustBuild(t, Options{Gazetteer: g, MinimumTokensRatio: 0.5})

	g.Add(EntityValue{RawValue: "the hives", ResolvedValue: "The Hives"})
	if p.Gazetteer().Len() != 5 {
		t.Errorf("parser gazetteer changed after build: %d values", p.Gazetteer().Len())
	}

	values := p.Gazetteer().Values()
	values[0].ResolvedValue = "changed"
	if p.Gazetteer().Values()[0].ResolvedValue != "Michael Jackson" {
		t.Error("Values should return a copy")
	}
}

func TestFromPairsKeepsOrderAndDuplicates(t *testing.T) {
	g := FromPairs([][2]string{
		{"brel", "Jacques Brel"},
		{"brel", "Daniel Brel"},
	})
	want := []EntityValue{
		{RawValue: "brel", ResolvedValue: "Jacques Brel"},
		{RawValue: "brel", ResolvedValue: "Daniel Brel"},
	}
	if !reflect.DeepEqual(g.Values(), want) {
		t.Errorf("Values() = %v, want %v", g.Values(), want)
	}
}
