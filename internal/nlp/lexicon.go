package nlp

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

//go:embed lexicon.schema.json
var lexiconSchema string

// ErrInvalidLexicon is returned when a lexicon document fails validation.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// Entry is one row of a keyword table: a label and its trigger phrases in
// the order they are tried.
type Entry struct {
	Label   string   `yaml:"label"`
	Phrases []string `yaml:"phrases"`
}

// Table is an ordered keyword table. Position is priority; it must never be
// turned into a map.
type Table []Entry

// Lexicon holds the intent and topic tables.
type Lexicon struct {
	Intents Table `yaml:"intents"`
	Topics  Table `yaml:"topics"`
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the lexicon compiled into the binary.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse(defaultLexicon)
		if err != nil {
			panic(fmt.Sprintf("embedded lexicon: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// LoadFile reads and validates a lexicon from a YAML file.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return Parse(data)
}

// Parse validates a YAML lexicon document against the lexicon schema and
// decodes it. Phrases are normalised the same way utterances are.
func Parse(data []byte) (*Lexicon, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(lexiconSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validating lexicon: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidLexicon, strings.Join(msgs, "; "))
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	for _, e := range lex.Intents {
		if i := Intent(e.Label); !i.Valid() || i == IntentUnknown {
			return nil, fmt.Errorf("%w: unknown intent label %q", ErrInvalidLexicon, e.Label)
		}
	}
	if err := lex.Intents.checkUnique("intents"); err != nil {
		return nil, err
	}
	if err := lex.Topics.checkUnique("topics"); err != nil {
		return nil, err
	}
	for _, t := range lex.Topics {
		if t.Label == Unknown {
			return nil, fmt.Errorf("%w: %q is reserved", ErrInvalidLexicon, Unknown)
		}
	}

	lex.Intents.normalize()
	lex.Topics.normalize()
	return &lex, nil
}

// Labels returns the table labels in priority order.
func (t Table) Labels() []string {
	labels := make([]string, len(t))
	for i, e := range t {
		labels[i] = e.Label
	}
	return labels
}

func (t Table) checkUnique(name string) error {
	seen := make(map[string]bool, len(t))
	for _, e := range t {
		if seen[e.Label] {
			return fmt.Errorf("%w: duplicate %s label %q", ErrInvalidLexicon, name, e.Label)
		}
		seen[e.Label] = true
	}
	return nil
}

func (t Table) normalize() {
	for i := range t {
		for j, p := range t[i].Phrases {
			t[i].Phrases[j] = Normalize(p)
		}
	}
}
