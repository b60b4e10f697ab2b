package workflow

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Kind is the coarse classification used for heuristic widget matching
// on generic nodes.
type Kind int

const (
	KindOther Kind = iota
	KindSampler
	KindScheduler
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindSampler:
		return "sampler"
	case KindScheduler:
		return "scheduler"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

//go:embed vocab.yaml
var vocabData []byte

// Vocabulary holds the domain name sets used to classify string values.
// The default sets ship as embedded data so they can be revised without
// touching matching logic.
type Vocabulary struct {
	Samplers   []string `yaml:"samplers"`
	Schedulers []string `yaml:"schedulers"`

	samplerSet   map[string]struct{}
	schedulerSet map[string]struct{}
	once         sync.Once
}

var (
	defaultVocab     *Vocabulary
	defaultVocabOnce sync.Once
)

// DefaultVocabulary returns the vocabulary bundled with the binary.
func DefaultVocabulary() *Vocabulary {
	defaultVocabOnce.Do(func() {
		v := &Vocabulary{}
		if err := yaml.Unmarshal(vocabData, v); err != nil {
			// the embedded file is part of the build; failing to parse
			// it is a programming error
			panic(fmt.Sprintf("workflow: invalid embedded vocabulary: %v", err))
		}
		defaultVocab = v
	})
	return defaultVocab
}

func (vb *Vocabulary) index() {
	vb.once.Do(func() {
		vb.samplerSet = make(map[string]struct{}, len(vb.Samplers))
		for _, s := range vb.Samplers {
			vb.samplerSet[s] = struct{}{}
		}
		vb.schedulerSet = make(map[string]struct{}, len(vb.Schedulers))
		for _, s := range vb.Schedulers {
			vb.schedulerSet[s] = struct{}{}
		}
	})
}

// Classify assigns the heuristic kind of a value: a string is a sampler
// name, a scheduler name, or a generic string; everything else is other.
func (vb *Vocabulary) Classify(v Value) Kind {
	if !v.IsString() {
		return KindOther
	}
	vb.index()
	if _, ok := vb.samplerSet[v.Text()]; ok {
		return KindSampler
	}
	if _, ok := vb.schedulerSet[v.Text()]; ok {
		return KindScheduler
	}
	return KindString
}
