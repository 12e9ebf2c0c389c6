// Package problem builds the test data of a problem: every case of every
// bundle is generated from the problem's grammar, validated, and grouped
// into scored tasks.
package problem

const (
	Kind    = "Problem"
	Version = "v1"
)

// Task scoring methods.
const (
	// ScoringSum splits the task score evenly between its cases.
	ScoringSum = "sum"
	// ScoringMin awards the task score only when every case passes.
	ScoringMin = "min"
)

// Problem describes the test data of one problem.
type Problem struct {
	Kind     string `json:"kind" yaml:"kind" schema:"required,const=Problem"`
	Version  string `json:"version" yaml:"version" schema:"required,const=v1"`
	Metadata struct {
		Name string `json:"name" yaml:"name" schema:"required,pattern=^[a-z0-9_-]+$"`
	} `json:"metadata" yaml:"metadata" schema:"required"`

	Grammar     string `json:"grammar" yaml:"grammar" schema:"required" description:"name of the grammar every case must match"`
	GrammarFile string `json:"grammarFile,omitempty" yaml:"grammarFile,omitempty" description:"grammar definition to load, relative to the problem file"`

	Bundles map[string]Bundle `json:"bundles" yaml:"bundles" schema:"required"`
	Tasks   map[string]Task   `json:"tasks" yaml:"tasks" schema:"required"`
}

// Bundle is a named group of cases shared by tasks.
type Bundle struct {
	Cases []Case `json:"cases" yaml:"cases" schema:"required,minItems=1"`
}

// Case is one generated input. Args seed the generator.
type Case struct {
	Args   []string         `json:"args" yaml:"args"`
	Bounds map[string]Range `json:"bounds,omitempty" yaml:"bounds,omitempty" description:"narrow named integers for this case"`
}

type Range struct {
	Min int64 `json:"min" yaml:"min"`
	Max int64 `json:"max" yaml:"max"`
}

type Task struct {
	Score        float64  `json:"score" yaml:"score"`
	Type         string   `json:"type" yaml:"type" schema:"required,enum=sum|min"`
	Bundles      []string `json:"bundles" yaml:"bundles" schema:"required,minItems=1"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}
