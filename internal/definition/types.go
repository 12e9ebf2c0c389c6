package definition

const (
	Kind    = "Grammar"
	Version = "v1"
)

// Rule types accepted in a definition.
const (
	RuleInt     = "int"
	RuleLiteral = "literal"
	RuleSpace   = "space"
	RuleEoln    = "eoln"
	RuleEOF     = "eof"
	RuleRepeat  = "repeat"
)

// Definition describes an input grammar as data.
type Definition struct {
	Kind     string   `json:"kind" yaml:"kind" schema:"required,const=Grammar"`
	Version  string   `json:"version" yaml:"version" schema:"required,const=v1"`
	Metadata Metadata `json:"metadata" yaml:"metadata" schema:"required"`
	Rules    []Rule   `json:"rules" yaml:"rules" schema:"required,minItems=1"`
}

type Metadata struct {
	Name        string `json:"name" yaml:"name" schema:"required,pattern=^[a-z0-9_-]+$" description:"grammar name used on the command line and in URLs"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Rule is one step of a grammar. Which fields apply depends on Type.
type Rule struct {
	Type string `json:"type" yaml:"type" schema:"required,enum=int|literal|space|eoln|eof|repeat"`

	// int
	Name         string `json:"name,omitempty" yaml:"name,omitempty" description:"int: name a later repeat can use as countRef"`
	Min          *int64 `json:"min,omitempty" yaml:"min,omitempty" description:"int: inclusive lower bound"`
	Max          *int64 `json:"max,omitempty" yaml:"max,omitempty" description:"int: inclusive upper bound"`
	LeadingZeros bool   `json:"leadingZeros,omitempty" yaml:"leadingZeros,omitempty" description:"int: accept leading zeros"`

	// literal
	Value string `json:"value,omitempty" yaml:"value,omitempty" schema:"minLength=1,maxLength=1" description:"literal: the single expected byte"`

	// repeat
	Count     *int64 `json:"count,omitempty" yaml:"count,omitempty" schema:"minimum=0" description:"repeat: fixed number of iterations"`
	CountRef  string `json:"countRef,omitempty" yaml:"countRef,omitempty" description:"repeat: name of an earlier int holding the number of iterations"`
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty" description:"repeat: space, eoln or a single byte between iterations"`
	Rules     []Rule `json:"rules,omitempty" yaml:"rules,omitempty" description:"repeat: body of one iteration"`
}
