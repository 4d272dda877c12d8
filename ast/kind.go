package ast

// Kind tags every Expression node. The args key-set permitted for a node
// is determined entirely by its Kind (see Schema).
type Kind uint8

const (
	Select Kind = iota
	From
	Join
	Where
	And
	Or
	Not
	Column
	Table
	Identifier
	Star
	Literal
	Alias
	Func
	Case
	When
	In
	Tuple
	Between
	Like
	Rlike
	IsNull
	Binary
	Unary
	Window
	Over
	PartitionBy
	OrderBy
	GroupBy
	Limit
	Create
	Properties
	Property
	ErrorTarget
	Confidence
	RecallTarget
	PrecisionTarget
	Annotation
	Command
	Set
	Paren
)

var kindNames = [...]string{
	Select:           "Select",
	From:             "From",
	Join:             "Join",
	Where:            "Where",
	And:              "And",
	Or:               "Or",
	Not:              "Not",
	Column:           "Column",
	Table:            "Table",
	Identifier:       "Identifier",
	Star:             "Star",
	Literal:          "Literal",
	Alias:            "Alias",
	Func:             "Func",
	Case:             "Case",
	When:             "When",
	In:               "In",
	Tuple:            "Tuple",
	Between:          "Between",
	Like:             "Like",
	Rlike:            "Rlike",
	IsNull:           "IsNull",
	Binary:           "Binary",
	Unary:            "Unary",
	Window:           "Window",
	Over:             "Over",
	PartitionBy:      "PartitionBy",
	OrderBy:          "OrderBy",
	GroupBy:          "GroupBy",
	Limit:            "Limit",
	Create:           "Create",
	Properties:       "Properties",
	Property:         "Property",
	ErrorTarget:      "ErrorTarget",
	Confidence:       "Confidence",
	RecallTarget:     "RecallTarget",
	PrecisionTarget:  "PrecisionTarget",
	Annotation:       "Annotation",
	Command:          "Command",
	Set:              "Set",
	Paren:            "Paren",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// ArgSpec lists the argument names permitted (and required) for a Kind.
type ArgSpec struct {
	Required []string
	Optional []string
}

// AllowsKey reports whether key is a permitted argument name for this spec.
func (s ArgSpec) AllowsKey(key string) bool {
	for _, k := range s.Required {
		if k == key {
			return true
		}
	}
	for _, k := range s.Optional {
		if k == key {
			return true
		}
	}
	return false
}

// Schema returns the argument schema for kind. Every node kind used by the
// parser and renderer has a fixed set of permitted argument names here;
// construction validation (Parser.Expression) reads from this table. The
// renderer does not consult it.
var Schema = map[Kind]ArgSpec{
	Select:          {Optional: []string{"expressions", "from", "joins", "where", "groupby", "orderby", "limit", "error_target", "confidence", "recall_target", "precision_target"}},
	From:            {Required: []string{"expressions"}},
	Join:            {Required: []string{"this", "kind"}, Optional: []string{"on"}},
	Where:           {Required: []string{"this"}},
	And:             {Required: []string{"this", "expression"}},
	Or:              {Required: []string{"this", "expression"}},
	Not:             {Required: []string{"this"}},
	Column:          {Required: []string{"this"}, Optional: []string{"table", "db"}},
	Table:           {Required: []string{"this"}, Optional: []string{"db"}},
	Identifier:      {Required: []string{"this"}, Optional: []string{"quoted"}},
	Star:            {},
	Literal:         {Required: []string{"this", "is_string"}},
	Alias:           {Required: []string{"this", "alias"}},
	Func:            {Required: []string{"this"}, Optional: []string{"expressions", "distinct"}},
	Case:            {Optional: []string{"ifs", "default"}},
	When:            {Required: []string{"this", "then"}},
	In:              {Required: []string{"this"}, Optional: []string{"expressions", "query", "not"}},
	Tuple:           {Required: []string{"expressions"}},
	Between:         {Required: []string{"this", "low", "high"}, Optional: []string{"not"}},
	Like:            {Required: []string{"this", "expression"}, Optional: []string{"not"}},
	Rlike:           {Required: []string{"this", "expression"}, Optional: []string{"not"}},
	IsNull:          {Required: []string{"this"}, Optional: []string{"not"}},
	Binary:          {Required: []string{"this", "op", "expression"}},
	Unary:           {Required: []string{"this", "op"}},
	Window:          {Required: []string{"this"}, Optional: []string{"over"}},
	Over:            {Optional: []string{"partitionby", "orderby"}},
	PartitionBy:     {Required: []string{"expressions"}},
	OrderBy:         {Required: []string{"expressions"}},
	GroupBy:         {Required: []string{"expressions"}},
	Limit:           {Required: []string{"this"}},
	Create:          {Required: []string{"this", "kind", "expression"}, Optional: []string{"properties"}},
	Properties:      {Optional: []string{"expressions"}},
	Property:        {Required: []string{"this", "value"}},
	ErrorTarget:     {Required: []string{"this"}},
	Confidence:      {Required: []string{"this"}},
	RecallTarget:    {Required: []string{"this"}},
	PrecisionTarget: {Required: []string{"this"}},
	Annotation:      {Required: []string{"this"}},
	Command:         {Required: []string{"this"}},
	Set:             {Required: []string{"this", "value"}},
	Paren:           {Required: []string{"this"}},
}
