package rules

import "strings"

// RuleOperation is a rule's declared half of an operation: a mapping from
// label name to the Pattern it must satisfy. Like Operation,
// it keeps an explicit key order so diagnostics can render the rule the way
// it was written.
type RuleOperation struct {
	keys     []string
	patterns map[string]Pattern
}

// NewRuleOperation returns the empty declared operation -- the shape of the
// default, catch-all rule.
func NewRuleOperation() RuleOperation {
	return RuleOperation{patterns: map[string]Pattern{}}
}

// Set declares that label key must satisfy pattern.
func (ro *RuleOperation) Set(key string, pattern Pattern) {
	if ro.patterns == nil {
		ro.patterns = map[string]Pattern{}
	}
	if _, exists := ro.patterns[key]; !exists {
		ro.keys = append(ro.keys, key)
	}
	ro.patterns[key] = pattern
}

// Pattern returns the pattern declared for key, if any.
func (ro RuleOperation) Pattern(key string) (Pattern, bool) {
	p, ok := ro.patterns[key]
	return p, ok
}

// Keys returns the declared labels in source order.
func (ro RuleOperation) Keys() []string { return ro.keys }

// Len reports how many labels this operation declares; zero means the
// default, always-matching rule.
func (ro RuleOperation) Len() int { return len(ro.keys) }

// Rule is an immutable entry in the rule table: the family of
// operations it governs, the credit budget it assigns, and the optional
// label that partitions that budget per actor.
type Rule struct {
	Operation    RuleOperation
	CreditLimit  int
	ResetSeconds int
	ActorField   string
	Comment      *string
}

// matches reports whether every label r declares is satisfied by op,
// treating a label missing from op as "". Labels present in op but not
// declared by r are ignored.
func (r *Rule) matches(op Operation) bool {
	for _, k := range r.Operation.keys {
		if !r.Operation.patterns[k].Matches(op.Value(k)) {
			return false
		}
	}
	return true
}

// Describe renders the rule's declared operation back to its source
// spelling (e.g. "method=GET path=/ping* ip=*", or "default" for the
// catch-all rule). Used in unreachable-rule diagnostics and as the bucket
// key discriminator.
func (r *Rule) Describe() string {
	if len(r.Operation.keys) == 0 {
		return "default"
	}
	var sb strings.Builder
	for i, k := range r.Operation.keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(r.Operation.patterns[k].String())
	}
	return sb.String()
}
