package rules

import "fmt"

// Table is an ordered, append-only sequence of rules. It is
// built once at startup by Config loading and is immutable and therefore
// lock-free thereafter -- matching it from many connection goroutines needs
// no synchronization.
type Table struct {
	rules []*Rule
}

// NewTable returns an empty rule table.
func NewTable() *Table {
	return &Table{}
}

// AddRule appends rule to the table, enforcing that no rule is
// unreachable: it is rejected if the table as it stands already matches
// the rule's own operation, treated as a concrete probe built from only
// the labels the rule itself declares.
func (t *Table) AddRule(rule *Rule) error {
	probe := NewOperation()
	for _, k := range rule.Operation.keys {
		probe.Set(k, probeValue(rule.Operation.patterns[k]))
	}

	if masked := t.FindRule(probe); masked != nil {
		return &ConfigError{
			Kind:    "config.unreachable-rule",
			Message: fmt.Sprintf("rule %q is unreachable: already matched by rule %q", rule.Describe(), masked.Describe()),
		}
	}

	t.rules = append(t.rules, rule)
	return nil
}

// probeValue picks a concrete value the pattern itself accepts, used to
// build the self-probe: EXACT's literal, PREFIX's prefix (PREFIX always
// matches its own prefix), or "" for ANY.
func probeValue(p Pattern) string {
	switch p.kind {
	case patternExact:
		return p.exact
	case patternPrefix:
		return p.prefix
	default:
		return ""
	}
}

// FindRule walks the table in order and returns the first rule that
// matches op, or nil if none does.
func (t *Table) FindRule(op Operation) *Rule {
	for _, r := range t.rules {
		if r.matches(op) {
			return r
		}
	}
	return nil
}

// Len reports how many rules the table holds.
func (t *Table) Len() int { return len(t.rules) }

// Rules returns the rules in table order. Callers must not mutate the
// returned slice's elements; the table itself is immutable after construction.
func (t *Table) Rules() []*Rule { return t.rules }
