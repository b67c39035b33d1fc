// Package rules implements the INI config loader that builds an ordered
// rule table, and the matcher that resolves an operation to its governing
// rule.
package rules

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// LoadConfig parses an INI rule file into an ordered, unreachable-rule-
// validated Table. Section order in the file becomes rule precedence in
// the table.
func LoadConfig(path string) (*Table, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return nil, &ConfigError{Kind: "config.parse", Message: err.Error()}
	}

	table := NewTable()
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			// go-ini's implicit section for body lines that precede any
			// [header] -- divvy rule files never have those, so this is
			// always empty and is not itself a rule.
			continue
		}

		ruleOp, err := parseSectionHeader(section.Name())
		if err != nil {
			return nil, &ConfigError{Kind: "config.parse", Message: err.Error()}
		}

		rule := &Rule{
			Operation:    ruleOp,
			CreditLimit:  section.Key("creditLimit").MustInt(0),
			ResetSeconds: section.Key("resetSeconds").MustInt(0),
			ActorField:   section.Key("actorField").String(),
		}
		if section.HasKey("comment") {
			comment := section.Key("comment").String()
			rule.Comment = &comment
		}

		if err := table.AddRule(rule); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// parseSectionHeader implements the rule file's section-header grammar:
// the literal token "default", or one or more whitespace-separated key=value
// tokens. A token with no '=' is a key with the empty-string value; a
// trailing '=' also yields the empty string.
func parseSectionHeader(header string) (RuleOperation, error) {
	header = strings.TrimSpace(header)
	if header == "default" {
		return NewRuleOperation(), nil
	}

	ro := NewRuleOperation()
	for _, tok := range strings.Fields(header) {
		key, value := tok, ""
		if idx := strings.IndexByte(tok, '='); idx >= 0 {
			key, value = tok[:idx], tok[idx+1:]
		}
		if key == "" {
			return RuleOperation{}, fmt.Errorf("section header %q: empty label name in token %q", header, tok)
		}
		ro.Set(key, ParsePattern(value))
	}
	return ro, nil
}
