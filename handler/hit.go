// Package handler joins the rule matcher and the wire protocol against a
// backend Store to answer one HIT request.
package handler

import (
	"context"
	"time"

	"github.com/divvydb/divvy/rules"
	"github.com/divvydb/divvy/server/metrics"
	"github.com/divvydb/divvy/store"
	"github.com/divvydb/divvy/wire"
)

// MatchType drives the per-match-type metric suffix.
type MatchType string

const (
	MatchRule    MatchType = "rule"
	MatchDefault MatchType = "default"
	MatchNone    MatchType = "none"
)

// Hit resolves op against table, projects it onto the matched rule's
// declared labels, derives the bucket key, consumes credit from st, emits
// the matching metrics, and formats the reply. failOpen governs the reply
// when the backend itself errors: true allows the request through with a
// zeroed reply, false denies it.
func Hit(ctx context.Context, table *rules.Table, st store.Store, sink metrics.Sink, op rules.Operation, failOpen bool) string {
	start := time.Now()
	rule := table.FindRule(op)

	if rule == nil {
		// No rule, no default, so there is nothing to meter against --
		// let it through with a sentinel credit rather than reject it.
		sink.Increment("hit.accepted")
		sink.Increment("hit.accepted." + string(MatchNone))
		sink.Timing("hit", time.Since(start))
		return wire.FormatOK(true, -1, 0)
	}

	matchType := MatchRule
	if rule.Operation.Len() == 0 {
		matchType = MatchDefault
	}

	projected := project(rule, op)
	actor := ""
	if rule.ActorField != "" {
		actor = op.Value(rule.ActorField)
	}
	key := bucketKey(rule, projected, actor)

	allowed, remaining, resetSeconds, err := st.Hit(ctx, key, rule.CreditLimit, rule.ResetSeconds)
	if err != nil {
		// A backend outage must not take the connection down with it,
		// regardless of which way the policy falls.
		sink.Increment("error.backend-unavailable")
		return wire.FormatOK(failOpen, 0, 0)
	}

	if allowed {
		sink.Increment("hit.accepted")
		sink.Increment("hit.accepted." + string(matchType))
	} else {
		sink.Increment("hit.rejected")
		sink.Increment("hit.rejected." + string(matchType))
	}
	sink.Timing("hit", time.Since(start))

	return wire.FormatOK(allowed, remaining, resetSeconds)
}

// project builds the label bag actually sent to the backend: only the
// labels rule declares, with ANY-matched labels pinned to the literal "*"
// regardless of the observed value. Projecting an already-projected
// operation against the same rule is a no-op: every output label is either
// rule's own pinned "*" or op's own untouched value, both of which project
// straight back to themselves.
func project(rule *rules.Rule, op rules.Operation) rules.Operation {
	out := rules.NewOperation()
	for _, k := range rule.Operation.Keys() {
		pat, _ := rule.Operation.Pattern(k)
		if pat.IsAny() {
			out.Set(k, "*")
		} else {
			out.Set(k, op.Value(k))
		}
	}
	return out
}
