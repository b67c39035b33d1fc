package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/divvydb/divvy/rules"
	"github.com/divvydb/divvy/util"
)

// bucketKey derives the deterministic backend key for a matched rule:
// serialize the projected labels in sorted-key order via
// util.CanonicalMapIter, append the actor, and hash together with the
// rule's own source operation as a discriminator, so two rules with
// different declared shapes that happen to project to the same labels
// never collide. The hash must be stable across process restarts since
// buckets outlive any one instance in the shared backend.
func bucketKey(rule *rules.Rule, projected rules.Operation, actor string) []byte {
	labels := make(map[string]string, projected.Len())
	for _, k := range projected.Keys() {
		labels[k] = projected.Value(k)
	}

	var sb strings.Builder
	sb.WriteString(rule.Describe())
	for k, v := range util.CanonicalMapIter(labels) {
		sb.WriteByte('|')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	sb.WriteString("|actor=")
	sb.WriteString(actor)

	sum := sha1.Sum([]byte(sb.String()))
	return []byte(hex.EncodeToString(sum[:]))
}
