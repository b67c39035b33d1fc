package rules

// Operation is the labeled request a client asks divvy to rate-limit: a
// mapping from label name to label value. Order is not
// significant for matching but must be preserved for deterministic
// logging/metric emission, so Operation keeps an explicit key order
// alongside the lookup map rather than relying on Go's randomized map
// iteration.
type Operation struct {
	keys []string
	vals map[string]string
}

// NewOperation returns an empty operation, itself a valid value.
func NewOperation() Operation {
	return Operation{vals: map[string]string{}}
}

// Set assigns value to key. A repeated key overwrites the earlier value in
// place without disturbing its original position.
func (o *Operation) Set(key, value string) {
	if o.vals == nil {
		o.vals = map[string]string{}
	}
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = value
}

// Value returns the label's value, or "" when the label is absent -- the
// treatment used for pattern matching against a missing label.
func (o Operation) Value(key string) string {
	return o.vals[key]
}

// Get returns the label's value and whether it was present at all,
// distinguishing an absent label from one explicitly set to "".
func (o Operation) Get(key string) (string, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns the labels in insertion order.
func (o Operation) Keys() []string { return o.keys }

// Len reports the number of distinct labels.
func (o Operation) Len() int { return len(o.keys) }
