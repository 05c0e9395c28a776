package stats

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
)

// Statistic keys produced by Compute and recognized by the charts package.
const (
	StatCorpusOverview       = "corpus_overview"
	StatMostFrequentWords    = "most_frequent_words"
	StatMostFrequentBigrams  = "most_frequent_bigrams"
	StatMostFrequentTrigrams = "most_frequent_trigrams"
	StatWordLengths          = "word_length_distribution"
	StatPunctuation          = "most_common_punctuation"
	StatLanguages            = "languages_detected"
	StatFieldCompleteness    = "field_completeness_percentage"
	StatTimeDistribution     = "distribution_over_time"
	StatDecadeDistribution   = "distribution_over_decades"

	DistributionPrefix = "distribution_over_"
	MostFrequentPrefix = "most_frequent_"
)

// Kind tags the resolved shape of a statistic value. Shapes are resolved once
// when the value is decoded, never re-inspected downstream.
type Kind int

const (
	KindNull   Kind = iota
	KindScalar      // opaque record, not chartable
	KindPairs       // ordered [label, count] pairs
	KindCounts      // label -> count mapping, insertion order preserved
)

// Pair is a single (label, count) entry.
type Pair struct {
	Label string
	Count float64
}

// Value is a single statistic in its resolved shape. Both KindPairs and
// KindCounts carry their entries in Pairs; the kind records whether the
// original wire shape was an array of pairs or an object.
type Value struct {
	Kind  Kind
	Pairs []Pair
	Raw   json.RawMessage // original payload for KindScalar
}

// PairsValue builds a Value from an ordered pair list.
func PairsValue(pairs []Pair) Value {
	return Value{Kind: KindPairs, Pairs: pairs}
}

// CountsValue builds a Value from an ordered label->count mapping.
func CountsValue(pairs []Pair) Value {
	return Value{Kind: KindCounts, Pairs: pairs}
}

// ScalarValue builds a non-chartable record Value from any JSON-encodable
// payload.
func ScalarValue(v any) Value {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{Kind: KindNull}
	}
	return Value{Kind: KindScalar, Raw: raw}
}

// IsNull reports whether the value is absent (JSON null or zero Value).
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// UnmarshalJSON resolves the wire shape into a tagged Value:
//   - array of [label, count] pairs -> KindPairs
//   - object with all-numeric values -> KindCounts (key order preserved)
//   - anything else -> KindScalar
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{Kind: KindNull}
		return nil
	}
	switch trimmed[0] {
	case '[':
		if pairs, ok := decodePairs(trimmed); ok {
			*v = Value{Kind: KindPairs, Pairs: pairs}
			return nil
		}
	case '{':
		if pairs, ok := decodeCounts(trimmed); ok {
			*v = Value{Kind: KindCounts, Pairs: pairs}
			return nil
		}
	}
	*v = Value{Kind: KindScalar, Raw: append(json.RawMessage(nil), trimmed...)}
	return nil
}

func decodePairs(data []byte) ([]Pair, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, false
	}
	pairs := make([]Pair, 0, len(elems))
	for _, e := range elems {
		var tuple []json.RawMessage
		if err := json.Unmarshal(e, &tuple); err != nil || len(tuple) != 2 {
			return nil, false
		}
		label, ok := decodeLabel(tuple[0])
		if !ok {
			return nil, false
		}
		var count float64
		if err := json.Unmarshal(tuple[1], &count); err != nil {
			return nil, false
		}
		pairs = append(pairs, Pair{Label: label, Count: count})
	}
	return pairs, true
}

// decodeLabel accepts string or numeric labels; word-length pairs carry their
// label as a bare number on the wire.
func decodeLabel(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func decodeCounts(data []byte) ([]Pair, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}
	var pairs []Pair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, false
		}
		count, err := num.Float64()
		if err != nil {
			return nil, false
		}
		pairs = append(pairs, Pair{Label: key, Count: count})
	}
	return pairs, true
}

// MarshalJSON writes the value back in its original wire shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindPairs:
		tuples := make([][2]any, len(v.Pairs))
		for i, p := range v.Pairs {
			tuples[i] = [2]any{p.Label, p.Count}
		}
		return json.Marshal(tuples)
	case KindCounts:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, p := range v.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(p.Label)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.WriteString(strconv.FormatFloat(p.Count, 'f', -1, 64))
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindScalar:
		if v.Raw == nil {
			return []byte("null"), nil
		}
		return v.Raw, nil
	default:
		return []byte("null"), nil
	}
}

// Bag is the full set of computed statistics for one query result, keyed by
// statistic name. It is treated as a frozen snapshot by all consumers.
type Bag map[string]Value

// Has reports whether key is present with a non-null value.
func (b Bag) Has(key string) bool {
	v, ok := b[key]
	return ok && !v.IsNull()
}

// Keys returns the present, non-null keys in sorted order.
func (b Bag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		if b.Has(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
