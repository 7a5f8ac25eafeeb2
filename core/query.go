package core

// Query is a lazily-parsed view over a request's raw query string. Single
// lookups take the zero-allocation fast path (direct scan of the raw
// bytes); All triggers a full parse into borrowed key/value pairs.
type Query struct {
	raw    []byte
	parsed bool
	pairs  []queryPair
}

type queryPair struct {
	key, value []byte
}

func newQuery(raw []byte) Query {
	return Query{raw: raw}
}

// Get performs a direct scan for key without parsing the whole string,
// mirroring bolt/core/context.go's findQueryParam fast path: most handlers
// read one or two params, not all of them.
func (q *Query) Get(key string) (string, bool) {
	if v := scanQueryParam(q.raw, key); v != nil {
		return string(v), true
	}
	if !q.parsed {
		q.parse()
	}
	for _, p := range q.pairs {
		if string(p.key) == key {
			return string(p.value), true
		}
	}
	return "", false
}

// GetDefault returns Get(key) or def if absent.
func (q *Query) GetDefault(key, def string) string {
	if v, ok := q.Get(key); ok {
		return v
	}
	return def
}

// All forces a full parse and returns every key/value pair.
func (q *Query) All() map[string]string {
	if !q.parsed {
		q.parse()
	}
	out := make(map[string]string, len(q.pairs))
	for _, p := range q.pairs {
		out[string(p.key)] = string(p.value)
	}
	return out
}

func (q *Query) parse() {
	q.parsed = true
	rest := q.raw
	for len(rest) > 0 {
		amp := indexByte(rest, '&')
		var pair []byte
		if amp >= 0 {
			pair, rest = rest[:amp], rest[amp+1:]
		} else {
			pair, rest = rest, nil
		}
		if eq := indexByte(pair, '='); eq >= 0 {
			q.pairs = append(q.pairs, queryPair{key: pair[:eq], value: pair[eq+1:]})
		} else if len(pair) > 0 {
			q.pairs = append(q.pairs, queryPair{key: pair, value: nil})
		}
	}
}

func scanQueryParam(query []byte, key string) []byte {
	rest := query
	for len(rest) > 0 {
		amp := indexByte(rest, '&')
		var pair []byte
		if amp >= 0 {
			pair, rest = rest[:amp], rest[amp+1:]
		} else {
			pair, rest = rest, nil
		}
		if len(pair) <= len(key) {
			continue
		}
		if string(pair[:len(key)]) == key && pair[len(key)] == '=' {
			return pair[len(key)+1:]
		}
	}
	return nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}
