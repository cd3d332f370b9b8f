package filters

// Params holds the entries of a /DecodeParms dictionary converted to Go
// values: int for integers, float64 for reals, bool for booleans and string
// for names and strings.
type Params map[string]any

// Int returns the integer stored under key, or def when the key is absent or
// not numeric.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the boolean stored under key, or def.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}
