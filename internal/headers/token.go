package headers

var isTchar [256]bool

func init() {
	tchars := "!#$%&'*+-.^_`|~" +
		"0123456789" +
		"abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for i := 0; i < len(tchars); i++ {
		isTchar[tchars[i]] = true
	}
}

// validFieldName reports whether s is a non-empty RFC 7230 token.
func validFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTchar[s[i]] {
			return false
		}
	}
	return true
}
