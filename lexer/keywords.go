package lexer

// keywordsByLen buckets the fixed keyword vocabulary by length so that
// lookupKeyword never has to scan entries that cannot match, mirroring
// the length-bucketed dispatch used by larger SQL lexers in this corpus.
var keywordsByLen [17][]kwEntry

type kwEntry struct {
	word string
	tok  TokenType
}

func init() {
	words := []kwEntry{
		{"by", BY},
		{"or", OR},
		{"on", ON},
		{"as", AS},
		{"is", IS},
		{"in", IN},
		{"add", ADD},
		{"and", AND},
		{"not", NOT},
		{"jar", JAR},
		{"set", SET},
		{"end", END},
		{"row", ROW},
		{"from", FROM},
		{"full", FULL},
		{"join", JOIN},
		{"left", LEFT},
		{"like", LIKE},
		{"when", WHEN},
		{"then", THEN},
		{"else", ELSE},
		{"true", TRUE_KW},
		{"over", OVER},
		{"case", CASE},
		{"null", NULL_KW},
		{"where", WHERE},
		{"group", GROUP},
		{"order", ORDER},
		{"limit", LIMIT},
		{"inner", INNER},
		{"outer", OUTER},
		{"cross", CROSS},
		{"right", RIGHT},
		{"false", FALSE_KW},
		{"rlike", RLIKE},
		{"table", TABLE},
		{"stored", STORED},
		{"select", SELECT},
		{"having", HAVING},
		{"create", CREATE},
		{"between", BETWEEN},
		{"confidence", CONFIDENCE},
		{"partition", PARTITION},
		{"error_target", ERROR_TARGET},
		{"recall_target", RECALL_TARGET},
		{"tblproperties", TBLPROPERTIES},
		{"precision_target", PRECISION_TARGET},
	}
	for _, e := range words {
		l := len(e.word)
		keywordsByLen[l] = append(keywordsByLen[l], e)
	}
}

// lookupKeyword returns the token type for a lowercase identifier, or
// IDENT when val is not one of the reserved words.
func lookupKeyword(val string) TokenType {
	l := len(val)
	if l >= len(keywordsByLen) {
		return IDENT
	}
	for _, e := range keywordsByLen[l] {
		if e.word == val {
			return e.tok
		}
	}
	return IDENT
}
