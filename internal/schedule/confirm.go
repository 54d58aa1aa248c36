package schedule

import "strings"

// affirmativePhrases are the spoken confirmations the classifier
// recognizes, matched as whole-word sequences.
var affirmativePhrases = []string{
	"yes",
	"yeah",
	"yep",
	"ok",
	"okay",
	"confirm",
	"confirmed",
	"correct",
	"sure",
	"go ahead",
	"do it",
	"proceed",
	"create it",
	"update it",
	"delete it",
	"absolutely",
	"definitely",
	"that's right",
	"sounds good",
	"perfect",
	"alright",
	"fine",
	"execute",
	"go for it",
}

// negationTokens veto a reply outright. A confirmation that also negates
// ("no, go ahead and cancel it") must never read as affirmative.
var negationTokens = map[string]struct{}{
	"no":     {},
	"nope":   {},
	"nah":    {},
	"not":    {},
	"don't":  {},
	"dont":   {},
	"never":  {},
	"cancel": {},
	"stop":   {},
	"wait":   {},
}

// maxLeadingFiller bounds how many tokens may precede an affirmative
// phrase ("ok go ahead then" confirms, a phrase buried mid-sentence does
// not).
const maxLeadingFiller = 2

var affirmativeTokenSeqs = func() [][]string {
	seqs := make([][]string, len(affirmativePhrases))
	for i, p := range affirmativePhrases {
		seqs[i] = strings.Fields(p)
	}
	return seqs
}()

// confirmTokens lowercases a reply and splits it into words, stripping
// sentence punctuation but keeping apostrophes so contractions survive
// as single tokens ("don't", "that's").
func confirmTokens(reply string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(reply) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

func tokensMatchAt(tokens, phrase []string, start int) bool {
	if start+len(phrase) > len(tokens) {
		return false
	}
	for i, word := range phrase {
		if tokens[start+i] != word {
			return false
		}
	}
	return true
}

// IsAffirmative reports whether a transcribed reply reads as a
// confirmation. The grammar is closed: the reply is tokenized into whole
// words, any negation token vetoes it, and otherwise a known affirmative
// phrase must appear within the first few tokens. Substrings inside
// other words never match, so "unsure" and "measure" stay negative.
//
// The classifier is advisory only: the caller uses it to decide when to
// set confirmed=true, but the gateway never trusts it as the
// authorization gate for a mutation.
func IsAffirmative(reply string) bool {
	tokens := confirmTokens(reply)
	if len(tokens) == 0 {
		return false
	}

	for _, tok := range tokens {
		if _, vetoed := negationTokens[tok]; vetoed {
			return false
		}
	}

	limit := maxLeadingFiller
	if last := len(tokens) - 1; limit > last {
		limit = last
	}
	for _, phrase := range affirmativeTokenSeqs {
		for start := 0; start <= limit; start++ {
			if tokensMatchAt(tokens, phrase, start) {
				return true
			}
		}
	}
	return false
}
