// Package textfilter cleans text players type into the badge before it is
// stored or shown to other people, such as nicknames and notebook lines.
package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxNickname is the longest nickname kept, in runes.
const DefaultMaxNickname = 24

// swearWordReplacements maps swear words to family-friendly alternatives
var swearWordReplacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"dick":         "jerk",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"dipshit":      "dummy",
	"shithead":     "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
	"douchebag":    "jerk",
	"douche":       "jerk",
}

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// ProfanityFilter handles filtering and replacement of profanity
type ProfanityFilter struct {
	rules []rule
}

// NewProfanityFilter creates a new profanity filter
func NewProfanityFilter() *ProfanityFilter {
	words := make([]string, 0, len(swearWordReplacements))
	for w := range swearWordReplacements {
		words = append(words, w)
	}
	// Longest first so compounds are replaced before their parts.
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	pf := &ProfanityFilter{rules: make([]rule, 0, len(words))}
	for _, word := range words {
		// Optional plural "s" or "es".
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `(e?s)?\b`
		pf.rules = append(pf.rules, rule{
			re:          regexp.MustCompile(pattern),
			replacement: swearWordReplacements[word],
		})
	}
	return pf
}

// FilterText replaces profanity in the input text with family-friendly alternatives
func (pf *ProfanityFilter) FilterText(text string) string {
	result := text
	for _, r := range pf.rules {
		result = r.re.ReplaceAllStringFunc(result, func(match string) string {
			sub := r.re.FindStringSubmatch(match)
			replacement := r.replacement
			if len(sub) > 1 && sub[1] != "" && !strings.HasPrefix(replacement, "[") {
				replacement += "s"
			}
			return preserveCase(match, replacement)
		})
	}
	return result
}

// ContainsProfanity checks if the text contains any profanity
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	for _, r := range pf.rules {
		if r.re.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the replacement
func preserveCase(original, replacement string) string {
	if len(original) == 0 {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: copy the pattern rune by rune.
	replacementRunes := []rune(replacement)
	result := make([]rune, 0, len(replacementRunes))
	originalRunes := []rune(original)
	for i, r := range replacementRunes {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}

// Sanitizer prepares player supplied names.
type Sanitizer struct {
	profanity *ProfanityFilter
	maxRunes  int
}

// NewSanitizer returns a Sanitizer. A nil filter keeps the words as typed.
func NewSanitizer(pf *ProfanityFilter, maxRunes int) *Sanitizer {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxNickname
	}
	return &Sanitizer{profanity: pf, maxRunes: maxRunes}
}

// Nickname strips control and format characters, collapses runs of
// whitespace, filters profanity and truncates to the rune limit. The result
// may be empty, which callers treat as "unchanged".
func (s *Sanitizer) Nickname(in string) string {
	var b strings.Builder
	for _, r := range in {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if s.profanity != nil {
		out = s.profanity.FilterText(out)
	}
	if runes := []rune(out); len(runes) > s.maxRunes {
		out = strings.TrimSpace(string(runes[:s.maxRunes]))
	}
	return out
}
