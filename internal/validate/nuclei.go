package validate

// Vowel nuclei written without tone. Every entry also admits the forms with
// some of its vowel marks still missing, since marks are typed after the
// letters they sit on.
var openNuclei = []string{
	"a", "ă", "â", "e", "ê", "i", "o", "ô", "ơ", "u", "ư", "y",
	"ai", "ao", "au", "âu", "ay", "ây", "eo", "êu", "ia", "iê", "iu",
	"oa", "oă", "oe", "oi", "ôi", "ơi", "oo", "ua", "uâ", "uê", "ui",
	"uô", "uơ", "uy", "ưa", "ưi", "ươ", "ưu", "yê",
	"iêu", "oai", "oay", "oeo", "uây", "uôi", "ươi", "ươu", "uya",
	"uyê", "uyu", "yêu",
}

// Nuclei that may be followed by a final consonant.
var closedNucleiList = []string{
	"a", "ă", "â", "e", "ê", "i", "o", "ô", "ơ", "u", "ư",
	"iê", "yê", "oa", "oă", "oe", "oo", "uâ", "uê", "uô", "ươ", "uy", "uyê",
}

var (
	partialNuclei = expandPartial(openNuclei)
	closedNuclei  = expandPartial(closedNucleiList)
)

var unmarked = map[rune]rune{
	'ă': 'a', 'â': 'a', 'ê': 'e', 'ô': 'o', 'ơ': 'o', 'ư': 'u',
}

func expandPartial(list []string) map[string]bool {
	out := make(map[string]bool, len(list)*3)
	for _, entry := range list {
		for _, form := range dropMarks([]rune(entry)) {
			out[form] = true
		}
	}
	return out
}

// dropMarks returns every spelling of word with any subset of its marked
// vowels replaced by the bare letter.
func dropMarks(word []rune) []string {
	forms := []string{""}
	for _, r := range word {
		next := make([]string, 0, len(forms)*2)
		for _, prefix := range forms {
			next = append(next, prefix+string(r))
			if bare, ok := unmarked[r]; ok {
				next = append(next, prefix+string(bare))
			}
		}
		forms = next
	}
	return forms
}
