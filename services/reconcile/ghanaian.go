package reconcile

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"churchledger-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

const variantTokenScore = 0.85

var ghanaianTitles = map[string]struct{}{
	"pastor": {}, "ps": {}, "past": {}, "rev": {}, "revd": {}, "reverend": {}, "very": {},
	"elder": {}, "eld": {}, "deacon": {}, "dcn": {}, "deaconess": {}, "dcns": {}, "dss": {},
	"mr": {}, "mrs": {}, "ms": {}, "miss": {}, "madam": {}, "mad": {}, "maame": {},
	"dr": {}, "prof": {}, "apostle": {}, "apst": {}, "prophet": {}, "prophetess": {},
	"evangelist": {}, "evang": {}, "bishop": {}, "overseer": {}, "brother": {}, "bro": {},
	"sister": {}, "sis": {}, "auntie": {}, "aunty": {}, "uncle": {}, "hon": {},
	"opanin": {}, "opanyin": {}, "obaapanin": {}, "nana": {}, "mama": {}, "papa": {},
	"lady": {}, "lt": {}, "capt": {}, "col": {}, "jnr": {}, "jr": {}, "snr": {}, "sr": {},
}

// Akan day names and their regional spellings, mapped to one canonical form.
var dayNames = map[string]string{
	// male
	"kwadwo": "kwadwo", "kojo": "kwadwo", "jojo": "kwadwo", "kwadjo": "kwadwo", "kodjo": "kwadwo",
	"kwabena": "kwabena", "kobina": "kwabena", "ebo": "kwabena", "kwabina": "kwabena", "kobby": "kwabena",
	"kwaku": "kwaku", "kweku": "kwaku", "kwaaku": "kwaku", "kuuku": "kwaku", "kweeku": "kwaku",
	"yaw": "yaw", "ekow": "yaw", "yao": "yaw", "kwaw": "yaw",
	"kofi": "kofi", "fiifi": "kofi", "fifi": "kofi", "koffi": "kofi",
	"kwame": "kwame", "kwamena": "kwame", "kwami": "kwame", "kwamina": "kwame", "ato": "kwame",
	"kwasi": "kwasi", "kwesi": "kwasi", "akwasi": "kwasi", "kwassi": "kwasi", "siisi": "kwasi",
	// female
	"adwoa": "adwoa", "adjoa": "adwoa", "adjowa": "adwoa", "ajoa": "adwoa",
	"abena": "abena", "abenaa": "abena", "araba": "abena", "abla": "abena",
	"akua": "akua", "ekua": "akua", "akuba": "akua",
	"yaa": "yaa", "aba": "yaa", "yaaba": "yaa",
	"afua": "afua", "efua": "afua", "afia": "afua", "efia": "afua",
	"ama": "ama", "amma": "ama", "ame": "ama",
	"akosua": "akosua", "esi": "akosua", "akos": "akosua", "kosua": "akosua",
}

// Surname spellings that show up interchangeably in handwritten ledgers.
var surnameVariantGroups = [][]string{
	{"mensah", "mensa", "mensar", "menshah"},
	{"owusu", "owusuah", "owusua"},
	{"asante", "ashanti", "asanti", "asantey"},
	{"boateng", "boating", "boatend"},
	{"agyeman", "agyemang", "agyemam", "ageman"},
	{"osei", "ossei", "osey"},
	{"appiah", "apiah", "appia"},
	{"amoah", "amoa", "ammoah"},
	{"acheampong", "achiampong", "acheampon"},
	{"darko", "dako"},
	{"ofori", "offori", "ofory"},
	{"sarpong", "sarpon", "sapong"},
	{"adjei", "adjey", "agyei", "adjeii"},
	{"quaye", "quay", "quarye"},
	{"annan", "anan", "annin"},
	{"kyei", "kyeii", "chei"},
	{"nkrumah", "nkruma", "nkurumah"},
	{"gyamfi", "gyamfuah", "jamfi"},
	{"tetteh", "teteh", "tette"},
	{"addo", "ado", "adoo"},
}

var surnameVariants = func() map[string]int {
	out := make(map[string]int)
	for i, group := range surnameVariantGroups {
		for _, name := range group {
			out[name] = i
		}
	}
	return out
}()

// Ghanaian is the Normalizer for Ghanaian church rosters: honorific
// stripping, Akan day names and surname spelling variants.
type Ghanaian struct{}

var _ Normalizer = Ghanaian{}

func cleanToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func (Ghanaian) StripTitles(name string) string {
	fields := strings.Fields(textutil.NormalizeFolded(name))
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, isTitle := ghanaianTitles[cleanToken(f)]; isTitle {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return strings.Join(fields, " ")
	}
	return strings.Join(kept, " ")
}

func (g Ghanaian) Tokenize(name string) []string {
	stripped := g.StripTitles(name)
	tokens := strings.FieldsFunc(stripped, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == ','
	})

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		// keep trailing periods so initials are still recognized
		key := strings.TrimRight(tok, ".")
		if canonical, ok := dayNames[key]; ok {
			out = append(out, canonical)
			continue
		}
		out = append(out, tok)
	}
	return out
}

func phoneticKey(s string) string {
	primary, _ := matchr.DoubleMetaphone(s)
	return primary
}

func (Ghanaian) AreSurnameVariants(a, b string) bool {
	a = cleanToken(textutil.NormalizeFolded(a))
	b = cleanToken(textutil.NormalizeFolded(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	ga, okA := surnameVariants[a]
	gb, okB := surnameVariants[b]
	if okA && okB {
		return ga == gb
	}

	if utf8.RuneCountInString(a) < 4 || utf8.RuneCountInString(b) < 4 {
		return false
	}
	if !strings.HasPrefix(b, string([]rune(a)[:1])) {
		return false
	}
	return phoneticKey(a) == phoneticKey(b) && Similarity(a, b) >= 0.6
}

func (g Ghanaian) pairScore(a, b string) float64 {
	s := basicPairScore(a, b)
	if s < variantTokenScore && g.AreSurnameVariants(stripPeriods(a), b) {
		return variantTokenScore
	}
	return s
}

func (g Ghanaian) TokenSimilarity(a, b string) float64 {
	return alignTokens(g.Tokenize(a), g.Tokenize(b), g.pairScore)
}

// StripTitles, TokenizeGhanaianName, AreSurnameVariants and
// GhanaianTokenSimilarity expose the Ghanaian layer as plain functions.
func StripTitles(name string) string {
	return Ghanaian{}.StripTitles(name)
}

func TokenizeGhanaianName(name string) []string {
	return Ghanaian{}.Tokenize(name)
}

func AreSurnameVariants(a, b string) bool {
	return Ghanaian{}.AreSurnameVariants(a, b)
}

func GhanaianTokenSimilarity(a, b string) float64 {
	return Ghanaian{}.TokenSimilarity(a, b)
}
