package charmap

type grapheme struct {
	key   string
	roman string
}

type sign struct {
	key   string
	roman string
	// attached is the romanization when the sign follows a consonant stem.
	attached string
}

type consonant struct {
	key  string
	stem string
	// halfStem overrides the virama form when it differs from stem.
	halfStem string
}

func (c consonant) half() string {
	if c.halfStem != "" {
		return c.halfStem
	}
	return c.stem
}

var independentVowels = []grapheme{
	{"अ", "a"}, {"आ", "aa"}, {"इ", "i"}, {"ई", "ee"}, {"उ", "u"},
	{"ऊ", "oo"}, {"ए", "e"}, {"ऐ", "ai"}, {"ओ", "o"}, {"औ", "au"},
	{"ऋ", "ri"}, {"ऑ", "o"}, {"ऍ", "e"},
}

var vowelSigns = []sign{
	{"ा", "aa", "aa"}, {"ि", "i", "i"}, {"ी", "ee", "ee"},
	{"ु", "u", "u"}, {"ू", "oo", "oo"}, {"े", "e", "e"},
	{"ै", "ai", "ai"}, {"ो", "o", "o"}, {"ौ", "au", "au"},
	{"ृ", "ri", "ri"}, {"ॉ", "o", "o"}, {"ॅ", "e", "e"},
	{"ं", "n", "an"}, {"ः", "h", "ah"}, {"ँ", "n", "an"},
}

var signs = []grapheme{
	{"्", ""},
	{"़", ""},
	{"ॐ", "om"},
	{"ऽ", "'"},
	{"।", "."},
	{"॥", "."},
	{"₹", "Rs"},
}

var consonants = []consonant{
	{key: "क", stem: "k"}, {key: "ख", stem: "kh"}, {key: "ग", stem: "g"}, {key: "घ", stem: "gh"}, {key: "ङ", stem: "ng"},
	{key: "च", stem: "ch"}, {key: "छ", stem: "chh"}, {key: "ज", stem: "j"}, {key: "झ", stem: "jh"}, {key: "ञ", stem: "ny"},
	{key: "ट", stem: "t"}, {key: "ठ", stem: "th"}, {key: "ड", stem: "d"}, {key: "ढ", stem: "dh"}, {key: "ण", stem: "n"},
	{key: "त", stem: "t"}, {key: "थ", stem: "th"}, {key: "द", stem: "d"}, {key: "ध", stem: "dh"}, {key: "न", stem: "n"},
	{key: "प", stem: "p"}, {key: "फ", stem: "ph"}, {key: "ब", stem: "b"}, {key: "भ", stem: "bh"}, {key: "म", stem: "m"},
	{key: "य", stem: "y"}, {key: "र", stem: "r"}, {key: "ल", stem: "l"}, {key: "व", stem: "v"},
	{key: "श", stem: "sh"}, {key: "ष", stem: "sh"}, {key: "स", stem: "s"}, {key: "ह", stem: "h"},
}

// Nukta letters are keyed in decomposed form (base + U+093C), which is what
// NFC produces for U+0958..U+095F.
var nuktaConsonants = []consonant{
	{key: "क़", stem: "q"},
	{key: "ख़", stem: "kh"},
	{key: "ग़", stem: "gh"},
	{key: "ज़", stem: "z"},
	{key: "फ़", stem: "f"},
	{key: "ड़", stem: "d", halfStem: "r"},
	{key: "ढ़", stem: "rh"},
}

// Conjunct clusters romanized as a unit. Keys are virama-joined consonants.
var conjuncts = []consonant{
	{key: "क्ष", stem: "ksh"}, {key: "त्र", stem: "tr"}, {key: "ज्ञ", stem: "gy"},
	{key: "त्व", stem: "tv"}, {key: "त्म", stem: "tm"}, {key: "प्र", stem: "pr"},
	{key: "स्व", stem: "sv"}, {key: "श्र", stem: "shr"}, {key: "द्र", stem: "dr"},
	{key: "क्र", stem: "kr"}, {key: "ग्र", stem: "gr"}, {key: "द्व", stem: "dv"},
	{key: "द्य", stem: "dy"}, {key: "न्य", stem: "ny"}, {key: "ल्ल", stem: "ll"},
	{key: "त्न", stem: "tn"}, {key: "स्न", stem: "sn"}, {key: "भ्र", stem: "bhr"},
	{key: "स्म", stem: "sm"},

	// Geminates.
	{key: "न्न", stem: "nn"}, {key: "त्त", stem: "tt"}, {key: "द्द", stem: "dd"},
	{key: "द्ध", stem: "ddh"}, {key: "ड्ड", stem: "dd"}, {key: "ट्ट", stem: "tt"},
	{key: "ट्ठ", stem: "tth"}, {key: "क्क", stem: "kk"}, {key: "च्च", stem: "cch"},
	{key: "ज्ज", stem: "jj"}, {key: "प्प", stem: "pp"}, {key: "श्श", stem: "shsh"},
	{key: "स्स", stem: "ss"},

	{key: "क्त", stem: "kt"}, {key: "क्य", stem: "ky"}, {key: "क्ल", stem: "kl"},
	{key: "ग्य", stem: "gy"}, {key: "ग्ल", stem: "gl"}, {key: "घ्य", stem: "ghy"},
	{key: "घ्र", stem: "ghr"}, {key: "च्य", stem: "chy"}, {key: "ज्य", stem: "jy"},
	{key: "ज्व", stem: "jv"}, {key: "ट्य", stem: "ty"}, {key: "ट्र", stem: "tr"},
	{key: "ठ्य", stem: "thy"}, {key: "ड्य", stem: "dy"}, {key: "ढ्य", stem: "dhy"},
	{key: "त्य", stem: "ty"}, {key: "थ्य", stem: "thy"}, {key: "द्भ", stem: "dbh"},
	{key: "न्त", stem: "nt"}, {key: "न्द", stem: "nd"}, {key: "न्ध", stem: "ndh"},
	{key: "प्य", stem: "py"}, {key: "प्ल", stem: "pl"}, {key: "ब्य", stem: "by"},
	{key: "ब्र", stem: "br"}, {key: "भ्य", stem: "bhy"}, {key: "म्य", stem: "my"},
	{key: "व्य", stem: "vy"}, {key: "श्य", stem: "shy"}, {key: "श्ल", stem: "shl"},
	{key: "स्त", stem: "st"}, {key: "स्थ", stem: "sth"}, {key: "स्प", stem: "sp"},
	{key: "स्फ", stem: "sph"}, {key: "स्य", stem: "sy"}, {key: "स्र", stem: "sr"},
	{key: "ह्न", stem: "hn"}, {key: "ह्म", stem: "hm"}, {key: "ह्य", stem: "hy"},
	{key: "ह्र", stem: "hr"}, {key: "ह्ल", stem: "hl"}, {key: "ह्व", stem: "hv"},
	{key: "श्च", stem: "shch"}, {key: "ध्र", stem: "dhr"}, {key: "छ्र", stem: "chhr"},
	{key: "ड्र", stem: "dr"}, {key: "ढ्र", stem: "dhr"}, {key: "फ्र", stem: "phr"},
	{key: "स्क", stem: "sk"}, {key: "स्ख", stem: "skh"}, {key: "ष्ट", stem: "sht"},
	{key: "ष्ठ", stem: "shth"},

	// Three-consonant clusters.
	{key: "स्त्र", stem: "str"}, {key: "न्त्र", stem: "ntr"}, {key: "क्त्र", stem: "ktr"},
	{key: "ष्ट्र", stem: "shtr"},
}

// Marathi adds the retroflex lateral and its archaic variant.
var marathiOverrides = []consonant{
	{key: "ळ", stem: "l"},
	{key: "ऴ", stem: "l"},
}
