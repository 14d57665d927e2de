package htmltok

// namedEntities maps an entity name (without leading & or trailing ;) to
// its replacement text. HTML5 §12.2.4.4 names ~2100 entries; this is the
// commonly-occurring subset, extended from the legacy two-character set
// (amp, lt, gt, quot, apos) through the symbol/arrow/Greek ranges.
var namedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": "\"",
	"apos": "'",

	"nbsp":   " ",
	"copy":   "©",
	"reg":    "®",
	"trade":  "™",
	"deg":    "°",
	"plusmn": "±",
	"cent":   "¢",
	"pound":  "£",
	"euro":   "€",
	"yen":    "¥",
	"sect":   "§",
	"para":   "¶",
	"middot": "·",
	"bull":   "•",
	"hellip": "…",
	"prime":  "′",
	"Prime":  "″",

	"ndash":  "–",
	"mdash":  "—",
	"lsquo":  "‘",
	"rsquo":  "’",
	"ldquo":  "“",
	"rdquo":  "”",
	"sbquo":  "‚",
	"bdquo":  "„",
	"laquo":  "«",
	"raquo":  "»",
	"thinsp": " ",
	"ensp":   " ",
	"emsp":   " ",

	"not":    "¬",
	"times":  "×",
	"divide": "÷",
	"minus":  "−",
	"lowast": "∗",
	"le":     "≤",
	"ge":     "≥",
	"ne":     "≠",
	"equiv":  "≡",
	"asymp":  "≈",
	"infin":  "∞",
	"sum":    "∑",
	"prod":   "∏",
	"radic":  "√",
	"part":   "∂",
	"int":    "∫",

	"larr": "←",
	"uarr": "↑",
	"rarr": "→",
	"darr": "↓",
	"harr": "↔",
	"lArr": "⇐",
	"uArr": "⇑",
	"rArr": "⇒",
	"dArr": "⇓",
	"hArr": "⇔",

	"alpha":   "α",
	"beta":    "β",
	"gamma":   "γ",
	"delta":   "δ",
	"epsilon": "ε",
	"pi":      "π",
	"sigma":   "σ",
	"omega":   "ω",
	"Alpha":   "Α",
	"Beta":    "Β",
	"Gamma":   "Γ",
	"Delta":   "Δ",
	"Pi":      "Π",
	"Sigma":   "Σ",
	"Omega":   "Ω",

	"iexcl":  "¡",
	"iquest": "¿",
	"loz":    "◊",
	"spades": "♠",
	"clubs":  "♣",
	"hearts": "♥",
	"diams":  "♦",
}

// maxEntityNameLen bounds the longest-prefix scan for a named reference.
const maxEntityNameLen = 8

// numericReplacements is the HTML5 table of C1-control code points that a
// numeric character reference maps to a different Unicode code point
// (§13.2.5.72, "the numeric character reference end state").
var numericReplacements = map[int64]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
	0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
	0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
	0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ',
}
