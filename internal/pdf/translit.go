package pdf

import "strings"

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya", '№': "No", '–': "-", '—': "-", '…': "...",
}

// transliterate maps Cyrillic to Latin for the core font, which has no
// Cyrillic glyphs.
func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		latin, ok := cyrillicToLatin[r]
		if !ok {
			lower := []rune(strings.ToLower(string(r)))[0]
			if mapped, found := cyrillicToLatin[lower]; found && lower != r {
				b.WriteString(capitalize(mapped))
				continue
			}
			b.WriteRune(r)
			continue
		}
		b.WriteString(latin)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
