package components

import "regexp"

// Story text marks words like {{lb:look}}: a two-letter style code, a colon,
// and the text to style.
var markupRe = regexp.MustCompile(`\{\{([a-z]{2}):(.*?)\}\}`)

// RenderMarkup replaces markup tokens with styled text. Unknown codes are
// rendered plain.
func RenderMarkup(styles Styles, text string) string {
	return markupRe.ReplaceAllStringFunc(text, func(tok string) string {
		m := markupRe.FindStringSubmatch(tok)
		if st, ok := styles.Markup[m[1]]; ok {
			return st.Render(m[2])
		}
		return m[2]
	})
}

// StripMarkup removes markup tokens, keeping their text.
func StripMarkup(text string) string {
	return markupRe.ReplaceAllString(text, "$2")
}
