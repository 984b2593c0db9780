package utils

import "strings"

// Slugify derives the URL-safe identifier for a restaurant from its
// name and city: lowercased, runs of non-alphanumerics collapsed to a
// single hyphen, leading and trailing hyphens stripped.
// "Joe's Pizza" + "Seattle" -> "joe-s-pizza-seattle".
func Slugify(name, city string) string {
	combined := strings.ToLower(name + "-" + city)
	var b strings.Builder
	prevHyphen := false
	for _, r := range combined {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
