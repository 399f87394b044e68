package signup

import (
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/pick-your-pour/signup-service/internal/domain"
)

// avatarForeground is the fixed text color for generated icons.
const avatarForeground = "#FFFFF0"

// avatarPalette is the fixed pool of background colors sampled for generated
// icons.
var avatarPalette = []string{
	"#722F37", // merlot
	"#2F4F4F", // slate
	"#8B4513", // oak
	"#4B0082", // plum
	"#556B2F", // olive
	"#1C3A5E", // midnight
}

// Initials derives the generated icon's label from the username: three words
// yield the first letter of each, two words the first letter of each,
// anything else the first three characters, all upper-cased.
func Initials(username string) string {
	words := strings.Fields(username)
	switch len(words) {
	case 2, 3:
		var b strings.Builder
		for _, w := range words {
			r, _ := utf8.DecodeRuneInString(w)
			b.WriteRune(r)
		}
		return strings.ToUpper(b.String())
	default:
		runes := []rune(strings.TrimSpace(username))
		if len(runes) > 3 {
			runes = runes[:3]
		}
		return strings.ToUpper(string(runes))
	}
}

// GenerateAvatar builds the presentation fallback icon for a username: the
// documented initials rule with a randomly sampled background.
func GenerateAvatar(username string) domain.IconRef {
	bg := avatarPalette[rand.Intn(len(avatarPalette))]
	return domain.GeneratedIcon(Initials(username), bg, avatarForeground)
}
