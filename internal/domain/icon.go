package domain

import (
	"fmt"
	"strings"
)

// IconKind discriminates the variants of a profile icon reference.
type IconKind string

const (
	IconGenerated IconKind = "generated"
	IconPreset    IconKind = "preset"
	IconCustom    IconKind = "custom"
	IconUploaded  IconKind = "uploaded"
)

// IconRef is the resolved representation of a chosen profile avatar. It is a
// tagged variant: only the fields belonging to Kind are meaningful. A single
// serialization contract (Encode / DecodeIconRef) produces the string stored
// in the user record's profile_image_url column.
type IconRef struct {
	Kind IconKind

	// Generated
	Initials string

	// Generated and Custom
	Background string
	Foreground string

	// Custom
	Text string

	// Preset
	PresetID string

	// Uploaded
	URL string
}

// GeneratedIcon builds the initials-based presentation fallback.
func GeneratedIcon(initials, background, foreground string) IconRef {
	return IconRef{Kind: IconGenerated, Initials: initials, Background: background, Foreground: foreground}
}

// PresetIcon references one of the fixed gallery icons.
func PresetIcon(id string) IconRef {
	return IconRef{Kind: IconPreset, PresetID: id}
}

// CustomIcon is a user-built icon: background color, text color, and a
// 3-character label. Label length is validated by the sign-up workflow, not
// here.
func CustomIcon(background, foreground, text string) IconRef {
	return IconRef{Kind: IconCustom, Background: background, Foreground: foreground, Text: text}
}

// UploadedIcon wraps the public URL returned by the asset store.
func UploadedIcon(url string) IconRef {
	return IconRef{Kind: IconUploaded, URL: url}
}

const avatarScheme = "avatar:"

// Encode renders the reference as the single wire/storage string. Uploaded
// icons encode as their plain URL so the column stays directly resolvable;
// the other variants use the avatar: scheme.
func (r IconRef) Encode() string {
	switch r.Kind {
	case IconUploaded:
		return r.URL
	case IconPreset:
		return avatarScheme + "preset:" + r.PresetID
	case IconCustom:
		return fmt.Sprintf("%scustom:%s:%s:%s", avatarScheme, r.Background, r.Foreground, r.Text)
	case IconGenerated:
		return fmt.Sprintf("%sgen:%s:%s:%s", avatarScheme, r.Initials, r.Background, r.Foreground)
	default:
		return ""
	}
}

// DecodeIconRef parses a stored profile_image_url value back into its
// variant form. Anything outside the avatar: scheme is an uploaded URL.
func DecodeIconRef(s string) (IconRef, error) {
	if s == "" {
		return IconRef{}, fmt.Errorf("empty icon reference")
	}
	if !strings.HasPrefix(s, avatarScheme) {
		return UploadedIcon(s), nil
	}

	rest := strings.TrimPrefix(s, avatarScheme)
	switch {
	case strings.HasPrefix(rest, "preset:"):
		id := strings.TrimPrefix(rest, "preset:")
		if id == "" {
			return IconRef{}, fmt.Errorf("preset icon reference missing id")
		}
		return PresetIcon(id), nil
	case strings.HasPrefix(rest, "custom:"):
		parts := strings.SplitN(strings.TrimPrefix(rest, "custom:"), ":", 3)
		if len(parts) != 3 {
			return IconRef{}, fmt.Errorf("malformed custom icon reference %q", s)
		}
		return CustomIcon(parts[0], parts[1], parts[2]), nil
	case strings.HasPrefix(rest, "gen:"):
		parts := strings.SplitN(strings.TrimPrefix(rest, "gen:"), ":", 3)
		if len(parts) != 3 {
			return IconRef{}, fmt.Errorf("malformed generated icon reference %q", s)
		}
		return GeneratedIcon(parts[0], parts[1], parts[2]), nil
	default:
		return IconRef{}, fmt.Errorf("unknown icon reference %q", s)
	}
}
