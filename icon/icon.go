// Package icon provides a multi-variant rendering engine for the symbols prefixing progress lines.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/episodl/episodl/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Skip
	Download
	Rename
	Upload
	Episode
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Fail:     {emoji: "💀", nerd: "", plain: "✗", kaomoji: "(╯°□°）╯︵ ┻━┻", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "", plain: "...", kaomoji: "(・_・ヾ", squares: "🟦"},
	Skip:     {emoji: "⏭️", nerd: "", plain: "~", kaomoji: "(￣ー￣)", squares: "🟨"},
	Download: {emoji: "📥", nerd: "", plain: "↓", kaomoji: "(っ˘ω˘ς )", squares: "🟦"},
	Rename:   {emoji: "✏️", nerd: "", plain: "→", kaomoji: "(¬‿¬)", squares: "🟪"},
	Upload:   {emoji: "☁️", nerd: "", plain: "↑", kaomoji: "ヽ(・∀・)ﾉ", squares: "🟦"},
	Episode:  {emoji: "🎬", nerd: "", plain: "▶", kaomoji: "(⌐■_■)", squares: "⬛"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	if d, ok := icons[i]; ok {
		return d.Get()
	}
	return ""
}
