package enhance

import "image"

// Mode selects the final rendering of an enhanced page.
type Mode string

const (
	// ModeAuto defers the color/monochrome decision to SuggestMode at
	// capture time.
	ModeAuto Mode = "auto"

	// ModeColor keeps the page in full color.
	ModeColor Mode = "color"

	// ModeMonochrome reduces the page to 8-bit grayscale.
	ModeMonochrome Mode = "monochrome"
)

// Settings controls which enhancement stages run and how strongly.
type Settings struct {
	// Mode is the target rendering. Anything other than ModeColor or
	// ModeMonochrome is treated as automatic.
	Mode Mode `json:"mode" yaml:"mode"`

	// ShadowRemoval flattens uneven lighting across the page.
	ShadowRemoval bool `json:"shadow_removal" yaml:"shadow_removal"`

	// BrightnessNormalize pulls paper luminance to a fixed target.
	BrightnessNormalize bool `json:"brightness_normalize" yaml:"brightness_normalize"`

	// ContrastBoost is the contrast multiplier around mid-gray. Values of
	// 0 or 1 leave contrast untouched.
	ContrastBoost float64 `json:"contrast_boost" yaml:"contrast_boost"`

	// Sharpen applies an unsharp mask after tonal adjustments.
	Sharpen bool `json:"sharpen" yaml:"sharpen"`
}

// DefaultSettings returns the recommended scan settings: every cleanup stage
// on, automatic mode selection.
func DefaultSettings() Settings {
	return Settings{
		Mode:                ModeAuto,
		ShadowRemoval:       true,
		BrightnessNormalize: true,
		ContrastBoost:       1.3,
		Sharpen:             true,
	}
}

// Resolve pins the concrete mode for an image: explicit color or monochrome
// settings pass through unchanged, anything else takes the SuggestMode
// recommendation.
func (s Settings) Resolve(img image.Image) Settings {
	switch s.Mode {
	case ModeColor, ModeMonochrome:
		return s
	}
	s.Mode = SuggestMode(img)
	return s
}
