// Package ui draws the HUD, tutorial labels and the end-of-game overlay.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	TitleColor    rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	HintColor     rl.Color
	Padding       int32
	LineHeight    int32
	FontSize      int32
	TitleFontSize int32
	HintFontSize  int32
	ButtonWidth   float32
	ButtonHeight  float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		TitleColor:    rl.White,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.White,
		HintColor:     rl.Color{R: 255, G: 255, B: 255, A: 200},
		Padding:       10,
		LineHeight:    22,
		FontSize:      20,
		TitleFontSize: 40,
		HintFontSize:  18,
		ButtonWidth:   160,
		ButtonHeight:  36,
	}
}
