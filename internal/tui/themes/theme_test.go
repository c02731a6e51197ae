package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPalette(t *testing.T) {
	assert.Equal(t, CatppuccinMocha, GetPalette("catppuccin"))
	assert.Equal(t, CatppuccinMocha, GetPalette("Catppuccin-Mocha"))
	assert.Equal(t, Default, GetPalette("default"))
	assert.Equal(t, Default, GetPalette("unknown"))
}

func TestParseFontScale(t *testing.T) {
	tests := []struct {
		in   string
		want FontScale
	}{
		{in: "small", want: ScaleSmall},
		{in: "NORMAL", want: ScaleNormal},
		{in: "large", want: ScaleLarge},
		{in: "", want: ScaleNormal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseFontScale(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				assert.Equal(t, got.String(), ParseFontScale(got.String()).String())
			}
		})
	}
}

func TestPresentation_Styles(t *testing.T) {
	small := NewPresentation("small", "default").Styles()
	large := NewPresentation("large", "default").Styles()

	top, _, _, _ := small.Box.GetPadding()
	assert.Equal(t, 0, top)
	top, _, _, _ = large.Box.GetPadding()
	assert.Equal(t, 2, top)

	assert.Contains(t, large.Title.Render("bot detector"), "BOT DETECTOR")
	assert.Equal(t, 0, NewPresentation("small", "").SectionGap())
	assert.Equal(t, 1, NewPresentation("normal", "").SectionGap())
}
