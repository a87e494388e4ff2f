// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/pocketstudio/internal/model"
)

func TestNewTheme_PicksPalette(t *testing.T) {
	assert.Equal(t, LightPalette, NewTheme(false, model.FontMedium).Palette)
	assert.Equal(t, DarkPalette, NewTheme(true, model.FontMedium).Palette)
}

func TestApply_SwitchesModeAndSize(t *testing.T) {
	th := NewTheme(false, model.FontMedium)
	th.Apply(true, model.FontLarge)
	assert.True(t, th.Dark)
	assert.Equal(t, DarkPalette, th.Palette)
	assert.Equal(t, [2]int{1, 2}, th.BubblePadding())
}

func TestFontSizeMetrics(t *testing.T) {
	tests := []struct {
		fs    model.FontSize
		width int
		gap   int
	}{
		{model.FontSmall, 90, 0},
		{model.FontMedium, 80, 1},
		{model.FontLarge, 70, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.fs), func(t *testing.T) {
			th := NewTheme(false, tt.fs)
			th.SetSize(100, 30)
			assert.Equal(t, tt.width, th.BubbleWidth(0))
			assert.Equal(t, tt.gap, th.MessageGap())
		})
	}
}

func TestBubbleWidth_FixedAndMinimum(t *testing.T) {
	th := NewTheme(false, model.FontMedium)
	th.SetSize(100, 30)
	assert.Equal(t, 60, th.BubbleWidth(60))
	assert.Equal(t, 98, th.BubbleWidth(400))

	th.SetSize(10, 5)
	assert.Equal(t, 20, th.BubbleWidth(0))
}

func TestGetLayoutMode(t *testing.T) {
	th := NewTheme(false, model.FontMedium)
	th.SetSize(40, 20)
	assert.Equal(t, LayoutNarrow, th.GetLayoutMode())
	th.SetSize(80, 20)
	assert.Equal(t, LayoutMedium, th.GetLayoutMode())
	th.SetSize(120, 20)
	assert.Equal(t, LayoutWide, th.GetLayoutMode())
}
