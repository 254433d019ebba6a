package badge

import (
	"fmt"
	"html"
	"unicode/utf8"
)

type Style string

const (
	StyleFlat       Style = "flat"
	StyleFlatSquare Style = "flat-square"
)

func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StyleFlat:
		return StyleFlat, nil
	case StyleFlatSquare:
		return StyleFlatSquare, nil
	}
	return "", fmt.Errorf("unknown badge style %q (want flat|flat-square)", s)
}

var hexForColor = map[string]string{
	"brightgreen": "#4c1",
	"green":       "#97ca00",
	"yellowgreen": "#a4a61d",
	"yellow":      "#dfb317",
	"orange":      "#fe7d37",
	"red":         "#e05d44",
}

// SVG renders a self-contained badge image.
func (b Badge) SVG(style Style) string {
	hex, ok := hexForColor[b.Color]
	if !ok {
		hex = "#9f9f9f"
	}

	labelWidth := float64(utf8.RuneCountInString(b.Label))*6.5 + 10
	gradeWidth := float64(utf8.RuneCountInString(b.Grade))*7.5 + 10
	label, grade := html.EscapeString(b.Label), html.EscapeString(b.Grade)
	totalWidth := labelWidth + gradeWidth

	rx := 3
	if style == StyleFlatSquare {
		rx = 0
	}

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="20">
  <linearGradient id="b" x2="0" y2="100%%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <clipPath id="a">
    <rect width="%.0f" height="20" rx="%d" fill="#fff"/>
  </clipPath>
  <g clip-path="url(#a)">
    <path fill="#555" d="M0 0h%.0fv20H0z"/>
    <path fill="%s" d="M%.0f 0h%.0fv20H%.0fz"/>
    <path fill="url(#b)" d="M0 0h%.0fv20H0z"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%.1f" y="14">%s</text>
    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%.1f" y="14">%s</text>
  </g>
</svg>`,
		totalWidth,
		totalWidth,
		rx,
		labelWidth,
		hex,
		labelWidth, gradeWidth, labelWidth,
		totalWidth,
		labelWidth/2, label,
		labelWidth/2, label,
		labelWidth+gradeWidth/2, grade,
		labelWidth+gradeWidth/2, grade,
	)
}
