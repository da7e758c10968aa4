// Package layout positions the contents of one slide on the fixed
// widescreen template and fits images to their boxes. It is pure
// geometry: all asset bytes are fetched before Compose runs.
package layout

import (
	"fmt"

	"github.com/slateworks/deckforge/biz/model/deck"
)

// Canvas geometry in inches (16:9 widescreen).
const (
	CanvasW = 13.33
	CanvasH = 7.5

	titleX = 0.5
	titleY = 0.3
	titleW = 9.2
	titleH = 0.8

	// Logo slot, top-right corner. Contain-fitted, never distorted.
	LogoX = 11.63
	LogoY = 0.3
	LogoW = 1.5
	LogoH = 0.75

	// Quality badge slot, left of the logo slot. The position is the
	// same whether or not a logo is present.
	BadgeX = 9.93
	BadgeY = 0.4
	BadgeW = 1.5
	BadgeH = 0.55

	bodyY = 1.4
	bodyH = 5.7

	// Left text block, ~40% of the body width.
	textX = 0.5
	textW = 4.93

	// Right image grid, ~60% of the body width.
	gridX = 5.73
	gridW = 7.1

	cellGap  = 0.1
	captionH = 0.3
)

// BadgeLabel is the text rendered inside the quality badge. The visual
// style is a fixed template constant.
const BadgeLabel = "EQI"

// PlaceholderLabel is rendered inside cells whose asset was unavailable.
const PlaceholderLabel = "missing image"

// avgCharWidth approximates a 10pt italic character in inches, used for
// deterministic caption truncation.
const avgCharWidth = 0.08

// Box is a rectangle on the slide canvas, in inches.
type Box struct {
	X, Y, W, H float64
}

// Kind discriminates placements for the serializer.
type Kind int

const (
	KindTitle Kind = iota
	KindLogo
	KindBadge
	KindBullets
	KindImage
	KindCaption
	KindPlaceholder
)

// Placement is one positioned element of a slide.
type Placement struct {
	Kind  Kind
	Box   Box
	Text  string   // title, badge label, caption, placeholder label
	Lines []string // bullet lines
	Image []byte   // fitted PNG, exactly Box-sized at DPI
}

// Slide is the fully laid out content of one slide.
type Slide struct {
	Title      string
	Placements []Placement
}

// Input carries one project plus its pre-fetched asset bytes. Images
// aligns with Spec.Images; a nil element means the asset was
// unavailable and renders as a placeholder.
type Input struct {
	Spec   deck.ProjectSpec
	Logo   []byte
	Images [][]byte
}

// Compose lays out one slide. Returned warnings describe recoverable
// conditions (dropped surplus images, placeholder substitutions).
func Compose(in Input) (*Slide, []string) {
	var warnings []string
	slide := &Slide{Title: in.Spec.Title}

	slide.Placements = append(slide.Placements, Placement{
		Kind: KindTitle,
		Box:  Box{X: titleX, Y: titleY, W: titleW, H: titleH},
		Text: in.Spec.Title,
	})

	if in.Spec.Logo != nil {
		if in.Logo == nil {
			warnings = append(warnings, fmt.Sprintf("logo %s unavailable, slot left blank", in.Spec.Logo))
		} else if fitted, err := FitImage(in.Logo, LogoW, LogoH, FitContain); err != nil {
			warnings = append(warnings, fmt.Sprintf("logo %s not decodable, slot left blank", in.Spec.Logo))
		} else {
			slide.Placements = append(slide.Placements, Placement{
				Kind:  KindLogo,
				Box:   Box{X: LogoX, Y: LogoY, W: LogoW, H: LogoH},
				Image: fitted,
			})
		}
	}

	if in.Spec.IncludeQualityBadge {
		slide.Placements = append(slide.Placements, Placement{
			Kind: KindBadge,
			Box:  Box{X: BadgeX, Y: BadgeY, W: BadgeW, H: BadgeH},
			Text: BadgeLabel,
		})
	}

	if len(in.Spec.Bullets) > 0 {
		slide.Placements = append(slide.Placements, Placement{
			Kind:  KindBullets,
			Box:   Box{X: textX, Y: bodyY, W: textW, H: bodyH},
			Lines: in.Spec.Bullets,
		})
	}

	images := in.Spec.Images
	bytesByIndex := in.Images
	if len(images) > deck.MaxGridImages {
		warnings = append(warnings, fmt.Sprintf("%d images supplied, %d rendered, %d dropped",
			len(images), deck.MaxGridImages, len(images)-deck.MaxGridImages))
		images = images[:deck.MaxGridImages]
	}

	cells := gridCells(len(images))
	for i, item := range images {
		cell := cells[i]
		imgBox := Box{X: cell.X, Y: cell.Y, W: cell.W, H: cell.H - captionH}

		var data []byte
		if i < len(bytesByIndex) {
			data = bytesByIndex[i]
		}
		if data == nil {
			warnings = append(warnings, fmt.Sprintf("image %s unavailable, placeholder rendered", item.Asset))
			slide.Placements = append(slide.Placements, Placement{
				Kind: KindPlaceholder,
				Box:  imgBox,
				Text: PlaceholderLabel,
			})
		} else if fitted, err := FitImage(data, imgBox.W, imgBox.H, FitCover); err != nil {
			warnings = append(warnings, fmt.Sprintf("image %s not decodable, placeholder rendered", item.Asset))
			slide.Placements = append(slide.Placements, Placement{
				Kind: KindPlaceholder,
				Box:  imgBox,
				Text: PlaceholderLabel,
			})
		} else {
			slide.Placements = append(slide.Placements, Placement{
				Kind:  KindImage,
				Box:   imgBox,
				Image: fitted,
			})
		}

		if item.Caption != "" {
			slide.Placements = append(slide.Placements, Placement{
				Kind: KindCaption,
				Box:  Box{X: cell.X, Y: cell.Y + cell.H - captionH, W: cell.W, H: captionH},
				Text: truncateCaption(item.Caption, cell.W),
			})
		}
	}

	return slide, warnings
}

// gridCells splits the right body area into n cells. Placement is
// strictly row-major in input order.
func gridCells(n int) []Box {
	area := Box{X: gridX, Y: bodyY, W: gridW, H: bodyH}
	switch {
	case n <= 0:
		return nil

	case n == 1:
		return []Box{area}

	case n == 2:
		// The area's long axis is horizontal, so side-by-side.
		w := (area.W - cellGap) / 2
		return []Box{
			{X: area.X, Y: area.Y, W: w, H: area.H},
			{X: area.X + w + cellGap, Y: area.Y, W: w, H: area.H},
		}

	case n == 3:
		// One large cell on the left, two stacked on the right.
		w := (area.W - cellGap) / 2
		h := (area.H - cellGap) / 2
		return []Box{
			{X: area.X, Y: area.Y, W: w, H: area.H},
			{X: area.X + w + cellGap, Y: area.Y, W: w, H: h},
			{X: area.X + w + cellGap, Y: area.Y + h + cellGap, W: w, H: h},
		}

	default:
		// 2 rows x ceil(n/2) columns, row-major, capped at 8.
		if n > deck.MaxGridImages {
			n = deck.MaxGridImages
		}
		cols := (n + 1) / 2
		cw := (area.W - float64(cols-1)*cellGap) / float64(cols)
		rh := (area.H - cellGap) / 2
		cells := make([]Box, 0, n)
		for i := 0; i < n; i++ {
			row := i / cols
			col := i % cols
			cells = append(cells, Box{
				X: area.X + float64(col)*(cw+cellGap),
				Y: area.Y + float64(row)*(rh+cellGap),
				W: cw,
				H: rh,
			})
		}
		return cells
	}
}

// truncateCaption cuts a caption that would exceed the cell width and
// appends an ellipsis. The estimate is deliberately simple so the rule
// stays deterministic across platforms.
func truncateCaption(s string, cellW float64) string {
	maxChars := int(cellW / avgCharWidth)
	if maxChars < 2 {
		maxChars = 2
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars-1]) + "…"
}
