package layout

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/slateworks/deckforge/biz/model/deck"
)

// pngBytes encodes a solid-color test image.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func countKind(slide *Slide, kind Kind) int {
	n := 0
	for _, p := range slide.Placements {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func findKind(slide *Slide, kind Kind) (Placement, bool) {
	for _, p := range slide.Placements {
		if p.Kind == kind {
			return p, true
		}
	}
	return Placement{}, false
}

func TestGridCells(t *testing.T) {
	approx := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

	t.Run("Empty", func(t *testing.T) {
		if cells := gridCells(0); cells != nil {
			t.Errorf("expected no cells, got %d", len(cells))
		}
	})

	t.Run("SingleFillsArea", func(t *testing.T) {
		cells := gridCells(1)
		if len(cells) != 1 {
			t.Fatalf("expected 1 cell, got %d", len(cells))
		}
		if !approx(cells[0].W, gridW) || !approx(cells[0].H, bodyH) {
			t.Errorf("cell %+v does not fill the grid area", cells[0])
		}
	})

	t.Run("TwoSideBySide", func(t *testing.T) {
		cells := gridCells(2)
		if len(cells) != 2 {
			t.Fatalf("expected 2 cells, got %d", len(cells))
		}
		if !approx(cells[0].Y, cells[1].Y) {
			t.Error("cells should share a row")
		}
		if cells[1].X <= cells[0].X {
			t.Error("second cell should sit to the right of the first")
		}
		if !approx(cells[0].H, bodyH) {
			t.Errorf("side-by-side cells should be full height, got %g", cells[0].H)
		}
	})

	t.Run("ThreeLargeLeft", func(t *testing.T) {
		cells := gridCells(3)
		if len(cells) != 3 {
			t.Fatalf("expected 3 cells, got %d", len(cells))
		}
		if !approx(cells[0].H, bodyH) {
			t.Errorf("first cell should span full height, got %g", cells[0].H)
		}
		if !approx(cells[1].X, cells[2].X) {
			t.Error("cells 2 and 3 should be stacked in the same column")
		}
		if cells[2].Y <= cells[1].Y {
			t.Error("cell 3 should sit below cell 2")
		}
	})

	t.Run("FourIsTwoByTwo", func(t *testing.T) {
		cells := gridCells(4)
		if len(cells) != 4 {
			t.Fatalf("expected 4 cells, got %d", len(cells))
		}
		// Row-major: 0,1 on the first row, 2,3 on the second.
		if !approx(cells[0].Y, cells[1].Y) || !approx(cells[2].Y, cells[3].Y) {
			t.Error("expected two rows of two")
		}
		if cells[2].Y <= cells[0].Y {
			t.Error("second row should sit below the first")
		}
		if !approx(cells[0].X, cells[2].X) {
			t.Error("columns should align across rows")
		}
	})

	t.Run("FiveUsesThreeColumns", func(t *testing.T) {
		cells := gridCells(5)
		if len(cells) != 5 {
			t.Fatalf("expected 5 cells, got %d", len(cells))
		}
		if !approx(cells[0].Y, cells[2].Y) {
			t.Error("first three cells should share the first row")
		}
		if cells[3].Y <= cells[0].Y {
			t.Error("cell 4 should start the second row")
		}
	})

	t.Run("AllCellsInsideArea", func(t *testing.T) {
		for n := 1; n <= deck.MaxGridImages; n++ {
			for i, cell := range gridCells(n) {
				if cell.X < gridX-1e-9 || cell.Y < bodyY-1e-9 {
					t.Errorf("n=%d cell %d out of bounds: %+v", n, i, cell)
				}
				if cell.X+cell.W > gridX+gridW+1e-9 || cell.Y+cell.H > bodyY+bodyH+1e-9 {
					t.Errorf("n=%d cell %d overflows area: %+v", n, i, cell)
				}
			}
		}
	})
}

func TestComposeTitleAlways(t *testing.T) {
	slide, warnings := Compose(Input{Spec: deck.ProjectSpec{Title: "Quarterly Review"}})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	title, ok := findKind(slide, KindTitle)
	if !ok {
		t.Fatal("expected a title placement")
	}
	if title.Text != "Quarterly Review" {
		t.Errorf("title text = %q", title.Text)
	}
	if countKind(slide, KindImage)+countKind(slide, KindPlaceholder) != 0 {
		t.Error("blank project should have no grid placements")
	}
}

func TestComposeBadgePositionFixed(t *testing.T) {
	logo := pngBytes(t, 60, 30)
	ref := deck.AssetRef{Bucket: "assets", Path: "logo.png"}

	withLogo, _ := Compose(Input{
		Spec: deck.ProjectSpec{Title: "A", Logo: &ref, IncludeQualityBadge: true},
		Logo: logo,
	})
	withoutLogo, _ := Compose(Input{
		Spec: deck.ProjectSpec{Title: "B", IncludeQualityBadge: true},
	})

	b1, ok1 := findKind(withLogo, KindBadge)
	b2, ok2 := findKind(withoutLogo, KindBadge)
	if !ok1 || !ok2 {
		t.Fatal("expected badge placements on both slides")
	}
	if b1.Box != b2.Box {
		t.Errorf("badge moved: with logo %+v, without %+v", b1.Box, b2.Box)
	}
	if b1.Text != BadgeLabel {
		t.Errorf("badge text = %q", b1.Text)
	}
}

func TestComposeMissingLogoLeavesSlotBlank(t *testing.T) {
	ref := deck.AssetRef{Bucket: "assets", Path: "gone.png"}
	slide, warnings := Compose(Input{
		Spec: deck.ProjectSpec{Title: "T", Logo: &ref},
	})
	if countKind(slide, KindLogo) != 0 {
		t.Error("missing logo must not produce a placement")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "logo") {
		t.Errorf("expected one logo warning, got %v", warnings)
	}
}

func TestComposePlaceholderKeepsCaption(t *testing.T) {
	slide, warnings := Compose(Input{
		Spec: deck.ProjectSpec{
			Title: "T",
			Images: []deck.ImageItem{
				{Asset: deck.AssetRef{Bucket: "assets", Path: "gone.png"}, Caption: "Site overview"},
			},
		},
		Images: [][]byte{nil},
	})

	ph, ok := findKind(slide, KindPlaceholder)
	if !ok {
		t.Fatal("expected a placeholder placement")
	}
	if ph.Text != PlaceholderLabel {
		t.Errorf("placeholder text = %q", ph.Text)
	}
	caption, ok := findKind(slide, KindCaption)
	if !ok {
		t.Fatal("caption must survive a placeholder substitution")
	}
	if caption.Text != "Site overview" {
		t.Errorf("caption text = %q", caption.Text)
	}
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %v", warnings)
	}
}

func TestComposeDropsSurplusImages(t *testing.T) {
	img := pngBytes(t, 20, 20)
	var items []deck.ImageItem
	var data [][]byte
	for i := 0; i < 9; i++ {
		items = append(items, deck.ImageItem{Asset: deck.AssetRef{Bucket: "b", Path: "o.png"}})
		data = append(data, img)
	}

	slide, warnings := Compose(Input{
		Spec:   deck.ProjectSpec{Title: "T", Images: items},
		Images: data,
	})

	if got := countKind(slide, KindImage); got != deck.MaxGridImages {
		t.Errorf("expected %d rendered images, got %d", deck.MaxGridImages, got)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "dropped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a dropped-images warning, got %v", warnings)
	}
}

func TestComposeUndecodableImage(t *testing.T) {
	slide, warnings := Compose(Input{
		Spec: deck.ProjectSpec{
			Title:  "T",
			Images: []deck.ImageItem{{Asset: deck.AssetRef{Bucket: "b", Path: "junk.bin"}}},
		},
		Images: [][]byte{[]byte("not an image")},
	})
	if countKind(slide, KindPlaceholder) != 1 {
		t.Error("undecodable image should render a placeholder")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "not decodable") {
		t.Errorf("expected a decode warning, got %v", warnings)
	}
}

func TestTruncateCaption(t *testing.T) {
	t.Run("ShortUnchanged", func(t *testing.T) {
		if got := truncateCaption("short", 2.0); got != "short" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("LongTruncatedWithEllipsis", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		got := truncateCaption(long, 2.0)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("expected ellipsis suffix, got %q", got)
		}
		if len([]rune(got)) >= len([]rune(long)) {
			t.Error("caption was not shortened")
		}
		if len([]rune(got)) > int(2.0/avgCharWidth) {
			t.Errorf("caption still exceeds cell width estimate: %d runes", len([]rune(got)))
		}
	})
}
