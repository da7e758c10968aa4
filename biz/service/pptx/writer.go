// Package pptx serializes laid-out slides into an Open Office XML
// presentation container. The container is assembled directly with
// archive/zip over fixed part templates; shape markup is generated per
// placement.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/slateworks/deckforge/biz/service/layout"
)

// emuPerInch is the OOXML English Metric Unit density.
const emuPerInch = 914400

// Text style constants for the bundled template.
const (
	titleFontSize   = 2800 // 28pt
	bulletFontSize  = 1200
	captionFontSize = 1000
	badgeFontSize   = 1000

	titleColor       = "1F3864" // dark blue
	badgeFillColor   = "1F3864"
	badgeTextColor   = "FFFFFF"
	placeholderFill  = "D9D9D9" // neutral gray
	placeholderText  = "808080"
	bodyTextColor    = "000000"
	captionTextColor = "404040"
)

// Write serializes the slides into a complete .pptx container held in
// memory. Slide order in the container equals input order.
func Write(slides []*layout.Slide) ([]byte, error) {
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides to serialize")
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML(len(slides))},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", presentationXML(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for _, part := range parts {
		if err := writePart(zw, part.name, []byte(part.data)); err != nil {
			return nil, err
		}
	}

	for i, slide := range slides {
		slideXML, rels, media := renderSlide(i+1, slide)
		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), []byte(slideXML)); err != nil {
			return nil, err
		}
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), []byte(rels)); err != nil {
			return nil, err
		}
		for name, data := range media {
			if err := writePart(zw, "ppt/media/"+name, data); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize container: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}

func emu(inches float64) int64 {
	return int64(math.Round(inches * emuPerInch))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// renderSlide produces the slide part, its relationship part and the
// media files it references.
func renderSlide(num int, slide *layout.Slide) (string, string, map[string][]byte) {
	var shapes bytes.Buffer
	var relEntries bytes.Buffer
	media := make(map[string][]byte)

	shapeID := 2 // 1 is reserved for the group shape
	relID := 2   // rId1 points at the slide layout

	for _, p := range slide.Placements {
		switch p.Kind {
		case layout.KindTitle:
			writeTextShape(&shapes, shapeID, "Title", p.Box, textShapeOpts{
				text: p.Text, size: titleFontSize, bold: true, color: titleColor, align: "l",
			})
			shapeID++

		case layout.KindLogo, layout.KindImage:
			name := fmt.Sprintf("image%d_%d.png", num, relID)
			media[name] = p.Image
			fmt.Fprintf(&relEntries,
				`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/%s"/>`,
				relID, name)
			writePicShape(&shapes, shapeID, relID, p.Box)
			shapeID++
			relID++

		case layout.KindBadge:
			writeRectShape(&shapes, shapeID, "QualityBadge", p.Box, badgeFillColor, textShapeOpts{
				text: p.Text, size: badgeFontSize, bold: true, color: badgeTextColor, align: "ctr",
			})
			shapeID++

		case layout.KindBullets:
			writeBulletShape(&shapes, shapeID, p.Box, p.Lines)
			shapeID++

		case layout.KindCaption:
			writeTextShape(&shapes, shapeID, "Caption", p.Box, textShapeOpts{
				text: p.Text, size: captionFontSize, italic: true, color: captionTextColor, align: "ctr",
			})
			shapeID++

		case layout.KindPlaceholder:
			writeRectShape(&shapes, shapeID, "MissingAsset", p.Box, placeholderFill, textShapeOpts{
				text: p.Text, size: captionFontSize, color: placeholderText, align: "ctr",
			})
			shapeID++
		}
	}

	slideXML := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>%s</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`,
		shapes.String())

	rels := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>%s</Relationships>`,
		relEntries.String())

	return slideXML, rels, media
}

type textShapeOpts struct {
	text   string
	size   int
	bold   bool
	italic bool
	color  string
	align  string
}

func runProps(o textShapeOpts) string {
	b := "0"
	if o.bold {
		b = "1"
	}
	i := "0"
	if o.italic {
		i = "1"
	}
	return fmt.Sprintf(`<a:rPr lang="en-US" sz="%d" b="%s" i="%s" dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:latin typeface="Calibri"/></a:rPr>`,
		o.size, b, i, o.color)
}

func xfrm(box layout.Box) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		emu(box.X), emu(box.Y), emu(box.W), emu(box.H))
}

func writeTextShape(buf *bytes.Buffer, id int, name string, box layout.Box, o textShapeOpts) {
	fmt.Fprintf(buf,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr><p:txBody><a:bodyPr wrap="square" anchor="ctr"/><a:lstStyle/><a:p><a:pPr algn="%s"/><a:r>%s<a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, name, xfrm(box), o.align, runProps(o), escape(o.text))
}

func writeRectShape(buf *bytes.Buffer, id int, name string, box layout.Box, fill string, o textShapeOpts) {
	fmt.Fprintf(buf,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:solidFill><a:srgbClr val="%s"/></a:solidFill></p:spPr><p:txBody><a:bodyPr wrap="square" anchor="ctr"/><a:lstStyle/><a:p><a:pPr algn="%s"/><a:r>%s<a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, name, xfrm(box), fill, o.align, runProps(o), escape(o.text))
}

func writeBulletShape(buf *bytes.Buffer, id int, box layout.Box, lines []string) {
	var paras bytes.Buffer
	props := runProps(textShapeOpts{size: bulletFontSize, color: bodyTextColor})
	for _, line := range lines {
		fmt.Fprintf(&paras,
			`<a:p><a:pPr algn="l"><a:buFont typeface="Arial"/><a:buChar char="•"/></a:pPr><a:r>%s<a:t>%s</a:t></a:r></a:p>`,
			props, escape(line))
	}
	// Fixed box, no autofit: overflow clips at the bottom edge instead
	// of flowing onto another slide.
	fmt.Fprintf(buf,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Bullets"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr><p:txBody><a:bodyPr wrap="square"><a:noAutofit/></a:bodyPr><a:lstStyle/>%s</p:txBody></p:sp>`,
		id, xfrm(box), paras.String())
}

func writePicShape(buf *bytes.Buffer, id, relID int, box layout.Box) {
	fmt.Fprintf(buf,
		`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr><p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		id, id, relID, xfrm(box))
}
