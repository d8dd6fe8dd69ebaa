package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsSVG = "http://schemas.microsoft.com/office/drawing/2016/SVG/main"

	// svgBlipExt is the a:ext uri Word uses for vector images.
	svgBlipExt = "{96DAC541-7B7A-43D3-8B79-37D633B846F1}"

	relDocument  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCore      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relFooter    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	footerRelID = "rIdFooter1"
)

// packageParts holds everything needed to serialize the package.
type packageParts struct {
	body      []block
	media     []*mediaPart
	links     []linkPart
	opts      Options
	pageW     int
	pageH     int
	margin    int
	baseFont  string
	baseSize  int
	baseColor string
}

func (p *packageParts) hasFooter() bool {
	return p.opts.Footer || p.opts.PageNumber
}

func (p *packageParts) write(w io.Writer) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", p.contentTypes()},
		{"_rels/.rels", p.rootRels()},
		{"docProps/core.xml", p.coreProps()},
		{"word/document.xml", p.document()},
		{"word/styles.xml", p.styles()},
		{"word/_rels/document.xml.rels", p.documentRels()},
	}
	if p.hasFooter() {
		parts = append(parts, struct {
			name string
			data string
		}{"word/footer1.xml", p.footer()})
	}
	for _, part := range parts {
		if err := zipEntry(zw, part.name, []byte(part.data)); err != nil {
			return err
		}
	}
	for _, m := range p.media {
		if err := zipEntry(zw, "word/media/"+m.name, m.data); err != nil {
			return err
		}
		if m.svg != nil {
			if err := zipEntry(zw, "word/media/"+m.svgName, m.svg); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}

func (p *packageParts) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	seen := map[string]bool{}
	addDefault := func(ext string) {
		if seen[ext] {
			return
		}
		seen[ext] = true
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, ext, contentTypes[ext])
	}
	for _, m := range p.media {
		addDefault(m.ext)
		if m.svg != nil {
			addDefault("svg")
		}
	}
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	if p.hasFooter() {
		b.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`)
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func (p *packageParts) rootRels() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsRel)
	fmt.Fprintf(&b, `<Relationship Id="rId1" Type="%s" Target="word/document.xml"/>`, relDocument)
	fmt.Fprintf(&b, `<Relationship Id="rId2" Type="%s" Target="docProps/core.xml"/>`, relCore)
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (p *packageParts) documentRels() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsRel)
	fmt.Fprintf(&b, `<Relationship Id="rIdStyles" Type="%s" Target="styles.xml"/>`, relStyles)
	if p.hasFooter() {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="footer1.xml"/>`, footerRelID, relFooter)
	}
	for _, m := range p.media {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="media/%s"/>`, m.relID, relImage, m.name)
		if m.svg != nil {
			fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="media/%s"/>`, m.svgRelID, relImage, m.svgName)
		}
	}
	for _, l := range p.links {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s" TargetMode="External"/>`, l.relID, relHyperlink, esc(l.target))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (p *packageParts) coreProps() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	if p.opts.Title != "" {
		fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, esc(p.opts.Title))
	}
	b.WriteString(`<dc:creator>go-offerletter</dc:creator>`)
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

func (p *packageParts) document() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s" xmlns:r="%s" xmlns:wp="%s" xmlns:a="%s" xmlns:pic="%s"><w:body>`,
		nsW, nsR, nsWP, nsA, nsPic)
	content := p.pageW - 2*p.margin
	for _, blk := range p.body {
		writeBlock(&b, blk, p.opts, content)
	}

	b.WriteString(`<w:sectPr>`)
	if p.hasFooter() {
		fmt.Fprintf(&b, `<w:footerReference w:type="default" r:id="%s"/>`, footerRelID)
	}
	orient := ""
	if p.opts.Page.Landscape {
		orient = ` w:orient="landscape"`
	}
	fmt.Fprintf(&b, `<w:pgSz w:w="%d" w:h="%d"%s/>`, p.pageW, p.pageH, orient)
	fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`,
		p.margin, p.margin, p.margin, p.margin, p.margin/2, p.margin/2)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func writeBlock(b *strings.Builder, blk block, opts Options, width int) {
	switch v := blk.(type) {
	case *paragraph:
		writeParagraph(b, v)
	case *table:
		writeTable(b, v, opts, width)
	}
}

func writeParagraph(b *strings.Builder, p *paragraph) {
	b.WriteString(`<w:p>`)
	var ppr strings.Builder
	if p.style != "" {
		fmt.Fprintf(&ppr, `<w:pStyle w:val="%s"/>`, p.style)
	}
	if p.top != nil || p.bottom != nil {
		ppr.WriteString(`<w:pBdr>`)
		writeBorder(&ppr, "top", p.top)
		writeBorder(&ppr, "bottom", p.bottom)
		ppr.WriteString(`</w:pBdr>`)
	}
	if p.fill != "" {
		fmt.Fprintf(&ppr, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, p.fill)
	}
	if p.spacingAfter > 0 {
		fmt.Fprintf(&ppr, `<w:spacing w:after="%d"/>`, p.spacingAfter)
	}
	if p.indent > 0 {
		fmt.Fprintf(&ppr, `<w:ind w:left="%d" w:hanging="240"/>`, p.indent)
	}
	if p.align != "" && p.align != "left" {
		fmt.Fprintf(&ppr, `<w:jc w:val="%s"/>`, p.align)
	}
	if ppr.Len() > 0 {
		b.WriteString(`<w:pPr>`)
		b.WriteString(ppr.String())
		b.WriteString(`</w:pPr>`)
	}

	openLink := ""
	for _, r := range p.runs {
		if r.link != openLink {
			if openLink != "" {
				b.WriteString(`</w:hyperlink>`)
			}
			if r.link != "" {
				fmt.Fprintf(b, `<w:hyperlink r:id="%s">`, r.link)
			}
			openLink = r.link
		}
		writeRun(b, r)
	}
	if openLink != "" {
		b.WriteString(`</w:hyperlink>`)
	}
	b.WriteString(`</w:p>`)
}

func writeBorder(b *strings.Builder, edge string, br *border) {
	if br == nil {
		return
	}
	fmt.Fprintf(b, `<w:%s w:val="%s" w:sz="%d" w:space="4" w:color="%s"/>`, edge, br.style, br.size, br.color)
}

func writeRun(b *strings.Builder, r run) {
	b.WriteString(`<w:r>`)
	writeRunProps(b, r.props)
	switch {
	case r.brk:
		b.WriteString(`<w:br/>`)
	case r.image != nil:
		writeDrawing(b, r.image)
	default:
		fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, esc(r.text))
	}
	b.WriteString(`</w:r>`)
}

func writeRunProps(b *strings.Builder, rp runProps) {
	var s strings.Builder
	if rp.font != "" {
		f := esc(rp.font)
		fmt.Fprintf(&s, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s" w:cs="%s"/>`, f, f, f, f)
	}
	if rp.bold {
		s.WriteString(`<w:b/><w:bCs/>`)
	}
	if rp.italic {
		s.WriteString(`<w:i/><w:iCs/>`)
	}
	if rp.caps {
		s.WriteString(`<w:caps/>`)
	}
	if rp.strike {
		s.WriteString(`<w:strike/>`)
	}
	if rp.color != "" {
		fmt.Fprintf(&s, `<w:color w:val="%s"/>`, rp.color)
	}
	if rp.sizeHalf > 0 {
		fmt.Fprintf(&s, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, rp.sizeHalf, rp.sizeHalf)
	}
	if rp.underline {
		s.WriteString(`<w:u w:val="single"/>`)
	}
	if s.Len() > 0 {
		b.WriteString(`<w:rPr>`)
		b.WriteString(s.String())
		b.WriteString(`</w:rPr>`)
	}
}

func writeDrawing(b *strings.Builder, d *drawing) {
	blip := fmt.Sprintf(`<a:blip r:embed="%s"/>`, d.relID)
	if d.svgID != "" {
		blip = fmt.Sprintf(`<a:blip r:embed="%s"><a:extLst><a:ext uri="%s">`+
			`<asvg:svgBlip xmlns:asvg="%s" r:embed="%s"/></a:ext></a:extLst></a:blip>`,
			d.relID, svgBlipExt, nsSVG, d.svgID)
	}
	fmt.Fprintf(b, `<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="Picture %d" descr="%s"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="%s"><pic:pic>`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill>%s<a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`,
		d.cx, d.cy, d.id, d.id, esc(d.descr), nsPic, d.id, d.name, blip, d.cx, d.cy)
}

func writeTable(b *strings.Builder, t *table, opts Options, width int) {
	colW := width / t.cols
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="5000" w:type="pct"/></w:tblPr><w:tblGrid>`)
	for i := 0; i < t.cols; i++ {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, colW)
	}
	b.WriteString(`</w:tblGrid>`)

	for _, row := range t.rows {
		b.WriteString(`<w:tr>`)
		if opts.TableRowCantSplit || row.header {
			b.WriteString(`<w:trPr>`)
			if opts.TableRowCantSplit {
				b.WriteString(`<w:cantSplit/>`)
			}
			if row.header {
				b.WriteString(`<w:tblHeader/>`)
			}
			b.WriteString(`</w:trPr>`)
		}
		for i := 0; i < t.cols; i++ {
			var cell tableCell
			if i < len(row.cells) {
				cell = row.cells[i]
			}
			fmt.Fprintf(b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, colW)
			if cell.fill != "" {
				fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, cell.fill)
			}
			b.WriteString(`</w:tcPr>`)
			for _, blk := range cell.blocks {
				writeBlock(b, blk, opts, colW)
			}
			// A cell must end with a paragraph.
			if len(cell.blocks) == 0 {
				b.WriteString(`<w:p/>`)
			} else if _, ok := cell.blocks[len(cell.blocks)-1].(*table); ok {
				b.WriteString(`<w:p/>`)
			}
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func (p *packageParts) footer() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:ftr xmlns:w="%s" xmlns:r="%s"><w:p><w:pPr><w:jc w:val="center"/></w:pPr>`, nsW, nsR)
	rp := runProps{font: p.baseFont, sizeHalf: 16, color: "6B7280"}
	text := strings.TrimSpace(p.opts.FooterText)
	if p.opts.Footer && text != "" {
		writeRun(&b, run{text: text, props: rp})
		if p.opts.PageNumber {
			writeRun(&b, run{text: "  |  ", props: rp})
		}
	}
	if p.opts.PageNumber {
		writeRun(&b, run{text: "Page ", props: rp})
		writeField(&b, "PAGE", rp)
		writeRun(&b, run{text: " of ", props: rp})
		writeField(&b, "NUMPAGES", rp)
	}
	b.WriteString(`</w:p></w:ftr>`)
	return b.String()
}

func writeField(b *strings.Builder, instr string, rp runProps) {
	fmt.Fprintf(b, `<w:fldSimple w:instr=" %s \* MERGEFORMAT ">`, instr)
	writeRun(b, run{text: "1", props: rp})
	b.WriteString(`</w:fldSimple>`)
}

func (p *packageParts) styles() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:styles xmlns:w="%s"><w:docDefaults><w:rPrDefault><w:rPr>`, nsW)
	font := p.baseFont
	if font == "" {
		font = "Calibri"
	}
	size := p.baseSize
	if size <= 0 {
		size = 22
	}
	f := esc(font)
	fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s" w:cs="%s"/>`, f, f, f, f)
	if p.baseColor != "" {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, p.baseColor)
	}
	fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/><w:lang w:val="en-US"/>`, size, size)
	b.WriteString(`</w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="120" w:line="276" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>`)

	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/>`+
			`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`+
			`<w:pPr><w:keepNext/><w:keepLines/><w:spacing w:before="120" w:after="80"/><w:outlineLvl w:val="%d"/></w:pPr>`+
			`<w:rPr><w:b/><w:bCs/></w:rPr></w:style>`, i, i, i-1)
	}
	b.WriteString(`<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/>` +
		`<w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/>` +
		`<w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>`)
	b.WriteString(`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:basedOn w:val="TableNormal"/>` +
		`<w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/><w:left w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/><w:right w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/>` +
		`</w:tblBorders></w:tblPr></w:style>`)
	b.WriteString(`</w:styles>`)
	return b.String()
}

// esc escapes text for XML character data and attribute values.
func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
