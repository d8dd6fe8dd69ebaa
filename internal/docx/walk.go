package docx

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// emuPerPx converts CSS pixels (96 dpi) to English Metric Units.
const emuPerPx = 9525

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "template": true,
	"noscript": true, "title": true, "meta": true, "link": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "ul": true, "body": true, "html": true,
	"caption": true,
}

type block interface{ isBlock() }

type paragraph struct {
	style        string
	align        string
	fill         string
	top, bottom  *border
	spacingAfter int // twips; zero leaves the style default
	indent       int // twips
	runs         []run
}

type run struct {
	props runProps
	text  string
	brk   bool
	image *drawing
	link  string
}

type drawing struct {
	relID  string
	svgID  string
	id     int
	name   string
	descr  string
	cx, cy int64
}

type table struct {
	cols int
	rows []tableRow
}

type tableRow struct {
	header bool
	cells  []tableCell
}

type tableCell struct {
	fill   string
	blocks []block
}

func (*paragraph) isBlock() {}
func (*table) isBlock()     {}

type mediaPart struct {
	relID string
	name  string
	ext   string
	data  []byte
	w, h  int

	// Vector source shown by Word 2016+; data is then its PNG fallback.
	svgRelID string
	svgName  string
	svg      []byte
}

type linkPart struct {
	relID  string
	target string
}

type flow struct {
	blocks []block
	cur    *paragraph
}

type listState struct {
	ordered bool
	n       int
	depth   int
}

// blockCtx carries the paragraph properties of the nearest block.
type blockCtx struct {
	style  string
	align  string
	fill   string
	indent int
}

type walkState struct {
	st   computed
	blk  blockCtx
	list *listState
	pre  bool
	link string
}

type builder struct {
	ctx          context.Context
	log          *slog.Logger
	sheet        *styleSheet
	contentTwips int

	out    *flow
	prefix string

	media      []*mediaPart
	mediaBySrc map[string]*mediaPart
	links      []linkPart
	linkByURL  map[string]string
	drawings   int

	baseFont  string
	baseSize  int
	baseColor string
}

func newBuilder(ctx context.Context, log *slog.Logger, sheet *styleSheet, contentTwips int) *builder {
	return &builder{
		ctx:          ctx,
		log:          log,
		sheet:        sheet,
		contentTwips: contentTwips,
		out:          &flow{},
		mediaBySrc:   map[string]*mediaPart{},
		linkByURL:    map[string]string{},
		baseSize:     22,
	}
}

func (b *builder) build(root *html.Node) error {
	ws := walkState{st: rootStyle()}
	if err := b.walk(root, ws); err != nil {
		return err
	}
	b.flush()
	return nil
}

// body returns the top-level blocks; an empty body still holds one
// paragraph.
func (b *builder) body() []block {
	if len(b.out.blocks) == 0 {
		return []block{&paragraph{}}
	}
	return b.out.blocks
}

func (b *builder) walk(n *html.Node, ws walkState) error {
	switch n.Type {
	case html.DocumentNode:
		return b.children(n, ws)
	case html.TextNode:
		b.text(n.Data, ws)
		return nil
	case html.ElementNode:
		return b.element(n, ws)
	}
	return nil
}

func (b *builder) children(n *html.Node, ws walkState) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := b.walk(c, ws); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) element(n *html.Node, ws walkState) error {
	tag := n.Data
	if skipTags[tag] {
		return nil
	}
	if err := b.ctx.Err(); err != nil {
		return err
	}
	st := b.sheet.compute(n, ws.st)
	if st.display == "none" || hasAttr(n, "hidden") {
		return nil
	}
	if tag == "body" {
		b.baseFont, b.baseSize, b.baseColor = st.run.font, st.run.sizeHalf, st.run.color
	}

	inner := ws
	inner.st = st
	switch tag {
	case "br":
		p := b.ensure(ws)
		p.runs = append(p.runs, run{brk: true, props: st.run})
		return nil
	case "img":
		b.image(n, inner)
		return nil
	case "table":
		return b.table(n, inner)
	case "a":
		if id := b.linkID(attr(n, "href")); id != "" {
			inner.link = id
		}
	case "pre":
		inner.pre = true
	case "ul", "ol":
		depth := 1
		if ws.list != nil {
			depth = ws.list.depth + 1
		}
		inner.list = &listState{ordered: tag == "ol", depth: depth}
	}

	if !isBlock(tag, st.display) {
		b.pseudo(n, "before", inner)
		if err := b.children(n, inner); err != nil {
			return err
		}
		b.pseudo(n, "after", inner)
		return nil
	}

	b.flush()
	inner.blk = blockCtx{style: headingStyle(tag), align: st.align, fill: st.fill, indent: ws.blk.indent}
	if tag == "li" && ws.list != nil {
		ws.list.n++
		inner.blk.indent = 360 * ws.list.depth
		if ws.list.ordered {
			b.prefix = strconv.Itoa(ws.list.n) + ". "
		} else {
			b.prefix = "• "
		}
	}
	if tag == "hr" {
		b.out.blocks = append(b.out.blocks, &paragraph{bottom: &border{style: "single", size: 6, color: "auto"}})
		return nil
	}

	start := len(b.out.blocks)
	b.pseudo(n, "before", inner)
	if err := b.children(n, inner); err != nil {
		return err
	}
	b.pseudo(n, "after", inner)
	b.flush()
	b.prefix = ""
	b.decorate(start, st)
	return nil
}

func isBlock(tag, display string) bool {
	switch display {
	case "block", "flex", "grid", "list-item", "table":
		return true
	case "inline", "inline-block", "inline-flex":
		return false
	}
	return blockTags[tag]
}

func headingStyle(tag string) string {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return "Heading" + tag[1:]
	}
	return ""
}

// pseudo writes quoted content of a ::before or ::after box.
func (b *builder) pseudo(n *html.Node, which string, ws walkState) {
	decl := b.sheet.declared(n, which)
	v, ok := decl["content"]
	if !ok {
		return
	}
	text, ok := unquote(resolveVars(v, ws.st.vars))
	if !ok || text == "" {
		return
	}
	b.text(text, ws)
}

func unquote(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) < 2 || (v[0] != '"' && v[0] != '\'') || v[len(v)-1] != v[0] {
		return "", false
	}
	return strings.ReplaceAll(v[1:len(v)-1], `\`+string(v[0]), string(v[0])), true
}

// ensure returns the open paragraph, starting one if needed.
func (b *builder) ensure(ws walkState) *paragraph {
	if b.out.cur == nil {
		b.out.cur = &paragraph{
			style:  ws.blk.style,
			align:  ws.blk.align,
			fill:   ws.blk.fill,
			indent: ws.blk.indent,
		}
		if b.prefix != "" {
			b.out.cur.runs = append(b.out.cur.runs, run{text: b.prefix, props: ws.st.run})
			b.prefix = ""
		}
	}
	return b.out.cur
}

func (b *builder) text(data string, ws walkState) {
	if ws.pre {
		lines := strings.Split(data, "\n")
		p := b.ensure(ws)
		for i, line := range lines {
			if i > 0 {
				p.runs = append(p.runs, run{brk: true, props: ws.st.run})
			}
			if line != "" {
				p.runs = append(p.runs, run{text: line, props: ws.st.run, link: ws.link})
			}
		}
		return
	}

	text := collapseSpace(data)
	if text == "" {
		return
	}
	if b.out.cur == nil || !hasContent(b.out.cur) || endsWithSpace(b.out.cur) {
		text = strings.TrimLeft(text, " ")
	}
	if text == "" {
		return
	}
	props := ws.st.run
	p := b.ensure(ws)
	p.runs = append(p.runs, run{text: text, props: props, link: ws.link})
}

func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				sb.WriteByte(' ')
				space = true
			}
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}

func hasContent(p *paragraph) bool {
	for _, r := range p.runs {
		if r.image != nil || r.brk || strings.TrimSpace(r.text) != "" {
			return true
		}
	}
	return false
}

func endsWithSpace(p *paragraph) bool {
	for i := len(p.runs) - 1; i >= 0; i-- {
		r := p.runs[i]
		if r.image != nil || r.brk {
			return false
		}
		if r.text != "" {
			return strings.HasSuffix(r.text, " ")
		}
	}
	return false
}

// flush closes the open paragraph, dropping it when it holds nothing.
func (b *builder) flush() {
	p := b.out.cur
	b.out.cur = nil
	if p == nil || !hasContent(p) {
		return
	}
	for i := len(p.runs) - 1; i >= 0; i-- {
		if p.runs[i].image != nil || p.runs[i].brk {
			break
		}
		p.runs[i].text = strings.TrimRight(p.runs[i].text, " ")
		if p.runs[i].text != "" {
			break
		}
	}
	b.out.blocks = append(b.out.blocks, p)
}

// decorate applies block borders and bottom margin to the paragraphs the
// block produced.
func (b *builder) decorate(start int, st computed) {
	var first, last *paragraph
	for _, blk := range b.out.blocks[start:] {
		if p, ok := blk.(*paragraph); ok {
			if first == nil {
				first = p
			}
			last = p
		}
	}
	if first == nil {
		return
	}
	if br := edgeBorder(st.decl, "top"); br != nil {
		first.top = br
	}
	if br := edgeBorder(st.decl, "bottom"); br != nil {
		last.bottom = br
	}
	if v, ok := st.decl["margin-bottom"]; ok {
		if pt, ok := lengthPt(v, st.sizePt); ok && pt > 0 {
			if tw := int(pt * 20); tw > last.spacingAfter {
				last.spacingAfter = tw
			}
		}
	}
}

func edgeBorder(decl map[string]string, edge string) *border {
	if v, ok := decl["border-"+edge]; ok {
		br, _ := parseBorder(v)
		return br
	}
	if v, ok := decl["border"]; ok {
		br, _ := parseBorder(v)
		return br
	}
	return nil
}

func (b *builder) linkID(href string) string {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "mailto:") {
		return ""
	}
	if id, ok := b.linkByURL[href]; ok {
		return id
	}
	id := fmt.Sprintf("rIdLink%d", len(b.links)+1)
	b.links = append(b.links, linkPart{relID: id, target: href})
	b.linkByURL[href] = id
	return id
}

// image embeds data URI images. Remote and undecodable sources are left
// out of the package with a warning.
func (b *builder) image(n *html.Node, ws walkState) {
	src := strings.TrimSpace(attr(n, "src"))
	part := b.mediaBySrc[src]
	if part == nil {
		mimeType, data, ok := decodeDataURI(src)
		if !ok {
			b.log.Warn("docx image skipped: not an inline image", "src", truncate(src, 80))
			return
		}
		img, err := prepareImage(mimeType, data)
		if err != nil {
			b.log.Warn("docx image skipped", "type", mimeType, "error", err)
			return
		}
		idx := len(b.media) + 1
		part = &mediaPart{
			relID: fmt.Sprintf("rIdImg%d", idx),
			name:  fmt.Sprintf("image%d.%s", idx, img.ext),
			ext:   img.ext,
			data:  img.data,
			w:     img.w,
			h:     img.h,
		}
		if img.svg != nil {
			part.svgRelID = fmt.Sprintf("rIdSvg%d", idx)
			part.svgName = fmt.Sprintf("image%d.svg", idx)
			part.svg = img.svg
		}
		b.media = append(b.media, part)
		b.mediaBySrc[src] = part
	}

	w, h := b.imageSize(n, ws.st, float64(part.w), float64(part.h))
	b.drawings++
	d := &drawing{
		relID: part.relID,
		svgID: part.svgRelID,
		id:    b.drawings,
		name:  part.name,
		descr: attr(n, "alt"),
		cx:    int64(w * emuPerPx),
		cy:    int64(h * emuPerPx),
	}
	p := b.ensure(ws)
	p.runs = append(p.runs, run{image: d, props: ws.st.run, link: ws.link})
}

// imageSize fits the intrinsic size to width/height attributes, CSS
// bounds and the content width, keeping the aspect ratio. Percentages
// are ignored.
func (b *builder) imageSize(n *html.Node, st computed, w, h float64) (float64, float64) {
	ratio := h / w
	aw, wok := attrPx(n, "width")
	ah, hok := attrPx(n, "height")
	if v, ok := lengthPx(st.decl["width"]); ok {
		aw, wok = v, true
	}
	if v, ok := lengthPx(st.decl["height"]); ok {
		ah, hok = v, true
	}
	switch {
	case wok && hok:
		w, h = aw, ah
		ratio = h / w
	case wok:
		w, h = aw, aw*ratio
	case hok:
		w, h = ah/ratio, ah
	}

	if maxW, ok := lengthPx(st.decl["max-width"]); ok && w > maxW {
		w, h = maxW, maxW*ratio
	}
	if maxH, ok := lengthPx(st.decl["max-height"]); ok && h > maxH {
		w, h = maxH/ratio, maxH
	}
	if limit := float64(b.contentTwips) / 15; w > limit {
		w, h = limit, limit*ratio
	}
	return w, h
}

func attrPx(n *html.Node, key string) (float64, bool) {
	v := strings.TrimSuffix(strings.TrimSpace(attr(n, key)), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// decodeDataURI returns the media type and payload of a data URI.
func decodeDataURI(src string) (string, []byte, bool) {
	if len(src) < 5 || !strings.EqualFold(src[:5], "data:") {
		return "", nil, false
	}
	meta, payload, ok := strings.Cut(src[5:], ",")
	if !ok {
		return "", nil, false
	}
	params := strings.Split(meta, ";")
	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return "", nil, false
		}
		return mimeType, data, true
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, false
	}
	return mimeType, []byte(text), true
}

// table converts an HTML table to a grid table. Cells are walked into
// their own flows.
func (b *builder) table(n *html.Node, ws walkState) error {
	b.flush()
	t := &table{}
	var rows []*html.Node
	var collect func(p *html.Node)
	collect = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				collect(c)
			case "tr":
				rows = append(rows, c)
			case "caption":
				if err := b.element(c, ws); err != nil {
					return
				}
			}
		}
	}
	collect(n)

	saved := b.out
	savedPrefix := b.prefix
	defer func() {
		b.out = saved
		b.prefix = savedPrefix
	}()
	b.prefix = ""

	for _, tr := range rows {
		rowSt := b.sheet.compute(tr, ws.st)
		row := tableRow{header: true}
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
				continue
			}
			if c.Data != "th" {
				row.header = false
			}
			cellSt := b.sheet.compute(c, rowSt)
			b.out = &flow{}
			cellWS := walkState{
				st:  cellSt,
				blk: blockCtx{align: cellSt.align, fill: cellSt.fill},
			}
			if err := b.children(c, cellWS); err != nil {
				return err
			}
			b.flush()
			row.cells = append(row.cells, tableCell{fill: cellSt.fill, blocks: b.out.blocks})
		}
		if len(row.cells) == 0 {
			continue
		}
		if len(row.cells) > t.cols {
			t.cols = len(row.cells)
		}
		t.rows = append(t.rows, row)
	}
	if len(t.rows) == 0 {
		return nil
	}
	saved.blocks = append(saved.blocks, t)
	return nil
}
