package layout

import (
	"slices"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/fonts"
	"github.com/cyzmcl/Lunarian/pkg/text"
)

// FontResolver maps a requested family to a font. It must never fail;
// unknown names resolve to a fallback. *fonts.Registry implements it.
type FontResolver interface {
	Resolve(name string) *fonts.Font
}

type embeddedResolver struct{}

func (embeddedResolver) Resolve(string) *fonts.Font { return fonts.Embedded() }

// Planner lays out overlay elements for one format at a time. A Planner
// holds a [text.Probe] and is not safe for concurrent use; create one per
// worker.
type Planner struct {
	fonts FontResolver
	probe *text.Probe
}

// NewPlanner creates a planner. A nil resolver uses the embedded font for
// everything; a nil probe gets a fresh one.
func NewPlanner(fr FontResolver, probe *text.Probe) *Planner {
	if fr == nil {
		fr = embeddedResolver{}
	}
	if probe == nil {
		probe = text.NewProbe()
	}
	return &Planner{fonts: fr, probe: probe}
}

// Probe returns the planner's probe.
func (p *Planner) Probe() *text.Probe { return p.probe }

// sized is an element with its natural size for one format.
type sized struct {
	ad.Element
	W, H int

	font  *fonts.Font
	block text.Block // copy
	cta   CTASize    // cta
}

// frame holds the per-format constants both passes share.
type frame struct {
	format ad.Format
	cat    ad.Category
	safe   ad.Rect
	ref    int
}

func (p *Planner) frame(f ad.Format, els []ad.Element) frame {
	fr := frame{format: f, cat: f.Category(), safe: f.SafeArea()}
	lw, lh := 0, 0
	if i := slices.IndexFunc(els, isLogo); i >= 0 {
		b := els[i].Logo.Bounds()
		lw, lh = SizeLogo(b.Dx(), b.Dy(), fr.safe.W, fr.safe.H, fr.cat)
	}
	fr.ref = ReferenceScale(fr.safe.W, fr.safe.H, lw, lh)
	return fr
}

func isLogo(e ad.Element) bool { return e.Kind == ad.KindLogo && e.Logo != nil }

func (p *Planner) size(fr frame, el ad.Element) sized {
	s := sized{Element: el}
	switch el.Kind {
	case ad.KindLogo:
		if el.Logo != nil {
			b := el.Logo.Bounds()
			s.W, s.H = SizeLogo(b.Dx(), b.Dy(), fr.safe.W, fr.safe.H, fr.cat)
		}
	case ad.KindCopy:
		s.font = p.fonts.Resolve(el.Font)
		s.block = SizeCopy(p.probe, s.font, el.Text, fr.ref, fr.safe.W, el.Position.Side())
		s.W, s.H = s.block.Width, s.block.Height
	case ad.KindCTA:
		s.font = p.fonts.Resolve(el.Font)
		s.cta = SizeCTA(p.probe, s.font, el.Text, fr.ref, fr.safe.W)
		s.W, s.H = s.cta.W, s.cta.H
	}
	return s
}

// group collects elements sharing a position, in order of first appearance.
type group struct {
	pos ad.Position
	els []ad.Element
}

func groupByPosition(els []ad.Element) []group {
	var gs []group
	for _, el := range els {
		i := slices.IndexFunc(gs, func(g group) bool { return g.pos == el.Position })
		if i < 0 {
			gs = append(gs, group{pos: el.Position})
			i = len(gs) - 1
		}
		gs[i].els = append(gs[i].els, el)
	}
	return gs
}

// Reservation is the result of the first pass.
type Reservation struct {
	Insets    Insets
	HeroArea  ad.Rect
	Reference int
}

// Reserve runs the first pass: it sums group footprints per occupied edge
// and shrinks the safe area by them.
func (p *Planner) Reserve(f ad.Format, els []ad.Element) Reservation {
	return p.reserve(p.frame(f, els), els)
}

func (p *Planner) reserve(fr frame, els []ad.Element) Reservation {
	sp := ReserveSpacing(fr.safe)

	var ins Insets
	var used [4]bool
	for _, g := range groupByPosition(els) {
		gw, gh := 0, 0
		for i, el := range g.els {
			s := p.size(fr, el)
			gw = max(gw, s.W)
			gh += s.H
			if i < len(g.els)-1 {
				gh += sp
			}
		}
		e := g.pos.Edges()
		if e.Has(ad.EdgeTop) {
			ins.Top += gh
			used[0] = true
		}
		if e.Has(ad.EdgeBottom) {
			ins.Bottom += gh
			used[1] = true
		}
		if e.Has(ad.EdgeLeft) {
			ins.Left += gw
			used[2] = true
		}
		if e.Has(ad.EdgeRight) {
			ins.Right += gw
			used[3] = true
		}
	}
	for i, v := range []*int{&ins.Top, &ins.Bottom, &ins.Left, &ins.Right} {
		if used[i] {
			*v += sp
		}
	}

	s := fr.safe
	return Reservation{
		Insets: ins,
		HeroArea: ad.Rect{
			X: s.X + ins.Left,
			Y: s.Y + ins.Top,
			W: max(1, s.W-ins.Left-ins.Right),
			H: max(1, s.H-ins.Top-ins.Bottom),
		},
		Reference: fr.ref,
	}
}

// StackOrder orders a group's members top to bottom. The default is logo,
// copy, cta. A bottom_center pair instead puts copy first, then cta, then
// logo, so the text sits above whatever accompanies it.
func StackOrder(pos ad.Position, kinds []ad.Kind) []ad.Kind {
	rank := func(k ad.Kind) int { return int(k) }
	if pos == ad.BottomCenter && len(kinds) == 2 {
		rank = func(k ad.Kind) int {
			switch k {
			case ad.KindCopy:
				return 0
			case ad.KindCTA:
				return 1
			default:
				return 2
			}
		}
	}
	out := slices.Clone(kinds)
	slices.SortStableFunc(out, func(a, b ad.Kind) int { return rank(a) - rank(b) })
	return out
}

// Place runs the second pass and returns the placed groups and their draw
// operations. Elements with no area keep their slot but draw nothing.
func (p *Planner) Place(f ad.Format, els []ad.Element) ([]Group, []Op) {
	return p.place(p.frame(f, els), els)
}

func (p *Planner) place(fr frame, els []ad.Element) ([]Group, []Op) {
	sp := SpacingFor(fr.cat, fr.safe)

	var (
		groups []Group
		ops    []Op
	)
	for _, g := range groupByPosition(els) {
		members := make([]sized, len(g.els))
		kinds := make([]ad.Kind, len(g.els))
		for i, el := range g.els {
			members[i] = p.size(fr, el)
			kinds[i] = el.Kind
		}
		order := StackOrder(g.pos, kinds)
		slices.SortStableFunc(members, func(a, b sized) int {
			return slices.Index(order, a.Kind) - slices.Index(order, b.Kind)
		})

		bw, bh := 0, 0
		for i, m := range members {
			bw = max(bw, m.W)
			bh += m.H
			if i < len(members)-1 {
				bh += sp.Between(m.Kind, members[i+1].Kind)
			}
		}
		gx, gy := g.pos.Anchor(fr.safe, bw, bh)

		placed := Group{Position: g.pos, X: gx, Y: gy, W: bw, H: bh}
		y := gy
		for i, m := range members {
			x := gx + floorDiv(bw-m.W, 2)
			placed.Members = append(placed.Members, Member{Kind: m.Kind, X: x, Y: y, W: m.W, H: m.H})
			if m.W > 0 && m.H > 0 {
				ops = append(ops, p.draw(m, x, y)...)
			}
			y += m.H
			if i < len(members)-1 {
				y += sp.Between(m.Kind, members[i+1].Kind)
			}
		}
		groups = append(groups, placed)
	}
	return groups, ops
}

func (p *Planner) draw(m sized, x, y int) []Op {
	switch m.Kind {
	case ad.KindLogo:
		return []Op{{Kind: OpImage, Element: m.Kind, X: x, Y: y, W: m.W, H: m.H, Image: m.Logo}}
	case ad.KindCopy:
		b := m.block
		ops := make([]Op, 0, len(b.Lines))
		for i, line := range b.Lines {
			lw := p.probe.InkWidth(m.font, b.Size, line)
			lx := x
			if lw < m.W {
				lx += (m.W - lw) / 2
			}
			ops = append(ops, Op{
				Kind: OpText, Element: m.Kind,
				X: lx, Y: y + b.LineOffset(i), W: lw, H: b.LineHeight,
				Color: Color(m.Color), Text: line,
				Font: m.font.Name, Size: b.Size, FontFace: m.font,
			})
		}
		return ops
	case ad.KindCTA:
		c := m.cta
		return []Op{
			{Kind: OpRect, Element: m.Kind, X: x, Y: y, W: m.W, H: m.H, Color: Color(m.Background)},
			{
				Kind: OpText, Element: m.Kind,
				X: x + c.TextX, Y: y + c.TextY, W: c.TextW, H: c.TextH,
				Color: Color(m.Color), Text: c.Label,
				Font: m.font.Name, Size: c.FontSize, FontFace: m.font,
			},
		}
	}
	return nil
}

// Plan runs both passes for one format over a single shared frame.
func (p *Planner) Plan(f ad.Format, els []ad.Element) *Plan {
	fr := p.frame(f, els)
	res := p.reserve(fr, els)
	groups, ops := p.place(fr, els)
	return &Plan{
		Format:    f,
		Category:  fr.cat.String(),
		Safe:      fr.safe,
		Reference: res.Reference,
		Spacing:   SpacingFor(fr.cat, fr.safe),
		Insets:    res.Insets,
		HeroArea:  res.HeroArea,
		Groups:    groups,
		Ops:       ops,
	}
}
