package chart

import "math"

// Flow layout constants: fixed node width, fixed vertical gap between
// sibling nodes, and outer margins.
const (
	flowNodeWidth = 18.0
	flowNodeGap   = 14.0
	flowMarginX   = 12.0
	flowMarginY   = 16.0

	// Display floor in value units for near-zero nodes and links; it
	// affects drawn size only, never reported values.
	flowMinDisplay = 1.0
)

const (
	flowTotalColor = "#89a8d8"
	flowNetColor   = "#57c785"
)

// Node roles.
const (
	RoleCategory = "category"
	RoleSummary  = "summary"
)

// FlowCategory is one positive source feeding the aggregate node.
// Disabled or non-positive categories contribute no node and no value.
type FlowCategory struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Value   float64 `json:"value"`
	Enabled bool    `json:"enabled"`
}

// FlowNode is a positioned box. Value is exact (conservation holds on
// values); only the drawn height honors the display floor.
type FlowNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Value float64 `json:"value"`
	Role  string  `json:"role"`
	Rank  int     `json:"rank"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// FlowLink is a ribbon between two nodes. Width is the drawn stroke
// width; SourceY/TargetY are the ribbon centers at each end.
type FlowLink struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Value   float64 `json:"value"`
	Dashed  bool    `json:"dashed,omitempty"`
	Width   float64 `json:"width"`
	Path    string  `json:"path"`
	SourceY float64 `json:"sourceY"`
	TargetY float64 `json:"targetY"`
}

// FlowGeometry is a positioned left-to-right flow diagram. Empty means
// there is nothing to draw; a non-empty Placeholder tells the host to
// render that message instead of a graph.
type FlowGeometry struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Nodes       []FlowNode `json:"nodes"`
	Links       []FlowLink `json:"links"`
	Empty       bool       `json:"empty"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// Flow lays out enabled positive categories (rank 0) feeding a gross
// total (rank 1) that splits into net worth and debt (rank 2). Node
// heights and link widths are proportional to value with a fixed gap
// between siblings. Conservation is exact: the total equals the sum of
// enabled category values, and net equals total minus debt after debt
// is capped at the total (a negative-width link is never produced).
func Flow(categories []FlowCategory, debt float64, width int, opts Options) FlowGeometry {
	opts = opts.normalized()
	if width < MinContainerWidth {
		width = MinContainerWidth
	}
	height := opts.Height
	g := FlowGeometry{Width: width, Height: height}

	if !isFinite(debt) || debt < 0 {
		debt = 0
	}

	sources := make([]FlowCategory, 0, len(categories))
	total := 0.0
	for _, c := range categories {
		if !c.Enabled || !isFinite(c.Value) || c.Value <= 0 {
			continue
		}
		sources = append(sources, c)
		total += c.Value
	}

	if len(sources) == 0 {
		g.Empty = true
		if debt > 0 {
			// A graph with only a debt node is invalid input here.
			g.Placeholder = "No positive asset selected"
		}
		return g
	}

	cappedDebt := math.Min(debt, total)
	net := total - cappedDebt

	totalNode := FlowNode{ID: "total", Label: "Total assets", Color: flowTotalColor, Value: total, Role: RoleSummary, Rank: 1}
	netNode := FlowNode{ID: "net", Label: "Net worth", Color: flowNetColor, Value: net, Role: RoleSummary, Rank: 2}

	ranks := make([][]FlowNode, 3)
	for _, c := range sources {
		ranks[0] = append(ranks[0], FlowNode{
			ID: c.ID, Label: c.Label, Color: c.Color, Value: c.Value, Role: RoleCategory, Rank: 0,
		})
	}
	ranks[1] = []FlowNode{totalNode}
	ranks[2] = []FlowNode{netNode}
	if cappedDebt > 0 {
		ranks[2] = append(ranks[2], FlowNode{
			ID: "debt", Label: "Debt", Color: ColorLiability, Value: cappedDebt, Role: RoleSummary, Rank: 2,
		})
	}

	innerW := float64(width) - 2*flowMarginX
	innerH := float64(height) - 2*flowMarginY

	// One shared vertical scale keeps heights proportional across
	// ranks; the tightest rank decides it.
	ky := math.Inf(1)
	for _, rank := range ranks {
		sum := 0.0
		for _, n := range rank {
			sum += displayValue(n.Value)
		}
		avail := innerH - flowNodeGap*float64(len(rank)-1)
		if avail < flowMinDisplay {
			avail = flowMinDisplay
		}
		if k := avail / sum; k < ky {
			ky = k
		}
	}

	var nodes []FlowNode
	index := make(map[string]int)
	for rankNo, rank := range ranks {
		stackH := flowNodeGap * float64(len(rank)-1)
		for _, n := range rank {
			stackH += displayValue(n.Value) * ky
		}
		y := flowMarginY + (innerH-stackH)/2
		x := flowMarginX + float64(rankNo)*(innerW-flowNodeWidth)/2
		for _, n := range rank {
			n.X = x
			n.Y = y
			n.W = flowNodeWidth
			n.H = displayValue(n.Value) * ky
			index[n.ID] = len(nodes)
			nodes = append(nodes, n)
			y += n.H + flowNodeGap
		}
	}

	type linkSpec struct {
		source, target string
		value          float64
		dashed         bool
	}
	specs := make([]linkSpec, 0, len(sources)+2)
	for _, c := range sources {
		specs = append(specs, linkSpec{source: c.ID, target: "total", value: c.Value})
	}
	specs = append(specs, linkSpec{source: "total", target: "net", value: net})
	if cappedDebt > 0 {
		specs = append(specs, linkSpec{source: "total", target: "debt", value: cappedDebt, dashed: true})
	}

	// Link slots stack in declaration order at both ends so ribbons
	// never cross ambiguously.
	outOffset := make(map[string]float64)
	inOffset := make(map[string]float64)
	links := make([]FlowLink, 0, len(specs))
	for _, spec := range specs {
		src := nodes[index[spec.source]]
		tgt := nodes[index[spec.target]]
		w := displayValue(spec.value) * ky

		sy := src.Y + outOffset[spec.source] + w/2
		outOffset[spec.source] += w
		ty := tgt.Y + inOffset[spec.target] + w/2
		inOffset[spec.target] += w

		sx := src.X + src.W
		tx := tgt.X
		midX := (sx + tx) / 2
		var b pathBuilder
		b.moveTo(sx, sy)
		b.curveTo(midX, sy, midX, ty, tx, ty)

		links = append(links, FlowLink{
			Source:  spec.source,
			Target:  spec.target,
			Value:   spec.value,
			Dashed:  spec.dashed,
			Width:   w,
			Path:    b.String(),
			SourceY: sy,
			TargetY: ty,
		})
	}

	g.Nodes = nodes
	g.Links = links
	return g
}

func displayValue(v float64) float64 {
	return math.Max(v, flowMinDisplay)
}
