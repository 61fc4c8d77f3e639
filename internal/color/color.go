// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package color implements iterated register coloring with coalescing
// (spec §4.8): the full George/Briggs worklist-bucket algorithm over an
// interference graph — simplify, coalesce, freeze, and spill phases
// repeated until every worklist is empty, then optimistic color
// assignment on the way back off the select stack. The worklist-bucket
// and select-stack shape is spec-original (Appel ch. 11), modeled after
// the simplify-stack loop in the vslc lir regalloc.go allocator,
// generalized from its single simplify pass to the full iterated
// coalescing scheme spec §4.8 names.
package color

import (
	"tigerc/internal/frame"
	"tigerc/internal/igraph"
	"tigerc/internal/temp"
)

const infiniteDegree = 1 << 30

// Result is the outcome of one coloring attempt.
type Result struct {
	// Color maps every successfully colored (or coalesced) temp to the
	// machine register temp it was assigned.
	Color map[temp.Temp]temp.Temp
	// Spills lists every temp that could not be colored and must be
	// rewritten to a memory access before the next allocation attempt.
	Spills []temp.Temp
}

// Color runs the iterated coloring algorithm over ig. notSpill names
// temps a prior spill rewrite already introduced (spec §4.9); they are
// deprioritized as spill candidates since spilling them again would not
// shrink the problem and could loop forever (spec T4).
func Color(ig *igraph.Graph, rm *frame.RegManager, notSpill map[temp.Temp]bool) *Result {
	c := newColorer(ig, rm, notSpill)
	c.build()
	c.makeWorklist()

	for {
		switch {
		case len(c.simplifyWL) > 0:
			c.simplify()
		case len(c.worklistMoves) > 0:
			c.coalesce()
		case len(c.freezeWL) > 0:
			c.freeze()
		case len(c.spillWL) > 0:
			c.selectSpill()
		default:
			return c.assignColors()
		}
	}
}

type colorer struct {
	ig       *igraph.Graph
	rm       *frame.RegManager
	k        int
	notSpill map[temp.Temp]bool

	degree map[temp.Temp]int
	alias  map[temp.Temp]temp.Temp
	color  map[temp.Temp]temp.Temp

	selectStack []temp.Temp
	onStack     map[temp.Temp]bool
	coalesced   map[temp.Temp]bool
	colored     map[temp.Temp]bool
	spilled     map[temp.Temp]bool

	simplifyWL map[temp.Temp]bool
	freezeWL   map[temp.Temp]bool
	spillWL    map[temp.Temp]bool

	moveList      map[temp.Temp]map[igraph.Move]bool
	worklistMoves map[igraph.Move]bool
	activeMoves   map[igraph.Move]bool
}

func newColorer(ig *igraph.Graph, rm *frame.RegManager, notSpill map[temp.Temp]bool) *colorer {
	return &colorer{
		ig:            ig,
		rm:            rm,
		k:             rm.K(),
		notSpill:      notSpill,
		degree:        make(map[temp.Temp]int),
		alias:         make(map[temp.Temp]temp.Temp),
		color:         make(map[temp.Temp]temp.Temp),
		onStack:       make(map[temp.Temp]bool),
		coalesced:     make(map[temp.Temp]bool),
		colored:       make(map[temp.Temp]bool),
		spilled:       make(map[temp.Temp]bool),
		simplifyWL:    make(map[temp.Temp]bool),
		freezeWL:      make(map[temp.Temp]bool),
		spillWL:       make(map[temp.Temp]bool),
		moveList:      make(map[temp.Temp]map[igraph.Move]bool),
		worklistMoves: make(map[igraph.Move]bool),
		activeMoves:   make(map[igraph.Move]bool),
	}
}

func (c *colorer) build() {
	for _, n := range c.ig.Nodes() {
		if c.ig.IsPrecolored(n) {
			c.degree[n] = infiniteDegree
			c.color[n] = n
			c.colored[n] = true
		} else {
			c.degree[n] = c.ig.Degree(n)
		}
		c.moveList[n] = make(map[igraph.Move]bool)
		for _, m := range c.ig.MoveList(n) {
			c.moveList[n][m] = true
		}
	}
	for _, m := range c.ig.WorklistMoves() {
		c.worklistMoves[m] = true
	}
}

func (c *colorer) makeWorklist() {
	for _, n := range c.ig.Nodes() {
		if c.ig.IsPrecolored(n) {
			continue
		}
		switch {
		case c.degree[n] >= c.k:
			c.spillWL[n] = true
		case c.moveRelated(n):
			c.freezeWL[n] = true
		default:
			c.simplifyWL[n] = true
		}
	}
}

func (c *colorer) nodeMoves(n temp.Temp) []igraph.Move {
	var out []igraph.Move
	for m := range c.moveList[n] {
		if c.worklistMoves[m] || c.activeMoves[m] {
			out = append(out, m)
		}
	}
	return out
}

func (c *colorer) moveRelated(n temp.Temp) bool {
	return len(c.nodeMoves(n)) > 0
}

// adjacent returns n's interference neighbors that are still "in the
// graph": neither pushed onto the select stack nor coalesced away.
func (c *colorer) adjacent(n temp.Temp) []temp.Temp {
	var out []temp.Temp
	for _, m := range c.ig.Neighbors(n) {
		if !c.onStack[m] && !c.coalesced[m] {
			out = append(out, m)
		}
	}
	return out
}

func (c *colorer) anyFrom(set map[temp.Temp]bool) temp.Temp {
	for n := range set {
		return n
	}
	panic("color: anyFrom of empty set")
}

func (c *colorer) simplify() {
	n := c.anyFrom(c.simplifyWL)
	delete(c.simplifyWL, n)
	c.selectStack = append(c.selectStack, n)
	c.onStack[n] = true
	for _, m := range c.adjacent(n) {
		c.decrementDegree(m)
	}
}

func (c *colorer) decrementDegree(m temp.Temp) {
	if c.ig.IsPrecolored(m) {
		return
	}
	d := c.degree[m]
	c.degree[m] = d - 1
	if d != c.k {
		return
	}
	nodes := append([]temp.Temp{m}, c.adjacent(m)...)
	c.enableMoves(nodes)
	delete(c.spillWL, m)
	if c.moveRelated(m) {
		c.freezeWL[m] = true
	} else {
		c.simplifyWL[m] = true
	}
}

func (c *colorer) enableMoves(nodes []temp.Temp) {
	for _, n := range nodes {
		for _, m := range c.nodeMoves(n) {
			if c.activeMoves[m] {
				delete(c.activeMoves, m)
				c.worklistMoves[m] = true
			}
		}
	}
}

func (c *colorer) addWorklist(n temp.Temp) {
	if c.ig.IsPrecolored(n) || c.moveRelated(n) || c.degree[n] >= c.k {
		return
	}
	delete(c.freezeWL, n)
	c.simplifyWL[n] = true
}

// ok reports whether coalescing t into u would leave t colorable: it is
// already low-degree, already a machine register, or already
// interferes with u (so the merge adds no new constraint).
func (c *colorer) ok(t, u temp.Temp) bool {
	return c.degree[t] < c.k || c.ig.IsPrecolored(t) || c.ig.Interferes(t, u)
}

// conservative is the Briggs heuristic: the coalesced node is safely
// colorable if fewer than K of its neighbors (the union of both sides',
// deduplicated) have degree >= K.
func (c *colorer) conservative(nodes []temp.Temp) bool {
	seen := make(map[temp.Temp]bool, len(nodes))
	count := 0
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		if c.degree[n] >= c.k {
			count++
		}
	}
	return count < c.k
}

func (c *colorer) getAlias(n temp.Temp) temp.Temp {
	for c.coalesced[n] {
		n = c.alias[n]
	}
	return n
}

func (c *colorer) anyMove() igraph.Move {
	for m := range c.worklistMoves {
		return m
	}
	panic("color: anyMove of empty worklistMoves")
}

func (c *colorer) coalesce() {
	m := c.anyMove()
	x := c.getAlias(m.Src)
	y := c.getAlias(m.Dst)

	u, v := x, y
	if c.ig.IsPrecolored(y) {
		u, v = y, x
	}
	delete(c.worklistMoves, m)

	switch {
	case u == v:
		c.addWorklist(u)

	case c.ig.IsPrecolored(v) || c.ig.Interferes(u, v):
		c.addWorklist(u)
		c.addWorklist(v)

	case c.ig.IsPrecolored(u) && c.allOK(v, u):
		c.combine(u, v)
		c.addWorklist(u)

	case !c.ig.IsPrecolored(u) && c.conservative(append(c.adjacent(u), c.adjacent(v)...)):
		c.combine(u, v)
		c.addWorklist(u)

	default:
		c.activeMoves[m] = true
	}
}

func (c *colorer) allOK(v, u temp.Temp) bool {
	for _, t := range c.adjacent(v) {
		if !c.ok(t, u) {
			return false
		}
	}
	return true
}

func (c *colorer) combine(u, v temp.Temp) {
	if c.freezeWL[v] {
		delete(c.freezeWL, v)
	} else {
		delete(c.spillWL, v)
	}
	c.coalesced[v] = true
	c.alias[v] = u

	for m := range c.moveList[v] {
		c.moveList[u][m] = true
	}
	c.enableMoves([]temp.Temp{v})

	for _, t := range c.adjacent(v) {
		c.addEdge(t, u)
		c.decrementDegree(t)
	}

	if c.degree[u] >= c.k && c.freezeWL[u] {
		delete(c.freezeWL, u)
		c.spillWL[u] = true
	}
}

// addEdge adds an interference edge to the underlying graph (used when
// a coalesce unifies two nodes, so u inherits v's neighbors), bumping
// degree only for a genuinely new edge.
func (c *colorer) addEdge(a, b temp.Temp) {
	if a == b || c.ig.Interferes(a, b) {
		return
	}
	c.ig.AddEdge(a, b)
	if !c.ig.IsPrecolored(a) {
		c.degree[a]++
	}
	if !c.ig.IsPrecolored(b) {
		c.degree[b]++
	}
}

func (c *colorer) freeze() {
	n := c.anyFrom(c.freezeWL)
	delete(c.freezeWL, n)
	c.simplifyWL[n] = true
	c.freezeMoves(n)
}

func (c *colorer) freezeMoves(n temp.Temp) {
	for _, m := range c.nodeMoves(n) {
		if c.activeMoves[m] {
			delete(c.activeMoves, m)
		} else {
			delete(c.worklistMoves, m)
		}

		var v temp.Temp
		if c.getAlias(m.Dst) == c.getAlias(n) {
			v = c.getAlias(m.Src)
		} else {
			v = c.getAlias(m.Dst)
		}

		if !c.moveRelated(v) && c.degree[v] < c.k {
			delete(c.freezeWL, v)
			c.simplifyWL[v] = true
		}
	}
}

// selectSpill picks a spill candidate, preferring one not produced by a
// prior spill rewrite (spec §4.9's not_spill, avoiding an infinite
// spill/rewrite loop, spec T4).
func (c *colorer) selectSpill() {
	var n temp.Temp
	found := false
	for cand := range c.spillWL {
		if !c.notSpill[cand] {
			n = cand
			found = true
			break
		}
	}
	if !found {
		n = c.anyFrom(c.spillWL)
	}

	delete(c.spillWL, n)
	c.simplifyWL[n] = true
	c.freezeMoves(n)
}

func (c *colorer) assignColors() *Result {
	res := &Result{Color: make(map[temp.Temp]temp.Temp)}

	for i := len(c.selectStack) - 1; i >= 0; i-- {
		n := c.selectStack[i]

		okColors := make(map[temp.Temp]bool, c.k)
		for _, reg := range c.rm.AllRegisters() {
			okColors[reg] = true
		}
		for _, w := range c.ig.Neighbors(n) {
			alias := c.getAlias(w)
			if c.colored[alias] || c.ig.IsPrecolored(alias) {
				delete(okColors, c.color[alias])
			}
		}

		if len(okColors) == 0 {
			c.spilled[n] = true
			continue
		}
		c.colored[n] = true
		c.color[n] = c.anyFrom(okColors)
	}

	// A node coalesced into one that itself ended up spilled must be
	// spilled too: it was never going to be assigned its own color.
	for n := range c.coalesced {
		root := c.getAlias(n)
		if c.spilled[root] {
			c.spilled[n] = true
			continue
		}
		c.color[n] = c.color[root]
	}

	for n, col := range c.color {
		if !c.spilled[n] {
			res.Color[n] = col
		}
	}
	for n := range c.spilled {
		res.Spills = append(res.Spills, n)
	}
	return res
}
