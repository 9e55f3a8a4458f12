// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package index

import (
	"github.com/dsnet/matchstat/internal/sais"
)

// Node is a handle to a node of a SuffixTree.
type Node int32

// nilNode marks a missing parent, child, or sibling.
const nilNode Node = -1

type treeNode struct {
	lb, rb  int32 // Suffix array interval [lb, rb]
	depth   int32 // String depth
	parent  Node
	child   Node // First child in edge character order
	sibling Node // Next sibling in edge character order
	degree  int32
}

// SuffixTree is a suffix tree over a text terminated by the zero sentinel.
//
// The tree is derived from the suffix array and LCP array of the text: every
// internal node is an LCP interval, and every leaf is one rank of the suffix
// array. Children are ordered by the first character of their edge label.
type SuffixTree struct {
	text   []byte // Text including the trailing sentinel
	sa     []int
	nodes  []treeNode
	leaves []Node          // Leaf node for each suffix array rank
	inner  map[uint64]Node // Internal node for each interval
}

// NewSuffixTree builds the tree over text, which must already end with the
// sentinel and contain no other sentinel. If sa is nil, the suffix array is
// computed.
func NewSuffixTree(text []byte, sa []int) *SuffixTree {
	if sa == nil {
		sa = make([]int, len(text))
		sais.ComputeSA(text, sa)
	}
	st := &SuffixTree{
		text:   text,
		sa:     sa,
		nodes:  make([]treeNode, 0, 2*len(text)),
		leaves: make([]Node, len(text)),
		inner:  make(map[uint64]Node),
	}
	st.build(sais.LCP(text, sa))
	return st
}

// build constructs the tree bottom-up over the LCP intervals. Leaves are
// pushed as nodes of depth equal to their suffix length; an LCP value that is
// smaller than the stack top closes nodes, and one that falls strictly
// between two stack entries creates a new internal node.
func (st *SuffixTree) build(lcp []int) {
	n := len(st.sa)
	root := st.newNode(0, 0)
	stack := []Node{root}
	closeDeeper := func(h, rb int) {
		for st.nodes[stack[len(stack)-1]].depth > int32(h) {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			st.nodes[last].rb = int32(rb)
			if top := stack[len(stack)-1]; st.nodes[top].depth >= int32(h) {
				st.addChild(top, last)
			} else {
				v := st.newNode(int(st.nodes[last].lb), h)
				st.addChild(v, last)
				stack = append(stack, v)
			}
		}
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			closeDeeper(lcp[i], i-1)
		}
		leaf := st.newNode(i, n-st.sa[i])
		st.nodes[leaf].rb = int32(i)
		st.leaves[i] = leaf
		stack = append(stack, leaf)
	}
	closeDeeper(0, n-1)
	st.nodes[root].rb = int32(n - 1)

	for v := range st.nodes {
		if nd := &st.nodes[v]; nd.child != nilNode || Node(v) == root {
			st.inner[intervalKey(int(nd.lb), int(nd.rb))] = Node(v)
		}
	}
}

func (st *SuffixTree) newNode(lb, depth int) Node {
	st.nodes = append(st.nodes, treeNode{
		lb: int32(lb), rb: -1, depth: int32(depth),
		parent: nilNode, child: nilNode, sibling: nilNode,
	})
	return Node(len(st.nodes) - 1)
}

// addChild appends c as the last child of p. Children arrive in suffix array
// order, which is the order of their first edge character. A linked list is
// kept in reverse and fixed up lazily by Children.
func (st *SuffixTree) addChild(p, c Node) {
	st.nodes[c].parent = p
	st.nodes[c].sibling = st.nodes[p].child
	st.nodes[p].child = c
	st.nodes[p].degree++
}

func intervalKey(lb, rb int) uint64 { return uint64(lb)<<32 | uint64(uint32(rb)) }

// Root returns the root node.
func (st *SuffixTree) Root() Node { return 0 }

// Size reports the number of suffixes, which includes the sentinel suffix.
func (st *SuffixTree) Size() int { return len(st.sa) }

// NumNodes reports the number of nodes, leaves included.
func (st *SuffixTree) NumNodes() int { return len(st.nodes) }

// Text returns the indexed text including the trailing sentinel.
func (st *SuffixTree) Text() []byte { return st.text }

// SA returns the suffix array of the text.
func (st *SuffixTree) SA() []int { return st.sa }

// IsLeaf reports whether v is a leaf.
func (st *SuffixTree) IsLeaf(v Node) bool { return st.nodes[v].child == nilNode && v != st.Root() }

// Degree reports the number of children of v.
func (st *SuffixTree) Degree(v Node) int { return int(st.nodes[v].degree) }

// Children returns the children of v ordered by first edge character.
func (st *SuffixTree) Children(v Node) []Node {
	out := make([]Node, st.nodes[v].degree)
	i := len(out) - 1
	for c := st.nodes[v].child; c != nilNode; c = st.nodes[c].sibling {
		out[i] = c
		i--
	}
	return out
}

// Parent returns the parent of v. The root is its own parent.
func (st *SuffixTree) Parent(v Node) Node {
	if p := st.nodes[v].parent; p != nilNode {
		return p
	}
	return v
}

// Depth reports the string depth of v, which counts the sentinel for leaves.
func (st *SuffixTree) Depth(v Node) int { return int(st.nodes[v].depth) }

// Interval returns the suffix array interval [lb, rb] covered by v.
func (st *SuffixTree) Interval(v Node) (lb, rb int) {
	return int(st.nodes[v].lb), int(st.nodes[v].rb)
}

// Count reports the number of suffixes below v.
func (st *SuffixTree) Count(v Node) int {
	return int(st.nodes[v].rb-st.nodes[v].lb) + 1
}

// ID returns a stable identifier for v. The root and the leaf of the
// sentinel-only suffix do not correspond to an indexed substring and both
// report 0; every other node has a distinct positive identifier.
func (st *SuffixTree) ID(v Node) int {
	if v == st.Root() || (st.IsLeaf(v) && st.nodes[v].depth == 1) {
		return 0
	}
	return int(v)
}

// Edge returns the k-th character (1-based) of the edge label leading to v.
func (st *SuffixTree) Edge(v Node, k int) byte {
	pd := st.nodes[st.Parent(v)].depth
	if v == st.Root() || k < 1 || int32(k) > st.nodes[v].depth-pd {
		panic("index: edge position out of range")
	}
	return st.text[st.sa[st.nodes[v].lb]+int(pd)+k-1]
}

// Locus returns the node whose suffix array interval is exactly [lb, rb].
// Every non-empty interval produced by backward search is the interval of
// some node.
func (st *SuffixTree) Locus(lb, rb int) Node {
	if lb == rb {
		return st.leaves[lb]
	}
	v, ok := st.inner[intervalKey(lb, rb)]
	if !ok {
		panic("index: interval is not a node")
	}
	return v
}
