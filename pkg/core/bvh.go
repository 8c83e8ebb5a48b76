package core

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

var (
	// ErrEmptyBVH is returned when a BVH is built over no primitives
	ErrEmptyBVH = errors.New("bvh: no primitives")
	// ErrUnboundedPrimitive is returned when a primitive has no bounding box
	ErrUnboundedPrimitive = errors.New("bvh: primitive has no bounding box")
)

// BVHNode is an internal node of the Bounding Volume Hierarchy. Both children
// are always set; a single primitive appears as both children of its node.
type BVHNode struct {
	Left  Hittable
	Right Hittable
	Box   AABB
}

// NewBVH builds a BVH over the given primitives. The input slice is copied,
// so the caller's ordering is left untouched.
func NewBVH(shapes []Hittable, random *rand.Rand) (*BVHNode, error) {
	if len(shapes) == 0 {
		return nil, ErrEmptyBVH
	}

	// Every primitive must be boundable before we start sorting by boxes
	for i, shape := range shapes {
		if _, ok := shape.BoundingBox(); !ok {
			return nil, fmt.Errorf("primitive %d (%T): %w", i, shape, ErrUnboundedPrimitive)
		}
	}

	shapesCopy := make([]Hittable, len(shapes))
	copy(shapesCopy, shapes)

	return buildBVH(shapesCopy, 0, len(shapesCopy), random)
}

// buildBVH recursively partitions shapes[start:end]
func buildBVH(shapes []Hittable, start, end int, random *rand.Rand) (*BVHNode, error) {
	axis := random.Intn(3)
	span := end - start

	var left, right Hittable
	switch span {
	case 1:
		left = shapes[start]
		right = shapes[start]
	case 2:
		if boxCompare(shapes[start+1], shapes[start], axis) {
			left, right = shapes[start+1], shapes[start]
		} else {
			left, right = shapes[start], shapes[start+1]
		}
	default:
		sub := shapes[start:end]
		sort.SliceStable(sub, func(i, j int) bool {
			return boxCompare(sub[i], sub[j], axis)
		})

		mid := start + span/2
		leftNode, err := buildBVH(shapes, start, mid, random)
		if err != nil {
			return nil, err
		}
		rightNode, err := buildBVH(shapes, mid, end, random)
		if err != nil {
			return nil, err
		}
		left, right = leftNode, rightNode
	}

	boxLeft, okLeft := left.BoundingBox()
	boxRight, okRight := right.BoundingBox()
	box, ok := SurroundingBox(boxLeft, okLeft, boxRight, okRight)
	if !ok {
		return nil, fmt.Errorf("node [%d, %d): %w", start, end, ErrUnboundedPrimitive)
	}

	return &BVHNode{Left: left, Right: right, Box: box}, nil
}

// boxCompare orders primitives by the minimum corner of their boxes on axis
func boxCompare(a, b Hittable, axis int) bool {
	boxA, _ := a.BoundingBox()
	boxB, _ := b.BoundingBox()
	return boxA.Min.Axis(axis) < boxB.Min.Axis(axis)
}

// Hit tests the node box, then the left child, then the right child limited
// to hits closer than the left one
func (n *BVHNode) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	hitLeft, isHitLeft := n.Left.Hit(ray, tMin, tMax)

	rightMax := tMax
	if isHitLeft {
		rightMax = hitLeft.T
	}
	hitRight, isHitRight := n.Right.Hit(ray, tMin, rightMax)

	if isHitRight {
		return hitRight, true
	}
	return hitLeft, isHitLeft
}

// BoundingBox returns the cached union box of the subtree
func (n *BVHNode) BoundingBox() (AABB, bool) {
	return n.Box, true
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes int // Internal BVH nodes
	LeafRefs   int // Child slots holding a primitive rather than a node
	MaxDepth   int // Deepest node level, root is 0
}

// Stats walks the tree and collects structural statistics
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	n.collectStats(0, &stats)
	return stats
}

// collectStats recursively collects statistics about the BVH
func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	for _, child := range []Hittable{n.Left, n.Right} {
		if node, ok := child.(*BVHNode); ok {
			node.collectStats(depth+1, stats)
		} else {
			stats.LeafRefs++
		}
	}
}
