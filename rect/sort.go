package rect

import "sort"

// SortQuick orders items with the straight, non-transitive comparator
// Compare. Fast, but the result depends on input order because Touch is
// not an equivalence relation — do not "fix" this with a stable sort;
// the speed is the point (spec.md Design Notes).
func SortQuick(items []Rectangle) []Rectangle {
	out := append([]Rectangle(nil), items...)
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

// SortTwoStep produces a reading order that respects columns and
// within-column top-to-bottom order:
//
//  1. A selection sort restarted whenever the current minimum is
//     replaced by a vertically-smaller rectangle within the same
//     horizontal-touch (column) class. Restarting on every improvement
//     compensates for Touch not being transitive.
//  2. A bubble-sort pass ordering the result by X1, forbidden to swap
//     horizontally-touching pairs (so within-column order from step 1 is
//     never disturbed by the column reordering of step 2).
func SortTwoStep(items []Rectangle) []Rectangle {
	out := selectTwoStep(items)
	bubbleByX(out)
	return out
}

func selectTwoStep(items []Rectangle) []Rectangle {
	rem := append([]Rectangle(nil), items...)
	out := make([]Rectangle, 0, len(rem))
	for len(rem) > 0 {
		minIdx := 0
		i := 1
		for i < len(rem) {
			if HTouch(rem[i], rem[minIdx]) && VCompare(rem[i], rem[minIdx]) < 0 {
				minIdx = i
				i = 0
				continue
			}
			i++
		}
		out = append(out, rem[minIdx])
		rem = append(rem[:minIdx], rem[minIdx+1:]...)
	}
	return out
}

func bubbleByX(items []Rectangle) {
	n := len(items)
	for pass := 0; pass < n; pass++ {
		swapped := false
		for i := 0; i+1 < n; i++ {
			if HTouch(items[i], items[i+1]) {
				continue
			}
			if HCompare(items[i], items[i+1]) > 0 {
				items[i], items[i+1] = items[i+1], items[i]
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
}

// SortQuickStableByY sorts items in place by Y1, stable, used by the
// row-grouping pass which needs a strict top-to-bottom order rather
// than Compare's touch-aware heuristic.
func SortQuickStableByY(items []Rectangle) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Y1 < items[j].Y1 })
}

// SortChar orders blocks by walking chars (a page's character rectangles
// in document order) and placing the block containing the first
// unseen character next. Any block no character ever lands in (an
// unreliable backend character order) is appended in its original
// position, so the function degrades gracefully instead of dropping it.
func SortChar(blocks []Rectangle, chars []Rectangle) []Rectangle {
	used := make([]bool, len(blocks))
	out := make([]Rectangle, 0, len(blocks))
	remaining := len(blocks)
	for _, c := range chars {
		if remaining == 0 {
			break
		}
		for i, b := range blocks {
			if used[i] {
				continue
			}
			if Contain(b, c) || Overlap(b, c) {
				used[i] = true
				remaining--
				out = append(out, b)
				break
			}
		}
	}
	for i, b := range blocks {
		if !used[i] {
			out = append(out, b)
		}
	}
	return out
}
