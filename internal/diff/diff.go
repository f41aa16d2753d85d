// Package diff computes minimal insert/remove edit scripts between two ordered
// sequences under a caller supplied equivalence.
//
// The script comes from the longest common subsequence found with the
// linear-space variant of Myers' algorithm, which bisects on the middle snake:
// O((N+M)·D) time and O(N+M) extra memory, where D is the edit distance. Ops are
// emitted from the tail of the sequences toward the head, so a Remove
// position is always the index of the first removed entry in the old
// sequence.
package diff

// Diff returns the edit script turning old into next, where same decides
// whether two entries are the same logical entity. Matched entries are never
// reported, even when their content differs.
func Diff[T any](old, next []T, same func(a, b T) bool) []Op[T] {
	return DiffFunc(old, next, same, nil)
}

// DiffFunc is Diff plus a Change op for every matched pair for which changed
// returns true. A nil changed behaves like Diff.
func DiffFunc[T any](old, next []T, same func(a, b T) bool, changed func(a, b T) bool) []Op[T] {
	matches := commonSubsequence(old, next, same)

	var ops []Op[T]
	x, y := len(old), len(next)
	for i := len(matches) - 1; i >= -1; i-- {
		mx, my := 0, 0
		if i >= 0 {
			mx, my = matches[i].x+1, matches[i].y+1
		}
		if x > mx {
			ops = append(ops, Op[T]{Kind: Remove, Pos: mx, Count: x - mx})
		}
		if y > my {
			items := append([]T(nil), next[my:y]...)
			ops = append(ops, Op[T]{Kind: Insert, Pos: mx, Count: y - my, Items: items})
		}
		if i < 0 {
			break
		}
		p := matches[i]
		if changed != nil && changed(old[p.x], next[p.y]) {
			ops = append(ops, Op[T]{Kind: Change, Pos: p.x, Count: 1, Items: []T{next[p.y]}})
		}
		x, y = p.x, p.y
	}
	return ops
}

// Distance counts single-entry inserts plus removes in a script.
func Distance[T any](ops []Op[T]) int {
	n := 0
	for _, op := range ops {
		if op.Kind == Insert || op.Kind == Remove {
			n += op.Count
		}
	}
	return n
}

type pair struct{ x, y int }

// commonSubsequence returns matched index pairs in increasing order.
func commonSubsequence[T any](a, b []T, same func(a, b T) bool) []pair {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	size := len(a) + len(b) + 3
	s := &lcs[T]{
		a:    a,
		b:    b,
		same: same,
		fwd:  make([]int, size),
		bwd:  make([]int, size),
	}
	s.compare(0, len(a), 0, len(b))
	return s.out
}

// lcs carries the inputs and the two shared V arrays through the recursion.
// Each bisect only needs the arrays until it returns, so one pair sized for
// the whole input serves every level.
type lcs[T any] struct {
	a, b     []T
	same     func(a, b T) bool
	fwd, bwd []int
	out      []pair
}

// compare appends the matches of a[aLo:aHi] and b[bLo:bHi] to s.out.
func (s *lcs[T]) compare(aLo, aHi, bLo, bHi int) {
	for aLo < aHi && bLo < bHi && s.same(s.a[aLo], s.b[bLo]) {
		s.out = append(s.out, pair{aLo, bLo})
		aLo++
		bLo++
	}
	tail := 0
	for aLo < aHi && bLo < bHi && s.same(s.a[aHi-1], s.b[bHi-1]) {
		aHi--
		bHi--
		tail++
	}
	if aLo < aHi && bLo < bHi {
		if x, y, ok := s.bisect(aLo, aHi, bLo, bHi); ok {
			s.compare(aLo, x, bLo, y)
			s.compare(x, aHi, y, bHi)
		}
	}
	for i := 0; i < tail; i++ {
		s.out = append(s.out, pair{aHi + i, bHi + i})
	}
}

// bisect runs the forward and reverse searches until they overlap and
// returns the absolute split point on an optimal path. The caller has
// trimmed the common prefix and suffix, so the edit distance is at least two
// and both halves are strictly smaller.
func (s *lcs[T]) bisect(aLo, aHi, bLo, bHi int) (int, int, bool) {
	n, m := aHi-aLo, bHi-bLo
	maxD := (n + m + 1) / 2
	off := maxD
	size := 2*maxD + 2
	v1, v2 := s.fwd[:size], s.bwd[:size]
	for i := range v1 {
		v1[i], v2[i] = -1, -1
	}
	v1[off+1], v2[off+1] = 0, 0

	delta := n - m
	// With an odd delta the paths meet while extending forward.
	front := delta%2 != 0
	var k1start, k1end, k2start, k2end int
	for d := 0; d < maxD; d++ {
		for k1 := -d + k1start; k1 <= d-k1end; k1 += 2 {
			k1off := off + k1
			var x1 int
			if k1 == -d || (k1 != d && v1[k1off-1] < v1[k1off+1]) {
				x1 = v1[k1off+1]
			} else {
				x1 = v1[k1off-1] + 1
			}
			y1 := x1 - k1
			for x1 < n && y1 < m && s.same(s.a[aLo+x1], s.b[bLo+y1]) {
				x1++
				y1++
			}
			v1[k1off] = x1
			switch {
			case x1 > n:
				k1end += 2
			case y1 > m:
				k1start += 2
			case front:
				k2off := off + delta - k1
				if k2off >= 0 && k2off < size && v2[k2off] != -1 {
					if x1 >= n-v2[k2off] {
						return aLo + x1, bLo + y1, true
					}
				}
			}
		}
		for k2 := -d + k2start; k2 <= d-k2end; k2 += 2 {
			k2off := off + k2
			var x2 int
			if k2 == -d || (k2 != d && v2[k2off-1] < v2[k2off+1]) {
				x2 = v2[k2off+1]
			} else {
				x2 = v2[k2off-1] + 1
			}
			y2 := x2 - k2
			for x2 < n && y2 < m && s.same(s.a[aHi-1-x2], s.b[bHi-1-y2]) {
				x2++
				y2++
			}
			v2[k2off] = x2
			switch {
			case x2 > n:
				k2end += 2
			case y2 > m:
				k2start += 2
			case !front:
				k1off := off + delta - k2
				if k1off >= 0 && k1off < size && v1[k1off] != -1 {
					x1 := v1[k1off]
					y1 := off + x1 - k1off
					if x1 >= n-x2 {
						return aLo + x1, bLo + y1, true
					}
				}
			}
		}
	}
	// The searches only fail to meet when the ranges share no entry.
	return 0, 0, false
}
