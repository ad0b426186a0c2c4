package database

import "strings"

const (
	// Alphabet bounds used to compute gallery ranks lexicographically.
	// Using ASCII '0'..'z' yields a large space with many available midpoints.
	minChar = '0'
	maxChar = 'z'
	// Default mid character appended when ranking after the last image.
	midChar = 'U'
)

// NextRank returns a rank string that sorts lexicographically after prev.
// New gallery images are appended with NextRank of the current last rank.
func NextRank(prev string) string {
	if prev == "" {
		return string([]rune{midChar})
	}
	return prev + string([]rune{midChar})
}

// RankIsBetween reports whether rank lies strictly between prev and next.
// Bounds may be empty to indicate no lower (prev="") or upper (next="") bound.
func RankIsBetween(prev, rank, next string) bool {
	if prev == "" && next == "" {
		return false
	}
	if prev == "" {
		return strings.Compare(rank, next) < 0
	}
	if next == "" {
		return strings.Compare(prev, rank) < 0
	}
	return strings.Compare(prev, rank) < 0 && strings.Compare(rank, next) < 0
}

// RankBetween computes a rank string strictly between prev and next, used when
// an image is moved up or down in the gallery. If next is empty it falls back
// to NextRank(prev); if prev is empty it chooses a rank strictly less than next.
//
// The algorithm walks character-by-character and selects a midpoint character
// whenever space exists between the lower and upper bound characters. If no
// space exists at a position it appends the lower bound character and continues
// deeper, which guarantees progress because unbounded positions are treated as
// maxChar.
func RankBetween(prev, next string) string {
	if next == "" {
		return NextRank(prev)
	}

	p := []rune(prev)
	n := []rune(next)

	var out []rune
	i := 0
	for {
		// Lower bound character for this position
		pr := minChar
		if i < len(p) {
			pr = p[i]
		}
		// Upper bound character for this position; when the upper bound is
		// exhausted, treat it as maxChar to keep room above
		nr := maxChar
		if i < len(n) {
			nr = n[i]
		}

		// Carry over equal characters (tight bound at this position)
		if pr == nr {
			out = append(out, pr)
			i++
			continue
		}

		// If there is space between pr and nr, choose a midpoint
		if pr+1 < nr {
			mid := pr + (nr-pr)/2
			out = append(out, mid)
			return string(out)
		}

		// No space at this position, append pr and descend to next character
		out = append(out, pr)
		i++
	}
}
