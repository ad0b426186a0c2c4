package database

import "testing"

func TestNextRank(t *testing.T) {
	if got := NextRank(""); got != "U" {
		t.Fatalf("NextRank(\"\") = %q; expected \"U\"", got)
	}
	prev := NextRank("")
	next := NextRank(prev)
	if !(prev < next) {
		t.Fatalf("NextRank(%q) = %q; expected it to sort after", prev, next)
	}
}

func TestRankBetween_OrdersStrictly(t *testing.T) {
	cases := []struct {
		prev, next string
	}{
		{"", "U"},
		{"U", ""},
		{"U", "UU"},
		{"A", "B"},
		{"AA", "AB"},
		{"Az", "B"},
		{"0", "1"},
	}
	for _, tc := range cases {
		got := RankBetween(tc.prev, tc.next)
		if tc.prev != "" && !(tc.prev < got) {
			t.Errorf("RankBetween(%q, %q) = %q; not greater than prev", tc.prev, tc.next, got)
		}
		if tc.next != "" && !(got < tc.next) {
			t.Errorf("RankBetween(%q, %q) = %q; not less than next", tc.prev, tc.next, got)
		}
	}
}

func TestRankBetween_RepeatedInsertionsStayOrdered(t *testing.T) {
	// Repeatedly insert between a fixed lower bound and the last inserted rank,
	// which is the pattern produced by moving a gallery image up many times.
	lower := "A"
	upper := "B"
	for i := 0; i < 32; i++ {
		mid := RankBetween(lower, upper)
		if !(lower < mid && mid < upper) {
			t.Fatalf("iteration %d: RankBetween(%q, %q) = %q out of bounds", i, lower, upper, mid)
		}
		upper = mid
	}
}

func TestRankIsBetween(t *testing.T) {
	cases := []struct {
		prev, rank, next string
		want             bool
	}{
		{"A", "B", "C", true},
		{"A", "A", "C", false},
		{"A", "C", "C", false},
		{"", "B", "C", true},
		{"A", "B", "", true},
		{"", "B", "", false},
	}
	for _, tc := range cases {
		if got := RankIsBetween(tc.prev, tc.rank, tc.next); got != tc.want {
			t.Errorf("RankIsBetween(%q, %q, %q) = %v; expected %v", tc.prev, tc.rank, tc.next, got, tc.want)
		}
	}
}
