package paginate_test

import (
	"testing"

	"github.com/finassist/dashboard-bff-go/internal/paginate"
)

func rows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_Basic(t *testing.T) {
	p := paginate.Paginate(rows(23), 10, 0)
	if p.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", p.TotalPages)
	}
	if p.RangeStart != 0 || p.RangeEnd != 10 || len(p.Rows) != 10 {
		t.Errorf("page 0 = %+v", p)
	}
	if p.HasPrev {
		t.Error("prev should be disabled on first page")
	}
	if !p.HasNext {
		t.Error("next should be enabled on first page")
	}
}

func TestPaginate_ClampBeyondRange(t *testing.T) {
	p := paginate.Paginate(rows(23), 10, 5)
	if p.Current != 2 {
		t.Errorf("current = %d, want clamped 2", p.Current)
	}
	if p.RangeStart != 20 || p.RangeEnd != 23 {
		t.Errorf("range = [%d,%d), want [20,23)", p.RangeStart, p.RangeEnd)
	}
	if len(p.Rows) != 3 || p.Rows[0] != 20 {
		t.Errorf("rows = %v", p.Rows)
	}
	if p.HasNext {
		t.Error("next should be disabled on last page")
	}
	if !p.HasPrev {
		t.Error("prev should be enabled on last page")
	}

	p = paginate.Paginate(rows(23), 10, -4)
	if p.Current != 0 {
		t.Errorf("negative request: current = %d, want 0", p.Current)
	}
}

func TestPaginate_EmptyAndDegenerate(t *testing.T) {
	p := paginate.Paginate([]int{}, 10, 3)
	if p.TotalPages != 1 || p.Current != 0 || len(p.Rows) != 0 {
		t.Errorf("empty set page = %+v", p)
	}
	if p.HasPrev || p.HasNext {
		t.Error("no navigation on a single empty page")
	}

	p = paginate.Paginate(rows(5), 0, 0) // pageSize clamped to 1
	if p.TotalPages != 5 || len(p.Rows) != 1 {
		t.Errorf("degenerate page size = %+v", p)
	}
}

func TestPager_ResetsOnIdentityChange(t *testing.T) {
	var pager paginate.Pager

	// Month "09" has 23 rows, user browses to page 2.
	pager.Observe("09", 23)
	pager.Request(2)
	if got := pager.Observe("09", 23); got != 2 {
		t.Fatalf("same identity: page = %d, want 2", got)
	}

	// Switching to a month with 5 rows must reset to page 0, not clamp.
	if got := pager.Observe("10", 5); got != 0 {
		t.Errorf("month change: page = %d, want 0", got)
	}

	// A refetch changing the row count also resets.
	pager.Request(3)
	if got := pager.Observe("10", 8); got != 0 {
		t.Errorf("row-count change: page = %d, want 0", got)
	}
}
