// Package mapping holds the forward (logical-to-physical) and reverse
// (physical-to-logical) translation tables for one partition.
package mapping

import "github.com/pony1357/nvmevirt/internal/geometry"

// Table is a dense forward/reverse map pair sized for one partition.
type Table struct {
	fwd []uint64 // lpn -> flat ppa, or geometry.UnmappedPPA
	rev []uint64 // flat ppa -> lpn, or geometry.InvalidLPN
}

// New allocates a table for nLpn logical pages over nPpa physical
// pages, all entries unmapped.
func New(nLpn, nPpa int) *Table {
	t := &Table{
		fwd: make([]uint64, nLpn),
		rev: make([]uint64, nPpa),
	}
	for i := range t.fwd {
		t.fwd[i] = geometry.UnmappedPPA
	}
	for i := range t.rev {
		t.rev[i] = geometry.InvalidLPN
	}
	return t
}

// Lookup returns the flat PPA mapped to lpn, or geometry.UnmappedPPA.
func (t *Table) Lookup(lpn uint64) uint64 {
	return t.fwd[lpn]
}

// SetFwd records that lpn now maps to the flat PPA ppa. The caller is
// responsible for invalidating any prior mapping first.
func (t *Table) SetFwd(lpn, ppa uint64) {
	t.fwd[lpn] = ppa
}

// SetRev records that the flat PPA ppa now belongs to lpn.
func (t *Table) SetRev(ppa, lpn uint64) {
	t.rev[ppa] = lpn
}

// ClearRev marks the flat PPA ppa as having no owning logical page.
func (t *Table) ClearRev(ppa uint64) {
	t.rev[ppa] = geometry.InvalidLPN
}

// RevLookup returns the logical page owning the flat PPA ppa, or
// geometry.InvalidLPN.
func (t *Table) RevLookup(ppa uint64) uint64 {
	return t.rev[ppa]
}

// NumLpn returns the number of logical pages this table covers.
func (t *Table) NumLpn() int { return len(t.fwd) }
