package nand

// BackingStore is an in-memory stand-in for the physical NAND array,
// addressed by flat physical page index. The core FTL logic never
// looks at its contents, only at the PPA it hands out, and no code in
// this module writes to or reads from a BackingStore.
// Grounded on the teacher's file-backed disk simulator
// (biscuit/src/ufs/driver.go), simplified to an in-memory map.
type BackingStore struct {
	pageSize int
	pages    map[uint64][]byte
}

// NewBackingStore allocates an empty store for the given page size.
func NewBackingStore(pageSize int) *BackingStore {
	return &BackingStore{pageSize: pageSize, pages: make(map[uint64][]byte)}
}

// WritePage stores a copy of data (truncated/padded to the page size)
// at the given flat physical page index.
func (b *BackingStore) WritePage(flat uint64, data []byte) {
	buf := make([]byte, b.pageSize)
	copy(buf, data)
	b.pages[flat] = buf
}

// ReadPage returns the bytes last written at flat, or a zeroed page
// if nothing has been written there yet.
func (b *BackingStore) ReadPage(flat uint64) []byte {
	if p, ok := b.pages[flat]; ok {
		out := make([]byte, len(p))
		copy(out, p)
		return out
	}
	return make([]byte, b.pageSize)
}
