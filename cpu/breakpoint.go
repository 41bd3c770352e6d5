package cpu

// breakpointTable is a two-level sparse bitmap over the 32-bit word address
// space: a 16-bit page index selects a page of 65536 bits (1024 uint64
// words), and a 16-bit bit index selects the bit within it. A page is
// allocated lazily on first set and freed once its popcount returns to
// zero, so an address space with a handful of breakpoints costs a handful
// of pages, not four billion bits.
//
// Grounded on the teacher's emu.FDTable (emu/fdtable.go): the
// map[key]*entry, allocate-on-first-use idiom is the direct model,
// substituting a bit-array page for a *FileDescriptor entry. Unlike
// FDTable, this table carries no mutex — per spec §5 the host must not call
// AddBreakpoint/RemoveBreakpoint concurrently with Cycle, so the core does
// not pay for synchronization it is contractually never asked to provide.
type breakpointTable struct {
	pages map[uint16]*[1024]uint64
}

func newBreakpointTable() breakpointTable {
	return breakpointTable{pages: make(map[uint16]*[1024]uint64)}
}

func splitAddr(addr uint32) (page uint16, word uint16, bit uint8) {
	page = uint16(addr >> 16)
	low := uint16(addr)
	word = low >> 6
	bit = uint8(low & 0x3F)
	return
}

// Add sets the breakpoint bit for addr, allocating its page if necessary.
func (t *breakpointTable) Add(addr uint32) {
	page, word, bit := splitAddr(addr)
	p, ok := t.pages[page]
	if !ok {
		p = &[1024]uint64{}
		t.pages[page] = p
	}
	p[word] |= 1 << bit
}

// Remove clears the breakpoint bit for addr, freeing its page once every
// bit in it has been cleared.
func (t *breakpointTable) Remove(addr uint32) {
	page, word, bit := splitAddr(addr)
	p, ok := t.pages[page]
	if !ok {
		return
	}
	p[word] &^= 1 << bit

	for _, w := range p {
		if w != 0 {
			return
		}
	}
	delete(t.pages, page)
}

// Test reports whether addr has its breakpoint bit set.
func (t *breakpointTable) Test(addr uint32) bool {
	page, word, bit := splitAddr(addr)
	p, ok := t.pages[page]
	if !ok {
		return false
	}
	return p[word]&(1<<bit) != 0
}

// PageCount reports how many 64KB pages currently hold at least one
// breakpoint. Diagnostic-only: never read by Cycle or Add/Remove.
func (t *breakpointTable) PageCount() int {
	return len(t.pages)
}
