package state

import "facetsearch/catalog"

// DefaultPageSize matches the page size the search UI starts with.
const DefaultPageSize = 20

// Pages tracks page size and page number per type. Page numbers are
// 1-based and always clamped to the available page range.
type Pages struct {
	size   map[catalog.TypeID]int
	number map[catalog.TypeID]int
}

// NewPages returns pagination state with every type on page 1 at the default
// page size.
func NewPages() Pages {
	p := Pages{
		size:   make(map[catalog.TypeID]int, 4),
		number: make(map[catalog.TypeID]int, 4),
	}
	for _, t := range catalog.AllTypes() {
		p.size[t] = DefaultPageSize
		p.number[t] = 1
	}
	return p
}

func (p Pages) clone() Pages {
	out := Pages{
		size:   make(map[catalog.TypeID]int, len(p.size)),
		number: make(map[catalog.TypeID]int, len(p.number)),
	}
	for k, v := range p.size {
		out.size[k] = v
	}
	for k, v := range p.number {
		out.number[k] = v
	}
	return out
}

// Size returns the page size for a type.
func (p Pages) Size(typeID catalog.TypeID) int { return p.size[typeID] }

// Number returns the current page number for a type.
func (p Pages) Number(typeID catalog.TypeID) int { return p.number[typeID] }

// Window returns the item window the current page covers.
func (p Pages) Window(typeID catalog.TypeID) (offset, size int) {
	return p.size[typeID] * (p.number[typeID] - 1), p.size[typeID]
}

// SetNumber moves a type to page n. Numbers below 1 clamp to 1.
func (p Pages) SetNumber(typeID catalog.TypeID, n int) Pages {
	if n < 1 {
		n = 1
	}
	out := p.clone()
	out.number[typeID] = n
	return out
}

// SetSize changes a type's page size and renumbers the page so the first
// item of the old page stays visible.
func (p Pages) SetSize(typeID catalog.TypeID, size int, totalHits int) Pages {
	if size < 1 {
		size = 1
	}
	out := p.clone()
	first := p.FirstItemIndex(typeID, totalHits)
	number := ceilDiv(first, size)
	if number < 1 {
		number = 1
	}
	out.size[typeID] = size
	out.number[typeID] = number
	return out
}

// ResetNumbers puts every type back on page 1.
func (p Pages) ResetNumbers() Pages {
	out := p.clone()
	for t := range out.number {
		out.number[t] = 1
	}
	return out
}

// Clamp pulls page numbers back into [1, totalPages] after a change of hit
// totals.
func (p Pages) Clamp(totals map[catalog.TypeID]int) Pages {
	out := p.clone()
	for t, total := range totals {
		max := ceilDiv(total, out.size[t])
		if max < 1 {
			max = 1
		}
		if out.number[t] > max {
			out.number[t] = max
		}
		if out.number[t] < 1 {
			out.number[t] = 1
		}
	}
	return out
}

// TotalPages returns the number of result pages for a type.
func (p Pages) TotalPages(typeID catalog.TypeID, totalHits int) int {
	return ceilDiv(totalHits, p.size[typeID])
}

// FirstItemIndex returns the 1-based index of the first item on the current
// page, or 0 when there are no hits at all.
func (p Pages) FirstItemIndex(typeID catalog.TypeID, totalHits int) int {
	if totalHits == 0 {
		return 0
	}
	return p.size[typeID]*(p.number[typeID]-1) + 1
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
