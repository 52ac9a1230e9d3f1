package builder

// production is the ordered marker log: record ids in insertion order.
type production []int

func (p *production) add(id int) {
	*p = append(*p, id)
}

func (p *production) insert(at, id int) {
	s := append(*p, none)
	copy(s[at+1:], s[at:])
	s[at] = id
	*p = s
}

func (p *production) removeAt(i int) int {
	s := *p
	id := s[i]
	copy(s[i:], s[i+1:])
	*p = s[:len(s)-1]
	return id
}

func (p production) lastIndexOf(id int) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == id {
			return i
		}
	}
	return -1
}

// truncate drops every entry from index from to the end.
func (p *production) truncate(from int) {
	*p = (*p)[:from]
}

func (p production) last() int {
	if len(p) == 0 {
		return none
	}
	return p[len(p)-1]
}
