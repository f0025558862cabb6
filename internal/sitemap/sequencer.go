package sitemap

// Sequence sets Previous and Next on every page of flat. Pages sharing a path
// use the first occurrence for Previous and the last one for Next. Hidden
// neighbours are not linked, and the search never skips past them.
func Sequence(flat []*Page) {
	first := make(map[string]int, len(flat))
	last := make(map[string]int, len(flat))
	for i, p := range flat {
		if _, ok := first[p.Path]; !ok {
			first[p.Path] = i
		}
		last[p.Path] = i
	}

	for _, p := range flat {
		p.Previous = nil
		p.Next = nil

		if i := first[p.Path] - 1; i >= 0 && !flat[i].Hidden {
			p.Previous = flat[i].Ref()
		}
		if i := last[p.Path] + 1; i < len(flat) && !flat[i].Hidden {
			p.Next = flat[i].Ref()
		}
	}
}
