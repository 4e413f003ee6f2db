package gui

// Routing tables are small ordered slices; linear scans beat maps here and
// keep dispatch order deterministic.

func indexOf(refs []ElementRef, e Element) int {
	for i, r := range refs {
		if r.Element == e {
			return i
		}
	}
	return -1
}

func containsRef(refs []ElementRef, e Element) bool { return indexOf(refs, e) >= 0 }

func cloneRefs(refs []ElementRef) []ElementRef {
	if len(refs) == 0 {
		return nil
	}
	return append([]ElementRef(nil), refs...)
}

// subtractRefs returns the refs of a whose element is not in b, in a's order.
func subtractRefs(a, b []ElementRef) []ElementRef {
	var out []ElementRef
	for _, r := range a {
		if !containsRef(b, r.Element) {
			out = append(out, r)
		}
	}
	return out
}

func intersectRefs(a, b []ElementRef) []ElementRef {
	var out []ElementRef
	for _, r := range a {
		if containsRef(b, r.Element) {
			out = append(out, r)
		}
	}
	return out
}

func removeElementRefs(refs []ElementRef, e Element) []ElementRef {
	out := refs[:0]
	for _, r := range refs {
		if r.Element != e {
			out = append(out, r)
		}
	}
	return out
}

func removeWidgetRefs(refs []ElementRef, w *Widget) []ElementRef {
	out := refs[:0]
	for _, r := range refs {
		if r.Widget != w {
			out = append(out, r)
		}
	}
	return out
}
