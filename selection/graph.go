package selection

// add selects id and, transitively, its bundle members. It returns the newly selected ids.
// Callers check DisabledReason first.
func (e *Engine) add(id string) []string {
	added := e.bundleClosure(id)
	for _, current := range added {
		e.selected[current] = true
	}
	return added
}

// bundleClosure returns id and its transitive bundle members that are not yet selected, in
// breadth-first order. Required and foreign items are skipped.
func (e *Engine) bundleClosure(id string) []string {
	var out []string
	seen := make(map[string]bool)
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		item, ok := e.catalog.Item(current)
		if !ok || seen[current] || !item.AppliesTo(e.projectType) || item.Required || e.selected[current] {
			continue
		}
		seen[current] = true
		out = append(out, current)
		queue = append(queue, item.BundledWith...)
	}
	return out
}

// bundlers returns the ids of items in (required ∪ selected) whose bundledWith lists id
func (e *Engine) bundlers(id string) []string {
	var out []string
	for _, item := range e.catalog.ItemsFor(e.projectType) {
		if item.ID == id || !e.IsSelected(item.ID) {
			continue
		}
		for _, member := range item.BundledWith {
			if member == id {
				out = append(out, item.ID)
				break
			}
		}
	}
	return out
}

// requiredParents returns the required items that bundle id
func (e *Engine) requiredParents(id string) []string {
	var out []string
	for _, parent := range e.bundlers(id) {
		if item, _ := e.catalog.Item(parent); item.Required {
			out = append(out, parent)
		}
	}
	return out
}

// selectedAncestors walks the reverse bundle graph from id and returns every selected optional
// item that bundles id directly or through another ancestor
func (e *Engine) selectedAncestors(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, parent := range e.bundlers(current) {
			if seen[parent] || !e.selected[parent] {
				continue
			}
			seen[parent] = true
			out = append(out, parent)
			queue = append(queue, parent)
		}
	}
	return out
}

// remove drops the roots and sweeps until both invariants hold again:
//   - bundle members of a removed item go unless another selected or required item still bundles them
//   - items whose dependencies are no longer in (required ∪ selected) go
//   - items whose own bundle members are gone go
//
// It returns every removed id, roots first.
func (e *Engine) remove(roots []string) []string {
	var removed []string
	dropped := make(map[string]bool)
	drop := func(id string) {
		if !e.selected[id] {
			return
		}
		delete(e.selected, id)
		delete(e.quantities, id)
		dropped[id] = true
		removed = append(removed, id)
	}

	for _, id := range roots {
		drop(id)
	}

	for {
		changed := false
		for _, item := range e.catalog.ItemsFor(e.projectType) {
			if !e.selected[item.ID] {
				continue
			}
			if e.orphaned(item.ID, dropped) || !e.dependenciesMet(item.Dependencies) || !e.bundleComplete(item.BundledWith) {
				drop(item.ID)
				changed = true
			}
		}
		if !changed {
			return removed
		}
	}
}

// orphaned reports whether id was pulled in by a dropped item and nothing selected still bundles it
func (e *Engine) orphaned(id string, dropped map[string]bool) bool {
	pulled := false
	for parent := range dropped {
		item, _ := e.catalog.Item(parent)
		for _, member := range item.BundledWith {
			if member == id {
				pulled = true
				break
			}
		}
		if pulled {
			break
		}
	}
	return pulled && len(e.bundlers(id)) == 0
}

func (e *Engine) dependenciesMet(deps []string) bool {
	for _, dep := range deps {
		if !e.IsSelected(dep) {
			return false
		}
	}
	return true
}

func (e *Engine) bundleComplete(members []string) bool {
	for _, member := range members {
		if e.catalog.Applicable(member, e.projectType) && !e.IsSelected(member) {
			return false
		}
	}
	return true
}
