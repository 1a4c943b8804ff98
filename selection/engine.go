// Package selection maintains the set of chosen catalog items for one configurator session.
//
// The engine enforces two invariants on every mutation:
//   - bundle closure: every member listed in a selected item's bundledWith is selected too
//   - dependency gating: a selected item's dependencies are all in (required ∪ selected)
//
// Removal is a mark-and-sweep over the bundle graph: a bundle member survives as long as some
// remaining selected (or required) item still bundles it.
package selection

import (
	"quote-configurator/catalog"
	"quote-configurator/models"
)

// Outcome tells the caller what a toggle did
type Outcome string

const (
	Applied           Outcome = "applied"
	NeedsConfirmation Outcome = "needs_confirmation"
	Rejected          Outcome = "rejected"
	Ignored           Outcome = "ignored"
)

// Reason explains a rejection or a disabled item
type Reason string

const (
	ReasonItemDisabled      Reason = "item_disabled"
	ReasonCategoryDisabled  Reason = "category_disabled"
	ReasonDependencyUnmet   Reason = "dependency_unmet"
	ReasonRequired          Reason = "required"
	ReasonBundledByRequired Reason = "bundled_by_required"
	ReasonBundleMember      Reason = "bundle_member_unavailable"
)

// ConfirmKind names what the caller has to confirm
type ConfirmKind string

const (
	ConfirmAdd           ConfirmKind = "confirm_add"
	ConfirmRemove        ConfirmKind = "confirm_remove"
	ConfirmBundleParents ConfirmKind = "bundle_parents"
)

// ToggleResult is the typed result of Toggle
type ToggleResult struct {
	ItemID              string      `json:"itemId"`
	Outcome             Outcome     `json:"outcome"`
	Reason              Reason      `json:"reason,omitempty"`
	MissingDependencies []string    `json:"missingDependencies,omitempty"`
	UnavailableMembers  []string    `json:"unavailableMembers,omitempty"` // Bundle members that cannot be selected
	Confirm             ConfirmKind `json:"confirm,omitempty"`
	Notice              string      `json:"notice,omitempty"`
	Parents             []string    `json:"parents,omitempty"`
	Added               []string    `json:"added,omitempty"`
	Removed             []string    `json:"removed,omitempty"`
}

// ItemState is the presentation view of one item
type ItemState struct {
	models.CatalogItem
	Selected       bool   `json:"selected"`
	Disabled       bool   `json:"disabled"`
	DisabledReason Reason `json:"disabledReason,omitempty"`
	Quantity       int    `json:"quantity"`
}

// Engine holds the selection state of one session. It is not safe for concurrent use.
type Engine struct {
	catalog     *catalog.Catalog
	projectType string
	selected    map[string]bool // optional items only, required ones are implicit
	quantities  map[string]int
}

// New creates an engine seeded for the given project type
func New(c *catalog.Catalog, projectType string) (*Engine, error) {
	e := &Engine{catalog: c}
	if err := e.ChangeProjectType(projectType); err != nil {
		return nil, err
	}
	return e, nil
}

// ProjectType returns the active project type id
func (e *Engine) ProjectType() string {
	return e.projectType
}

// ChangeProjectType resets quantities and reseeds the optional selection with the default-selected
// items of the new type. Bundles of required and default items are closed over.
func (e *Engine) ChangeProjectType(projectType string) error {
	if err := e.catalog.CheckProjectType(projectType); err != nil {
		return err
	}

	e.projectType = projectType
	e.selected = make(map[string]bool)
	e.quantities = make(map[string]int)

	for _, item := range e.catalog.ItemsFor(projectType) {
		if item.DefaultSelected && !item.Required && !e.selected[item.ID] && !e.IsDisabled(item) {
			e.add(item.ID)
		}
	}
	for _, id := range e.catalog.RequiredFor(projectType) {
		item, _ := e.catalog.Item(id)
		for _, member := range item.BundledWith {
			if m, ok := e.catalog.Item(member); ok && !e.IsDisabled(m) {
				e.add(member)
			}
		}
	}
	return nil
}

// IsSelected reports whether the item is in (required ∪ selected)
func (e *Engine) IsSelected(id string) bool {
	if e.selected[id] {
		return true
	}
	item, ok := e.catalog.Item(id)
	return ok && item.Required && item.AppliesTo(e.projectType)
}

// DisabledReason returns why the item cannot be selected right now, or "" when it can.
// blocking lists the unmet dependency ids, or the bundle members that cannot come along.
// A bundle member's dependencies count as met when the same bundle brings them in.
func (e *Engine) DisabledReason(item models.CatalogItem) (reason Reason, blocking []string) {
	if r, missing := e.ownReason(item, nil); r != "" {
		return r, missing
	}

	pending := e.bundleClosure(item.ID)
	incoming := make(map[string]bool, len(pending))
	for _, id := range pending {
		incoming[id] = true
	}
	for _, id := range pending {
		if id == item.ID {
			continue
		}
		member, _ := e.catalog.Item(id)
		if r, _ := e.ownReason(member, incoming); r != "" {
			blocking = append(blocking, id)
		}
	}
	if len(blocking) > 0 {
		return ReasonBundleMember, blocking
	}
	return "", nil
}

// ownReason checks the item alone; ids in incoming count as selected
func (e *Engine) ownReason(item models.CatalogItem, incoming map[string]bool) (Reason, []string) {
	if item.Disabled {
		return ReasonItemDisabled, nil
	}
	if e.catalog.CategoryDisabled(item) {
		return ReasonCategoryDisabled, nil
	}
	var missing []string
	for _, dep := range item.Dependencies {
		if !e.IsSelected(dep) && !incoming[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return ReasonDependencyUnmet, missing
	}
	return "", nil
}

// IsDisabled reports whether the item is currently not selectable
func (e *Engine) IsDisabled(item models.CatalogItem) bool {
	reason, _ := e.DisabledReason(item)
	return reason != ""
}

// Toggle adds or removes an item. Items outside the active project type are ignored.
// When confirmed is false and the change needs the user's consent, nothing is mutated and the
// result carries Outcome NeedsConfirmation.
func (e *Engine) Toggle(id string, confirmed bool) ToggleResult {
	result := ToggleResult{ItemID: id}

	item, ok := e.catalog.Item(id)
	if !ok || !item.AppliesTo(e.projectType) {
		result.Outcome = Ignored
		return result
	}
	if item.Required {
		result.Outcome = Rejected
		result.Reason = ReasonRequired
		return result
	}

	if e.selected[id] {
		return e.toggleOff(item, confirmed, result)
	}
	return e.toggleOn(item, confirmed, result)
}

func (e *Engine) toggleOn(item models.CatalogItem, confirmed bool, result ToggleResult) ToggleResult {
	if reason, blocking := e.DisabledReason(item); reason != "" {
		result.Outcome = Rejected
		result.Reason = reason
		if reason == ReasonBundleMember {
			result.UnavailableMembers = blocking
		} else {
			result.MissingDependencies = blocking
		}
		return result
	}
	if item.ConfirmAdd != "" && !confirmed {
		result.Outcome = NeedsConfirmation
		result.Confirm = ConfirmAdd
		result.Notice = item.ConfirmAdd
		return result
	}

	result.Outcome = Applied
	result.Added = e.add(item.ID)
	return result
}

func (e *Engine) toggleOff(item models.CatalogItem, confirmed bool, result ToggleResult) ToggleResult {
	parents := e.selectedAncestors(item.ID)

	var required []string
	seen := make(map[string]bool)
	for _, id := range append([]string{item.ID}, parents...) {
		for _, parent := range e.requiredParents(id) {
			if !seen[parent] {
				seen[parent] = true
				required = append(required, parent)
			}
		}
	}
	if len(required) > 0 {
		result.Outcome = Rejected
		result.Reason = ReasonBundledByRequired
		result.Parents = required
		return result
	}

	if len(parents) > 0 && !confirmed {
		result.Outcome = NeedsConfirmation
		result.Confirm = ConfirmBundleParents
		result.Parents = parents
		return result
	}
	if len(parents) == 0 && item.ConfirmRemove != "" && !confirmed {
		result.Outcome = NeedsConfirmation
		result.Confirm = ConfirmRemove
		result.Notice = item.ConfirmRemove
		return result
	}

	result.Outcome = Applied
	result.Parents = parents
	result.Removed = e.remove(append([]string{item.ID}, parents...))
	return result
}

// SetQuantity clamps n into [1, maxQuantity] and stores it. Unselected items are left alone and 0
// is returned.
func (e *Engine) SetQuantity(id string, n int) int {
	if !e.IsSelected(id) {
		return 0
	}
	item, _ := e.catalog.Item(id)
	if n < 1 {
		n = 1
	}
	if max := item.MaxQty(); n > max {
		n = max
	}
	e.quantities[id] = n
	return n
}

// Quantity returns the chosen quantity of a selected item (1 by default)
func (e *Engine) Quantity(id string) int {
	if q, ok := e.quantities[id]; ok && q > 0 {
		return q
	}
	return 1
}

// Snapshot returns the selection in catalog order for the calculator
func (e *Engine) Snapshot() models.Selection {
	sel := models.Selection{
		ProjectType: e.projectType,
		Selected:    []string{},
		Quantities:  make(map[string]int),
	}
	for _, item := range e.catalog.ItemsFor(e.projectType) {
		if !e.IsSelected(item.ID) {
			continue
		}
		if !item.Required {
			sel.Selected = append(sel.Selected, item.ID)
		}
		if q, ok := e.quantities[item.ID]; ok {
			sel.Quantities[item.ID] = q
		}
	}
	return sel
}

// Items returns the presentation state of every item offered for the active project type
func (e *Engine) Items() []ItemState {
	items := e.catalog.ItemsFor(e.projectType)
	out := make([]ItemState, 0, len(items))
	for _, item := range items {
		state := ItemState{CatalogItem: item, Selected: e.IsSelected(item.ID)}
		if state.Selected {
			state.Quantity = e.Quantity(item.ID)
		}
		if !state.Selected {
			reason, _ := e.DisabledReason(item)
			state.Disabled = reason != ""
			state.DisabledReason = reason
		}
		out = append(out, state)
	}
	return out
}
