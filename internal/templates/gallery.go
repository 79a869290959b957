package templates

import "fmt"

// MaxCompare bounds the comparison set.
const MaxCompare = 3

// Gallery tracks template selection and comparison state. In normal mode a
// click selects a single template; in compare mode clicks toggle membership
// in a bounded comparison set.
type Gallery struct {
	compareMode bool
	compareIDs  []string
	selectedID  string
}

// NewGallery starts in normal mode with nothing selected.
func NewGallery() *Gallery {
	return &Gallery{}
}

// CompareMode reports whether comparison mode is active.
func (g *Gallery) CompareMode() bool { return g.compareMode }

// SelectedID returns the single selection, empty if none.
func (g *Gallery) SelectedID() string { return g.selectedID }

// CompareIDs returns the comparison set in toggle order.
func (g *Gallery) CompareIDs() []string {
	out := make([]string, len(g.compareIDs))
	copy(out, g.compareIDs)
	return out
}

// SetCompareMode switches modes. Leaving compare mode clears the comparison
// set.
func (g *Gallery) SetCompareMode(on bool) {
	if g.compareMode && !on {
		g.compareIDs = nil
	}
	g.compareMode = on
}

// Click handles a card click: select in normal mode, toggle membership in
// compare mode. Unknown template IDs are rejected.
func (g *Gallery) Click(templateID string) error {
	if _, ok := GetTemplate(templateID); !ok {
		return &TemplateError{Message: fmt.Sprintf("unknown template: %s", templateID)}
	}
	if g.compareMode {
		g.toggleCompare(templateID)
		return nil
	}
	g.selectedID = templateID
	return nil
}

// toggleCompare adds or removes a template from the comparison set. Adding a
// fourth member while three are selected is a no-op.
func (g *Gallery) toggleCompare(templateID string) {
	for i, id := range g.compareIDs {
		if id == templateID {
			g.compareIDs = append(g.compareIDs[:i], g.compareIDs[i+1:]...)
			return
		}
	}
	if len(g.compareIDs) >= MaxCompare {
		return
	}
	g.compareIDs = append(g.compareIDs, templateID)
}

// Preview describes what the preview modal should show.
type Preview struct {
	Compare   bool
	Templates []TemplateDefinition
}

// Preview resolves the current state into a previewable set: the single
// selection in normal mode, or the comparison set (at least two members) in
// compare mode.
func (g *Gallery) Preview() (*Preview, error) {
	if g.compareMode {
		if len(g.compareIDs) < 2 {
			return nil, &TemplateError{Message: "comparison preview requires at least two templates"}
		}
		defs := make([]TemplateDefinition, 0, len(g.compareIDs))
		for _, id := range g.compareIDs {
			def, ok := GetTemplate(id)
			if !ok {
				return nil, &TemplateError{Message: fmt.Sprintf("unknown template: %s", id)}
			}
			defs = append(defs, def)
		}
		return &Preview{Compare: true, Templates: defs}, nil
	}

	if g.selectedID == "" {
		return nil, &TemplateError{Message: "no template selected"}
	}
	def, ok := GetTemplate(g.selectedID)
	if !ok {
		return nil, &TemplateError{Message: fmt.Sprintf("unknown template: %s", g.selectedID)}
	}
	return &Preview{Templates: []TemplateDefinition{def}}, nil
}
