// Package page describes the sections of the single page and resolves
// smooth-scroll link targets.
package page

import "strings"

// Section is one scroll target on the page.
type Section struct {
	ID    string
	Title string
}

// Link is a scroll trigger pointing at a section by selector.
type Link struct {
	Label  string
	Target string // "#id" selector
}

// Page lists the sections in document order.
type Page struct {
	Sections []Section
	Links    []Link
}

// Default is the page the server renders.
func Default() Page {
	return Page{
		Sections: []Section{
			{ID: "hero", Title: "Hi Rubisha"},
			{ID: "game", Title: "Find the Hearts"},
			{ID: "valentine", Title: "A Question"},
			{ID: "quiz", Title: "How Well Do You Know Us?"},
		},
		Links: []Link{
			{Label: "Play", Target: "#game"},
			{Label: "Ask", Target: "#valentine"},
			{Label: "Quiz", Target: "#quiz"},
		},
	}
}

// Resolve finds the section an "#id" selector points at.
func (p Page) Resolve(selector string) (Section, bool) {
	id, ok := strings.CutPrefix(strings.TrimSpace(selector), "#")
	if !ok || id == "" {
		return Section{}, false
	}
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// ScrollLinks returns the links whose targets exist. Links to missing
// sections are dropped rather than rendered inert.
func (p Page) ScrollLinks() []Link {
	out := make([]Link, 0, len(p.Links))
	for _, l := range p.Links {
		if _, ok := p.Resolve(l.Target); ok {
			out = append(out, l)
		}
	}
	return out
}
