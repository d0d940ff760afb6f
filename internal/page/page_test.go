package page

import "testing"

func TestResolve(t *testing.T) {
	p := Default()
	cases := []struct {
		selector string
		want     string
		ok       bool
	}{
		{"#game", "game", true},
		{" #quiz ", "quiz", true},
		{"game", "", false},
		{"#", "", false},
		{"#missing", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		s, ok := p.Resolve(tc.selector)
		if ok != tc.ok || s.ID != tc.want {
			t.Fatalf("Resolve(%q) = %q, %v; want %q, %v", tc.selector, s.ID, ok, tc.want, tc.ok)
		}
	}
}

func TestScrollLinksDropsMissingTargets(t *testing.T) {
	p := Page{
		Sections: []Section{{ID: "a"}},
		Links:    []Link{{Label: "A", Target: "#a"}, {Label: "B", Target: "#b"}},
	}
	links := p.ScrollLinks()
	if len(links) != 1 || links[0].Target != "#a" {
		t.Fatalf("links = %+v", links)
	}
}
