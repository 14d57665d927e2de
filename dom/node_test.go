package dom

import "testing"

func TestArenaNewElement(t *testing.T) {
	a := NewArena()
	id := a.NewElement("div")
	n := a.Node(id)
	if n.Kind != ElementNode {
		t.Errorf("Expected ElementNode, got %v", n.Kind)
	}
	if n.LocalName != "div" {
		t.Errorf("Expected tag name 'div', got %v", n.LocalName)
	}
}

func TestArenaNewText(t *testing.T) {
	a := NewArena()
	id := a.NewText("Hello, World!")
	n := a.Node(id)
	if n.Kind != TextNode {
		t.Errorf("Expected TextNode, got %v", n.Kind)
	}
	if n.Data != "Hello, World!" {
		t.Errorf("Expected text 'Hello, World!', got %v", n.Data)
	}
}

func TestArenaAppendChild(t *testing.T) {
	a := NewArena()
	parent := a.NewElement("div")
	child := a.NewElement("p")

	a.AppendChild(parent, child)

	kids := a.Children(parent)
	if len(kids) != 1 {
		t.Errorf("Expected 1 child, got %d", len(kids))
	}
	if kids[0] != child {
		t.Error("Child not properly appended")
	}
	if a.Node(child).Parent != parent {
		t.Error("Child's parent not set correctly")
	}
}

func TestArenaCoherence(t *testing.T) {
	a := NewArena()
	html := a.NewElement("html")
	body := a.NewElement("body")
	p1 := a.NewElement("p")
	p2 := a.NewElement("p")
	a.AppendChild(DocumentID, html)
	a.AppendChild(html, body)
	a.AppendChild(body, p1)
	a.AppendChild(body, p2)

	if !a.Coherent() {
		t.Fatal("expected arena to be structurally coherent")
	}
	if a.Node(p1).NextSibling != p2 {
		t.Error("expected p1's next sibling to be p2")
	}
	if a.Node(p2).PrevSibling != p1 {
		t.Error("expected p2's prev sibling to be p1")
	}
}

func TestAttributes(t *testing.T) {
	a := NewArena()
	id := a.NewElement("div")
	n := a.Node(id)
	n.Attrs.Set("id", "main")
	n.Attrs.Set("class", "container")

	if v, _ := n.Attrs.Get("id"); v != "main" {
		t.Errorf("Expected id 'main', got %v", v)
	}
	if v, _ := n.Attrs.Get("class"); v != "container" {
		t.Errorf("Expected class 'container', got %v", v)
	}
	if v, ok := n.Attrs.Get("nonexistent"); ok || v != "" {
		t.Error("Expected empty string for nonexistent attribute")
	}
}

func TestID(t *testing.T) {
	a := NewArena()
	id := a.NewElement("div")
	n := a.Node(id)
	n.Attrs.Set("id", "header")

	if n.ID() != "header" {
		t.Errorf("Expected ID 'header', got %v", n.ID())
	}
}

func TestClasses(t *testing.T) {
	tests := []struct {
		name     string
		class    string
		expected []string
	}{
		{
			name:     "single class",
			class:    "container",
			expected: []string{"container"},
		},
		{
			name:     "multiple classes",
			class:    "container main active",
			expected: []string{"container", "main", "active"},
		},
		{
			name:     "empty class",
			class:    "",
			expected: nil,
		},
		{
			name:     "class with extra spaces",
			class:    "  container  main  ",
			expected: []string{"container", "main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena()
			id := a.NewElement("div")
			n := a.Node(id)
			if tt.class != "" {
				n.Attrs.Set("class", tt.class)
			}

			classes := n.Classes()
			if len(classes) != len(tt.expected) {
				t.Errorf("Expected %d classes, got %d", len(tt.expected), len(classes))
				return
			}

			for i, class := range classes {
				if class != tt.expected[i] {
					t.Errorf("Expected class[%d] = %v, got %v", i, tt.expected[i], class)
				}
			}
		})
	}
}
