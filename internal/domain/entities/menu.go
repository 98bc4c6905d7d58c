package entities

// MenuItem is a leaf of the navigation tree: a button title and the text
// sent when it is pressed.
type MenuItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// MenuSection is a top-level menu entry with its sub-items.
type MenuSection struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// Menu is the static navigation tree shown outside the quiz.
type Menu struct {
	Sections []MenuSection
}

// SectionTitles returns the top-level button titles in order.
func (m *Menu) SectionTitles() []string {
	titles := make([]string, 0, len(m.Sections))
	for _, s := range m.Sections {
		titles = append(titles, s.Title)
	}
	return titles
}

// Section returns the section with the given title.
func (m *Menu) Section(title string) (*MenuSection, bool) {
	for i := range m.Sections {
		if m.Sections[i].Title == title {
			return &m.Sections[i], true
		}
	}
	return nil, false
}

// Content returns the text of the item with the given title, wherever it
// lives in the tree.
func (m *Menu) Content(title string) (string, bool) {
	for _, s := range m.Sections {
		for _, item := range s.Items {
			if item.Title == title {
				return item.Content, true
			}
		}
	}
	return "", false
}
