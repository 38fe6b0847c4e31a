package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the browser's key bindings.
type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Sort     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Bigger   key.Binding
	Smaller  key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "column")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		Sort:     key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("s", "sort")),
		NextPage: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n/p", "page")),
		PrevPage: key.NewBinding(key.WithKeys("p", "pgup")),
		Bigger:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "page size")),
		Smaller:  key.NewBinding(key.WithKeys("-")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// help lists the bindings shown in the footer.
func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Left, k.Sort, k.NextPage, k.Bigger, k.Reload, k.Quit}
}
