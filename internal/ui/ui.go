package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/peaceding/recordium/internal/catalog"
	"github.com/peaceding/recordium/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SpaceListView ViewState = iota
	BoxListView
	AlbumListView
)

// Model represents the TUI application state: a three-level browser over
// the user's Spaces, their Boxes, and each Box's albums.
type Model struct {
	ctx     context.Context
	view    ViewState
	catalog *catalog.Catalog
	userID  string

	width  int
	height int

	spaceList list.Model
	boxList   list.Model
	albumList list.Model

	selectedSpace *models.Space
	selectedBox   *models.Box

	err  error
	help help.Model
	keys keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	back  key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.quit},
	}
}

// spaceItem wraps [models.Space] to implement list.Item.
type spaceItem struct {
	space *models.Space
	boxes int
}

func (i spaceItem) FilterValue() string { return i.space.Name() }
func (i spaceItem) Title() string       { return i.space.Name() }
func (i spaceItem) Description() string {
	return fmt.Sprintf("%d boxes", i.boxes)
}

// boxItem wraps [models.Box] to implement list.Item.
type boxItem struct {
	box    *models.Box
	albums int
}

func (i boxItem) FilterValue() string { return i.box.Name() }
func (i boxItem) Title() string       { return i.box.Name() }
func (i boxItem) Description() string {
	return fmt.Sprintf("%d albums", i.albums)
}

// albumItem wraps [models.Album] to implement list.Item.
type albumItem struct {
	album *models.Album
}

func (i albumItem) FilterValue() string { return i.album.Name() }
func (i albumItem) Title() string       { return i.album.Name() }
func (i albumItem) Description() string {
	desc := i.album.PrimaryArtist()
	if i.album.ReleaseDate() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.album.ReleaseDate())
	}
	if i.album.TotalTracks() > 0 {
		desc = fmt.Sprintf("%s • %d tracks", desc, i.album.TotalTracks())
	}
	return desc
}

type spacesLoadedMsg struct {
	items []list.Item
	err   error
}

type boxesLoadedMsg struct {
	space *models.Space
	items []list.Item
	err   error
}

type albumsLoadedMsg struct {
	box   *models.Box
	items []list.Item
	err   error
}

// NewModel creates a new TUI model browsing the given user's catalog.
func NewModel(ctx context.Context, cat *catalog.Catalog, userID string) *Model {
	return &Model{
		ctx:     ctx,
		view:    SpaceListView,
		catalog: cat,
		userID:  userID,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by loading the user's spaces.
func (m *Model) Init() tea.Cmd {
	return m.loadSpaces()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.spaceList, &m.boxList, &m.albumList} {
			if l.Width() != 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SpaceListView:
			return m.handleSpaceListKeys(msg)
		case BoxListView:
			return m.handleBoxListKeys(msg)
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		}

	case spacesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.spaceList = list.New(msg.items, list.NewDefaultDelegate(), 0, 0)
		m.spaceList.Title = "Spaces"
		m.spaceList.SetSize(m.width-4, m.height-8)
		return m, nil

	case boxesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SpaceListView
			return m, nil
		}
		m.selectedSpace = msg.space
		m.boxList = list.New(msg.items, list.NewDefaultDelegate(), 0, 0)
		m.boxList.Title = fmt.Sprintf("Boxes in '%s'", msg.space.Name())
		m.boxList.SetSize(m.width-4, m.height-8)
		m.view = BoxListView
		return m, nil

	case albumsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = BoxListView
			return m, nil
		}
		m.selectedBox = msg.box
		m.albumList = list.New(msg.items, list.NewDefaultDelegate(), 0, 0)
		m.albumList.Title = fmt.Sprintf("Albums in '%s'", msg.box.Name())
		m.albumList.SetSize(m.width-4, m.height-8)
		m.view = AlbumListView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SpaceListView:
		return m.renderList(m.spaceList, []key.Binding{m.keys.enter, m.keys.quit})
	case BoxListView:
		return m.renderList(m.boxList, []key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	case AlbumListView:
		return m.renderList(m.albumList, []key.Binding{m.keys.back, m.keys.quit})
	default:
		return ""
	}
}

func (m *Model) renderList(l list.Model, helpKeys []key.Binding) string {
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", l.View(), helpView)
}

func (m *Model) handleSpaceListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected := m.spaceList.SelectedItem(); selected != nil {
			if item, ok := selected.(spaceItem); ok {
				return m, m.loadBoxes(item.space)
			}
		}
	}

	var cmd tea.Cmd
	m.spaceList, cmd = m.spaceList.Update(msg)
	return m, cmd
}

func (m *Model) handleBoxListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SpaceListView
		return m, nil
	case "enter":
		if selected := m.boxList.SelectedItem(); selected != nil {
			if item, ok := selected.(boxItem); ok {
				return m, m.loadAlbums(item.box)
			}
		}
	}

	var cmd tea.Cmd
	m.boxList, cmd = m.boxList.Update(msg)
	return m, cmd
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = BoxListView
		return m, nil
	}

	var cmd tea.Cmd
	m.albumList, cmd = m.albumList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SpaceListView:
		m.spaceList, cmd = m.spaceList.Update(msg)
	case BoxListView:
		m.boxList, cmd = m.boxList.Update(msg)
	case AlbumListView:
		m.albumList, cmd = m.albumList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadSpaces() tea.Cmd {
	return func() tea.Msg {
		spaces, err := m.catalog.ListSpaces(m.userID)
		if err != nil {
			return spacesLoadedMsg{err: err}
		}

		items := make([]list.Item, 0, len(spaces))
		for _, space := range spaces {
			boxes, err := m.catalog.ListBoxes(space.ID())
			if err != nil {
				return spacesLoadedMsg{err: err}
			}
			items = append(items, spaceItem{space: space, boxes: len(boxes)})
		}
		return spacesLoadedMsg{items: items}
	}
}

func (m *Model) loadBoxes(space *models.Space) tea.Cmd {
	return func() tea.Msg {
		boxes, err := m.catalog.ListBoxes(space.ID())
		if err != nil {
			return boxesLoadedMsg{err: err}
		}

		items := make([]list.Item, 0, len(boxes))
		for _, box := range boxes {
			albums, err := m.catalog.ListBoxAlbums(box.ID())
			if err != nil {
				return boxesLoadedMsg{err: err}
			}
			items = append(items, boxItem{box: box, albums: len(albums)})
		}
		return boxesLoadedMsg{space: space, items: items}
	}
}

func (m *Model) loadAlbums(box *models.Box) tea.Cmd {
	return func() tea.Msg {
		albums, err := m.catalog.ListBoxAlbums(box.ID())
		if err != nil {
			return albumsLoadedMsg{err: err}
		}

		items := make([]list.Item, 0, len(albums))
		for _, album := range albums {
			items = append(items, albumItem{album: album})
		}
		return albumsLoadedMsg{box: box, items: items}
	}
}
