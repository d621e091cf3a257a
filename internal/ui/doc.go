// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-level browser over the user's catalog:
//  1. [SpaceListView] : Browse the user's spaces
//  2. [BoxListView] : Browse boxes inside the selected space
//  3. [AlbumListView] : Browse albums filed in the selected box
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Catalog reads run inside tea.Cmd functions so the event loop never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
