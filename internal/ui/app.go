package ui

import (
	"LocalCanvas/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
)

// NewWindow builds the main window around s without showing it.
func NewWindow(a fyne.App, s *surface.Controller) (fyne.Window, *BoardWidget) {
	myWindow := a.NewWindow("LocalCanvas")
	myWindow.Resize(fyne.NewSize(1024, 768))

	// Create the interactive board widget
	board := NewBoardWidget(s)

	// Create the toolbar and pass it a reference to the board
	toolbar := NewToolbar(board, myWindow)

	addShortcuts(myWindow, board)

	// Set up the main layout
	content := container.NewBorder(toolbar.Content(), board.StatusBar(), nil, nil, board)
	myWindow.SetContent(content)
	return myWindow, board
}

func addShortcuts(win fyne.Window, board *BoardWidget) {
	c := win.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		board.Undo()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		board.Redo()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		board.Redo()
	})
}

func RunApp(s *surface.Controller) {
	myApp := app.New()
	myWindow, _ := NewWindow(myApp, s)
	myWindow.ShowAndRun()
}
