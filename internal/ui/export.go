package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

func showExportPNG(win fyne.Window, board *BoardWidget) {
	showSaveDialog(win, ".png", func(w fyne.URIWriteCloser) {
		board.SaveToFile(w, "PNG", board.ExportPNG)
	})
}

func showExportPDF(win fyne.Window, board *BoardWidget) {
	showSaveDialog(win, ".pdf", func(w fyne.URIWriteCloser) {
		board.SaveToFile(w, "PDF", board.ExportPDF)
	})
}

func showSaveDialog(win fyne.Window, ext string, save func(fyne.URIWriteCloser)) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			log.Printf("[UI] Save dialog: %v", err)
			dialog.ShowError(err, win)
			return
		}
		if w == nil {
			return // cancelled
		}
		save(w)
	}, win)
	d.SetFileName("canvas" + ext)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	d.Show()
}
