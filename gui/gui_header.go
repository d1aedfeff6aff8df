package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Header holds the application title and the search entry.
type Header struct {
	container   *fyne.Container
	searchEntry *widget.Entry
}

func NewHeader(onChanged, onSubmitted func(string)) *Header {
	title := widget.NewRichTextFromMarkdown("# Flathaven")

	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search Flathub")
	searchEntry.OnChanged = onChanged
	searchEntry.OnSubmitted = onSubmitted

	header := container.NewBorder(
		nil, nil,
		title,
		nil,
		searchEntry,
	)

	return &Header{
		container:   container.NewPadded(header),
		searchEntry: searchEntry,
	}
}

func (h *Header) GetContainer() *fyne.Container {
	return h.container
}

func (h *Header) SearchText() string {
	return h.searchEntry.Text
}
