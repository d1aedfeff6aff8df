package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"flathaven/catalog"
)

// AppList renders the searchable application list. It keeps its own copy of
// the rendered records so row count and row content always agree.
type AppList struct {
	container *fyne.Container
	list      *widget.List
	apps      []catalog.App
}

func NewAppList(onSelected func(index int)) *AppList {
	appList := &AppList{}

	appList.list = widget.NewList(
		func() int { return len(appList.apps) },
		func() fyne.CanvasObject {
			return container.NewVBox(
				widget.NewLabel("name"),
				widget.NewLabel("summary"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(appList.apps) {
				return
			}
			app := appList.apps[id]
			rows := obj.(*fyne.Container).Objects
			rows[0].(*widget.Label).SetText(app.DisplayName())
			rows[0].(*widget.Label).TextStyle = fyne.TextStyle{Bold: true}

			summary := rows[1].(*widget.Label)
			summary.SetText(app.Summary)
			summary.Truncation = fyne.TextTruncateEllipsis
		},
	)

	appList.list.OnSelected = func(id widget.ListItemID) {
		if onSelected != nil {
			onSelected(id)
		}
	}

	appList.container = container.NewStack(appList.list)
	return appList
}

func (al *AppList) GetContainer() *fyne.Container {
	return al.container
}

func (al *AppList) SetApps(apps []catalog.App) {
	al.apps = apps
	al.list.UnselectAll()
	al.list.Refresh()
}

func (al *AppList) ClearSelection() {
	al.list.UnselectAll()
}
