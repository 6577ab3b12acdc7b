package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"DrawOnScreen/internal/config"
	"DrawOnScreen/internal/controller"
	"DrawOnScreen/internal/export"
	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/session"
	"DrawOnScreen/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appID = "io.github.drawonscreen"

// Actions are the toolbar buttons that need a window.
type Actions struct {
	Save   func()
	Open   func()
	Export func()
}

type window struct {
	win     fyne.Window
	board   *Board
	ctrl    *controller.Controller
	session *session.Session
	files   *storage.Files
	status  *widget.Label
	toolbar *Toolbar
}

// Run opens the drawing window and blocks until it is closed.
func Run(conf config.Snapshot, files *storage.Files) {
	a := app.NewWithID(appID)
	w := &window{
		win:    a.NewWindow("Draw On Screen"),
		board:  NewBoard(),
		files:  files,
		status: widget.NewLabel(""),
	}
	w.win.Resize(fyne.NewSize(1024, 768))

	w.ctrl = controller.New(controller.Options{
		Renderer: w.board,
		Notifier: w.board,
		Clock:    controller.SystemClock{Post: fyne.Do},
		Config:   conf,
	})
	w.board.Attach(w.ctrl)
	w.board.OnNotice = w.notice
	w.board.OnMenu = w.showMenu
	w.board.OnLeave = w.leave
	w.session = session.New(files, w.ctrl, conf.Persistent)

	w.toolbar = NewToolbar(w.board, Actions{Save: w.save, Open: w.open, Export: w.export})
	content := container.NewBorder(w.toolbar.Object(), w.status, nil, nil, w.board)
	w.win.SetContent(content)
	w.addShortcuts()
	w.win.SetCloseIntercept(w.leave)

	if err := w.session.Restore(); err != nil {
		logging.Logger().Warn("persistent drawing restored with errors", "err", err)
		w.status.SetText("Some elements could not be restored")
	}
	w.win.Canvas().Focus(w.board)
	w.win.ShowAndRun()
}

func (w *window) notice(n controller.Notice) {
	text := n.Text
	if n.Level >= 0 {
		text = fmt.Sprintf("%s (%g)", n.Text, n.Level)
	}
	w.status.SetText(text)
	if w.toolbar != nil {
		w.toolbar.Sync()
	}
}

func (w *window) leave() {
	if err := w.session.Leave(); err != nil {
		logging.Logger().Error("persistent drawing not saved", "err", err)
	}
	w.win.Close()
}

func (w *window) save() {
	d, err := w.session.Save()
	if err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	w.status.SetText("Saved " + d.Name)
}

func (w *window) saveAs() {
	entry := widget.NewEntry()
	if cur := w.session.Current(); cur != nil {
		entry.SetText(cur.Name)
	}
	items := []*widget.FormItem{widget.NewFormItem("Name", entry)}
	dialog.ShowForm("Save drawing", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		d, err := w.session.SaveAs(entry.Text)
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		w.status.SetText("Saved " + d.Name)
	}, w.win)
}

func (w *window) open() {
	list, err := w.files.List()
	if err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	if len(list) == 0 {
		w.status.SetText("No saved drawing")
		return
	}
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.Name
	}
	sel := widget.NewSelect(names, nil)
	sel.SetSelectedIndex(0)
	dialog.ShowCustomConfirm("Open drawing", "Open", "Cancel", sel, func(ok bool) {
		i := sel.SelectedIndex()
		if !ok || i < 0 {
			return
		}
		w.opened(list[i], w.session.Open(list[i]))
	}, w.win)
}

func (w *window) browse(previous bool) {
	var (
		d   storage.Drawing
		err error
	)
	if previous {
		d, err = w.session.OpenPrevious()
	} else {
		d, err = w.session.OpenNext()
	}
	if errors.Is(err, session.ErrNoDrawing) {
		w.status.SetText("No other drawing")
		return
	}
	w.opened(d, err)
}

func (w *window) opened(d storage.Drawing, err error) {
	if err != nil {
		logging.Logger().Warn("drawing opened with errors", "name", d.Name, "err", err)
		dialog.ShowError(err, w.win)
	}
	if cur := w.session.Current(); cur != nil && cur.Path == d.Path {
		w.status.SetText("Opened " + d.Name)
	}
}

func (w *window) export() {
	dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		f, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
		if err != nil {
			f = export.FormatSVG
			path += f.Ext()
		}
		if err := w.session.Export(path, f); err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		w.status.SetText("Exported " + filepath.Base(path))
	}, w.win)
}

func (w *window) menu() *fyne.Menu {
	ctrl := w.ctrl
	tools := make([]*fyne.MenuItem, len(controller.Tools))
	for i, t := range controller.Tools {
		item := fyne.NewMenuItem(t.String(), func() {
			ctrl.SelectTool(t)
			w.toolbar.Sync()
		})
		item.Checked = ctrl.Tool() == t
		tools[i] = item
	}
	toolItem := fyne.NewMenuItem("Tool", nil)
	toolItem.ChildMenu = fyne.NewMenu("", tools...)

	return fyne.NewMenu("",
		fyne.NewMenuItem("Undo", func() { ctrl.Undo() }),
		fyne.NewMenuItem("Redo", func() { ctrl.Redo() }),
		fyne.NewMenuItem("Erase last", ctrl.EraseLast),
		fyne.NewMenuItem("Erase all", ctrl.EraseAll),
		fyne.NewMenuItem("Smooth last", func() { ctrl.SmoothLast() }),
		fyne.NewMenuItemSeparator(),
		toolItem,
		fyne.NewMenuItem("Fill", ctrl.SwitchFill),
		fyne.NewMenuItem("Dashed line", ctrl.SwitchDash),
		fyne.NewMenuItem("Background", ctrl.ToggleBackground),
		fyne.NewMenuItem("Grid", ctrl.ToggleGrid),
		fyne.NewMenuItem("Square area", ctrl.ToggleSquareArea),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", w.save),
		fyne.NewMenuItem("Save as…", w.saveAs),
		fyne.NewMenuItem("Open…", w.open),
		fyne.NewMenuItem("Open previous", func() { w.browse(true) }),
		fyne.NewMenuItem("Open next", func() { w.browse(false) }),
		fyne.NewMenuItem("Export…", w.export),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Leave", w.leave),
	)
}

func (w *window) showMenu(at fyne.Position) {
	widget.ShowPopUpMenuAtPosition(w.menu(), w.win.Canvas(), at)
}

type shortcut struct {
	key   fyne.KeyName
	shift bool
	fn    func()
}

func (w *window) shortcuts() []shortcut {
	ctrl := w.ctrl
	list := []shortcut{
		{fyne.KeyZ, false, func() { ctrl.Undo() }},
		{fyne.KeyZ, true, func() { ctrl.Redo() }},
		{fyne.KeyY, false, func() { ctrl.Redo() }},
		{fyne.KeyBackspace, false, ctrl.EraseLast},
		{fyne.KeyDelete, false, ctrl.EraseAll},
		{fyne.KeyL, false, func() { ctrl.SmoothLast() }},
		{fyne.KeyF, false, ctrl.SwitchFill},
		{fyne.KeyF, true, ctrl.SwitchFillRule},
		{fyne.KeyD, false, ctrl.SwitchDash},
		{fyne.KeyJ, false, ctrl.SwitchLineJoin},
		{fyne.KeyK, false, ctrl.SwitchLineCap},
		{fyne.KeyP, false, func() { ctrl.SwitchPalette(false) }},
		{fyne.KeyP, true, func() { ctrl.SwitchPalette(true) }},
		{fyne.KeyT, false, func() { ctrl.SwitchFontFamily(false) }},
		{fyne.KeyT, true, func() { ctrl.SwitchFontFamily(true) }},
		{fyne.KeyW, false, ctrl.SwitchFontWeight},
		{fyne.KeyI, false, ctrl.SwitchFontStyle},
		{fyne.KeyA, false, ctrl.SwitchTextAlignment},
		{fyne.KeyM, false, func() { ctrl.SwitchImageFile(false) }},
		{fyne.KeyM, true, func() { ctrl.SwitchImageFile(true) }},
		{fyne.KeyB, false, ctrl.ToggleBackground},
		{fyne.KeyG, false, ctrl.ToggleGrid},
		{fyne.KeyQ, false, ctrl.ToggleSquareArea},
		{fyne.KeyS, false, w.save},
		{fyne.KeyS, true, w.saveAs},
		{fyne.KeyO, false, w.open},
		{fyne.KeyPageUp, false, func() { w.browse(true) }},
		{fyne.KeyPageDown, false, func() { w.browse(false) }},
		{fyne.KeyE, false, w.export},
	}
	digits := []fyne.KeyName{fyne.Key1, fyne.Key2, fyne.Key3, fyne.Key4, fyne.Key5, fyne.Key6, fyne.Key7, fyne.Key8, fyne.Key9}
	for i, k := range digits {
		list = append(list, shortcut{k, false, func() { ctrl.SelectColor(i) }})
	}
	tools := []fyne.KeyName{fyne.KeyF1, fyne.KeyF2, fyne.KeyF3, fyne.KeyF4, fyne.KeyF5, fyne.KeyF6, fyne.KeyF7, fyne.KeyF8, fyne.KeyF9, fyne.KeyF10, fyne.KeyF11}
	for i, k := range tools {
		t := controller.Tools[i]
		list = append(list, shortcut{k, false, func() { ctrl.SelectTool(t) }})
	}
	return list
}

func (w *window) addShortcuts() {
	for _, s := range w.shortcuts() {
		mod := fyne.KeyModifierShortcutDefault
		if s.shift {
			mod |= fyne.KeyModifierShift
		}
		fn := s.fn
		w.win.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: s.key, Modifier: mod}, func(fyne.Shortcut) {
			fn()
			w.toolbar.Sync()
		})
	}
}
