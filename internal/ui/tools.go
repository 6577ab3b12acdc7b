package ui

import (
	"image/color"

	"DrawOnScreen/internal/controller"
	"DrawOnScreen/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type colorSwatch struct {
	widget.BaseWidget
	Color    *state.Color
	OnTapped func()
}

func newColorSwatch(c *state.Color, tapped func()) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color.RGBA)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// Toolbar mirrors the controller settings that have a direct control.
type Toolbar struct {
	board    *Board
	tools    *widget.Select
	palette  *widget.Label
	colorBox *fyne.Container
	width    *widget.Slider
	eraser   *widget.Check

	syncing bool
	object  fyne.CanvasObject
}

func NewToolbar(board *Board, actions Actions) *Toolbar {
	t := &Toolbar{board: board}
	ctrl := board.Controller()

	names := make([]string, len(controller.Tools))
	for i, tool := range controller.Tools {
		names[i] = tool.String()
	}
	t.tools = widget.NewSelect(names, func(name string) {
		for _, tool := range controller.Tools {
			if tool.String() == name {
				ctrl.SelectTool(tool)
			}
		}
	})
	t.tools.SetSelected(ctrl.Tool().String())

	t.eraser = widget.NewCheck("Eraser", func(on bool) {
		board.SetEraser(on)
	})

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { ctrl.Undo() }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { ctrl.Redo() }),
		widget.NewToolbarAction(theme.ContentClearIcon(), ctrl.EraseLast),
		widget.NewToolbarAction(theme.DeleteIcon(), ctrl.EraseAll),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() {
			ctrl.SwitchPalette(false)
			t.Sync()
		}),
		widget.NewToolbarAction(theme.ViewFullScreenIcon(), ctrl.ToggleSquareArea),
		widget.NewToolbarAction(theme.GridIcon(), ctrl.ToggleGrid),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), actions.Save),
		widget.NewToolbarAction(theme.FolderOpenIcon(), actions.Open),
		widget.NewToolbarAction(theme.UploadIcon(), actions.Export),
	)

	t.palette = widget.NewLabel("")
	t.colorBox = container.NewHBox()

	t.width = widget.NewSlider(1, 50)
	t.width.Step = 1
	t.width.OnChanged = func(val float64) {
		if t.syncing {
			return
		}
		ctrl.IncrementLineWidth(val - ctrl.LineWidth())
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.width)

	t.object = container.NewHBox(
		widget.NewLabel("Tool:"),
		t.tools,
		t.eraser,
		widget.NewSeparator(),
		tb,
		widget.NewSeparator(),
		t.palette,
		t.colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
	t.Sync()
	return t
}

func (t *Toolbar) Object() fyne.CanvasObject { return t.object }

// Sync reloads the controls from the controller after a change made
// elsewhere, from the keyboard or the menu.
func (t *Toolbar) Sync() {
	ctrl := t.board.Controller()
	t.syncing = true
	defer func() { t.syncing = false }()

	t.tools.SetSelected(ctrl.Tool().String())
	t.width.SetValue(ctrl.LineWidth())
	t.palette.SetText(ctrl.PaletteName() + ":")

	t.colorBox.RemoveAll()
	for i, c := range ctrl.Colors() {
		t.colorBox.Add(newColorSwatch(c, func() { ctrl.SelectColor(i) }))
	}
	t.colorBox.Refresh()
}
