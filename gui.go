package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/nicospum/rendija2simspum/quantum"
)

// AppUI holds the view state: the three plot rasters, the control widgets and
// the communication channels with the simulation goroutine.
type AppUI struct {
	App    fyne.App
	Window fyne.Window

	flightPlot *canvas.Raster // top view of particles in flight
	fieldPlot  *canvas.Raster // detection screen build-up
	theoryPlot *canvas.Raster // closed-form vs exact Fraunhofer overlay

	timeLabel  *widget.Label
	statsLabel *widget.Label
	slitLabel  *widget.Label

	observedCheck *widget.Check

	// Mirror of the engine configuration, maintained by the control
	// callbacks through the same clamped setters the engine uses, so the
	// theory overlay always matches what the engine is running.
	cfg quantum.Params

	// Last frame received plus cached theory curves, guarded for the
	// raster generators which run on the Fyne draw thread.
	plotMutex    sync.Mutex
	lastFrame    quantum.FrameData
	closedCurve  []float64
	exactCurve   []float64
	lastFieldRev uint64

	sim *quantum.Simulation

	updateChan  <-chan quantum.FrameData
	controlChan chan<- quantum.ControlMsg

	Container fyne.CanvasObject
}

const theoryCurveSamples = 320

// setupMainUI builds the experiment UI and starts the GUI update loop.
func setupMainUI(a fyne.App, params quantum.Params, sim *quantum.Simulation, updateChan <-chan quantum.FrameData, controlChan chan<- quantum.ControlMsg, mainWindow fyne.Window) *AppUI {
	log.Println("setting up main UI content...")

	ui := &AppUI{
		App:         a,
		Window:      mainWindow,
		cfg:         params,
		sim:         sim,
		updateChan:  updateChan,
		controlChan: controlChan,
	}
	ui.recomputeTheory()

	// --- Status labels ---
	ui.timeLabel = widget.NewLabel("Time: 0.000")
	ui.timeLabel.Alignment = fyne.TextAlignTrailing
	ui.statsLabel = widget.NewLabel("Fired: 0  Detected: 0  Absorbed: 0")
	ui.slitLabel = widget.NewLabel("Slit passes: -")

	// --- Plots ---
	ui.flightPlot = canvas.NewRaster(ui.drawFlight)
	ui.flightPlot.SetMinSize(fyne.NewSize(420, 300))
	ui.fieldPlot = canvas.NewRaster(ui.drawField)
	ui.fieldPlot.SetMinSize(fyne.NewSize(320, 240))
	ui.theoryPlot = canvas.NewRaster(ui.drawTheory)
	ui.theoryPlot.SetMinSize(fyne.NewSize(320, 120))

	// --- Controls ---
	kindSelect := widget.NewSelect([]string{"electron", "photon", "neutrino"}, func(s string) {
		k := quantum.ParseKind(s)
		ui.cfg.SetKind(k)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetKind, IntValue: int(k)})
		ui.recomputeTheory()
	})
	kindSelect.SetSelected(params.Kind.String())

	ui.observedCheck = widget.NewCheck("Observed (which-path detector)", func(v bool) {
		ui.cfg.SetObserved(v)
		if v && !ui.cfg.Observed {
			// Forced off: a single slit has no which-path information.
			ui.observedCheck.SetChecked(false)
			return
		}
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetObs, Flag: v})
	})

	autoCheck := widget.NewCheck("Auto emit", func(v bool) {
		ui.cfg.SetAutoEmit(v)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetAuto, Flag: v})
	})

	slitSlider := ui.newSlider(1, quantum.MaxSlitCount, 1, float64(params.Slits.Count), "Slits", "%.0f", func(v float64) {
		ui.cfg.SetSlitCount(int(v))
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetSlits, IntValue: int(v)})
		if ui.cfg.Slits.Count == 1 {
			ui.observedCheck.SetChecked(false)
		}
		ui.recomputeTheory()
	})
	widthSlider := ui.newSlider(quantum.MinSlitWidth, quantum.MaxSlitWidth, 0.01, params.Slits.Width, "Slit width", "%.2f", func(v float64) {
		ui.cfg.SetSlitWidth(v)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetWidth, Value: v})
		ui.recomputeTheory()
	})
	sepSlider := ui.newSlider(quantum.MinSlitSeparation, quantum.MaxSlitSeparation, 0.01, params.Slits.Separation, "Separation", "%.2f", func(v float64) {
		ui.cfg.SetSlitSeparation(v)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetSep, Value: v})
		ui.recomputeTheory()
	})
	lambdaSlider := ui.newSlider(quantum.MinWavelength, quantum.MaxWavelength, 0.005, params.Wavelength, "Wavelength", "%.3f", func(v float64) {
		ui.cfg.SetWavelength(v)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetLambda, Value: v})
		ui.recomputeTheory()
	})
	speedSlider := ui.newSlider(quantum.MinSpeed, quantum.MaxSpeed, 0.1, params.Speed, "Speed", "%.1f", func(v float64) {
		ui.cfg.SetSpeed(v)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetSpeed, Value: v})
	})
	dispSlider := ui.newSlider(0, quantum.MaxDispersion, 0.1, params.Dispersion, "Dispersion", "%.1f", func(v float64) {
		ui.cfg.SetDispersion(v)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetDisp, Value: v})
	})
	emitNSlider := ui.newSlider(quantum.MinEmitCount, quantum.MaxEmitCount, 1, float64(params.EmitCount), "Per emission", "%.0f", func(v float64) {
		ui.cfg.SetEmitCount(int(v))
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetEmitN, IntValue: int(v)})
	})
	rateSlider := ui.newSlider(quantum.MinEmitRate, quantum.MaxEmitRate, 0.5, params.EmitRate, "Emit rate", "%.1f", func(v float64) {
		ui.cfg.SetEmitRate(v)
		ui.send(quantum.ControlMsg{Command: quantum.CmdSetEmitHz, Value: v})
	})

	startButton := widget.NewButton("Start", func() {
		ui.send(quantum.ControlMsg{Command: quantum.CmdStart})
	})
	stopButton := widget.NewButton("Pause", func() {
		ui.send(quantum.ControlMsg{Command: quantum.CmdStop})
	})
	resetButton := widget.NewButton("Reset", func() {
		ui.send(quantum.ControlMsg{Command: quantum.CmdReset})
		ui.timeLabel.SetText("Time: 0.000")
	})
	emitButton := widget.NewButton("Emit", func() {
		ui.send(quantum.ControlMsg{Command: quantum.CmdEmit, IntValue: ui.cfg.EmitCount})
	})

	// --- Layout ---
	buttons := container.NewHBox(startButton, stopButton, resetButton, emitButton, ui.observedCheck, autoCheck)
	sliders := container.NewGridWithColumns(2,
		slitSlider, widthSlider,
		sepSlider, lambdaSlider,
		speedSlider, dispSlider,
		emitNSlider, rateSlider,
	)
	status := container.NewHBox(ui.statsLabel, ui.slitLabel, ui.timeLabel)
	controls := container.NewVBox(buttons,
		container.NewBorder(nil, nil, widget.NewLabel("Particle:"), nil, kindSelect),
		sliders, status)

	flightBox := container.NewBorder(widget.NewLabelWithStyle("Flight (top view)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil, ui.flightPlot)
	fieldBox := container.NewBorder(widget.NewLabelWithStyle("Detection screen", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil, ui.fieldPlot)
	theoryBox := container.NewBorder(widget.NewLabelWithStyle("Theory: model (gray) vs exact Fraunhofer (white)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil, ui.theoryPlot)

	plots := container.NewGridWithColumns(2, flightBox, container.NewVBox(fieldBox, theoryBox))
	ui.Container = container.NewBorder(nil, controls, nil, nil, plots)

	go ui.guiUpdateLoop()
	log.Println("main UI content setup finished")
	return ui
}

// newSlider builds a labeled slider row with a live value readout.
func (ui *AppUI) newSlider(min, max, step, value float64, name, format string, onChanged func(float64)) fyne.CanvasObject {
	valueLabel := widget.NewLabel(fmt.Sprintf(format, value))
	slider := widget.NewSlider(min, max)
	slider.Step = step
	slider.SetValue(value)
	slider.OnChanged = func(v float64) {
		valueLabel.SetText(fmt.Sprintf(format, v))
		onChanged(v)
	}
	return container.NewBorder(nil, nil, widget.NewLabel(name+":"), valueLabel, slider)
}

// send forwards a control message, dropping it when the channel is full so a
// busy engine can never wedge the UI thread.
func (ui *AppUI) send(msg quantum.ControlMsg) {
	select {
	case ui.controlChan <- msg:
	default:
		log.Printf("control channel full, dropping %q", msg.Command)
	}
}

// recomputeTheory refreshes the overlay curves from the mirrored config.
func (ui *AppUI) recomputeTheory() {
	closed := quantum.ClosedFormPattern(ui.cfg.Slits, ui.cfg.Wavelength, theoryCurveSamples)
	exact := quantum.TheoreticalPattern(ui.cfg.Slits, ui.cfg.Wavelength, theoryCurveSamples)
	ui.plotMutex.Lock()
	ui.closedCurve = closed
	ui.exactCurve = exact
	ui.plotMutex.Unlock()
	if ui.theoryPlot != nil {
		ui.theoryPlot.Refresh()
	}
}

// guiUpdateLoop consumes FrameData snapshots until the channel closes.
func (ui *AppUI) guiUpdateLoop() {
	log.Println("GUI update loop started")
	for frame := range ui.updateChan {
		if frame.Error != nil {
			log.Printf("frame error: %v", frame.Error)
			if ui.Window != nil {
				dialog.ShowError(frame.Error, ui.Window)
			}
			continue
		}

		ui.plotMutex.Lock()
		fieldChanged := frame.FieldRev != ui.lastFieldRev
		ui.lastFieldRev = frame.FieldRev
		ui.lastFrame = frame
		ui.plotMutex.Unlock()

		ui.timeLabel.SetText(fmt.Sprintf("Time: %.3f", frame.Time))
		ui.statsLabel.SetText(fmt.Sprintf("Fired: %d  Detected: %d  Absorbed: %d",
			frame.Stats.Fired, frame.Stats.Detected, frame.Stats.Absorbed))
		ui.slitLabel.SetText(formatSlitCounts(frame.Stats.SlitCounts, ui.cfg.Slits.Count))

		ui.flightPlot.Refresh()
		if fieldChanged {
			ui.fieldPlot.Refresh()
		}
	}
	log.Println("GUI update loop finished (update channel closed)")
}

func formatSlitCounts(counts [quantum.MaxSlitCount]uint64, n int) string {
	s := "Slit passes:"
	for i := 0; i < n; i++ {
		s += fmt.Sprintf(" %d", counts[i])
	}
	return s
}

// drawFlight renders the top view: emitter side, barrier with slit gaps,
// screen plane, and every live particle as a colored dot.
func (ui *AppUI) drawFlight(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	drawPlaceholder(img, color.NRGBA{R: 12, G: 14, B: 24, A: 255})
	if w < 4 || h < 4 {
		return img
	}

	// World-to-pixel mapping: x spans emitter..screen, y spans the field.
	xSpan := quantum.ScreenX - quantum.EmitterX
	toPx := func(x float64) int { return int((x - quantum.EmitterX) / xSpan * float64(w-1)) }
	toPy := func(y float64) int { return int((y/quantum.FieldSpanY + 0.5) * float64(h-1)) }

	ui.plotMutex.Lock()
	frame := ui.lastFrame
	slits := ui.cfg.Slits
	ui.plotMutex.Unlock()

	// Barrier with slit gaps.
	bx := toPx(quantum.BarrierX)
	barrier := color.NRGBA{R: 150, G: 150, B: 160, A: 255}
	for py := 0; py < h; py++ {
		y := (float64(py)/float64(h-1) - 0.5) * quantum.FieldSpanY
		if slits.SlitAt(y) < 0 {
			img.Set(bx, py, barrier)
		}
	}
	// Screen plane.
	sx := toPx(quantum.ScreenX)
	if sx >= w {
		sx = w - 1
	}
	for py := 0; py < h; py++ {
		img.Set(sx, py, color.NRGBA{R: 60, G: 90, B: 60, A: 255})
	}

	for _, p := range frame.Particles {
		if !p.Active {
			continue
		}
		px, py := toPx(p.Pos.X), toPy(p.Pos.Y)
		c := kindColor(p.Kind)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y := px+dx, py+dy
				if x >= 0 && x < w && y >= 0 && y < h {
					img.Set(x, y, c)
				}
			}
		}
	}
	return img
}

// drawField renders the accumulated detection pattern.
func (ui *AppUI) drawField(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fw, fh, cells := ui.sim.Field().Snapshot()
	if fw == 0 || fh == 0 || w < 1 || h < 1 {
		drawPlaceholder(img, color.NRGBA{R: 20, G: 20, B: 40, A: 255})
		return img
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cx := x * fw / w
			cy := y * fh / h
			img.Set(x, y, cellColor(cells[cy*fw+cx]))
		}
	}
	return img
}

// drawTheory renders the two reference curves plus a viridis heat strip of
// the pattern along the bottom.
func (ui *AppUI) drawTheory(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	drawPlaceholder(img, color.NRGBA{R: 10, G: 10, B: 18, A: 255})

	ui.plotMutex.Lock()
	closed := ui.closedCurve
	exact := ui.exactCurve
	ui.plotMutex.Unlock()
	if len(closed) < 2 || len(exact) < 2 || w < 2 || h < 10 {
		return img
	}

	stripTop := h - 8
	curveH := float64(stripTop - 2)
	sample := func(curve []float64, x int) float64 {
		idx := x * (len(curve) - 1) / (w - 1)
		return curve[idx]
	}
	for x := 0; x < w; x++ {
		cy := stripTop - 1 - int(sample(closed, x)*curveH)
		ey := stripTop - 1 - int(sample(exact, x)*curveH)
		if cy >= 0 && cy < stripTop {
			img.Set(x, cy, color.NRGBA{R: 140, G: 140, B: 140, A: 255})
		}
		if ey >= 0 && ey < stripTop {
			img.Set(x, ey, color.NRGBA{R: 245, G: 245, B: 245, A: 255})
		}
		heat := viridis(math.Max(sample(closed, x), sample(exact, x)))
		for y := stripTop; y < h; y++ {
			img.Set(x, y, heat)
		}
	}
	return img
}
