package main

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/nicospum/rendija2simspum/quantum"
)

// main is the entry point of the application: load defaults, collect the
// experiment setup from the user, spin up the simulation goroutine and hand
// the window over to the main UI.
func main() {
	log.Println("starting application...")

	myApp := app.New()

	simWindow := myApp.NewWindow("Double-Slit Experiment Setup")
	simWindow.SetContent(container.NewCenter(widget.NewLabel("Loading configuration...")))
	simWindow.Resize(fyne.NewSize(400, 200))
	simWindow.CenterOnScreen()
	simWindow.Show()

	defaults, seed := loadDefaults(defaultsFile)

	showConfigDialog(myApp, simWindow, defaults, seed, func(params *quantum.Params, finalSeed int64, ok bool) {
		if !ok {
			log.Println("experiment setup cancelled, exiting")
			simWindow.Close()
			return
		}

		log.Printf("configuration: slits=%d width=%.2f sep=%.2f kind=%s seed=%d",
			params.Slits.Count, params.Slits.Width, params.Slits.Separation, params.Kind, finalSeed)

		updateChan := make(chan quantum.FrameData, 100)
		controlChan := make(chan quantum.ControlMsg, 50)
		sim := quantum.NewSimulation(*params, finalSeed, updateChan, controlChan)
		sim.Start()
		go sim.Run()

		ui := setupMainUI(myApp, *params, sim, updateChan, controlChan, simWindow)
		if ui == nil || ui.Container == nil {
			log.Println("error: UI setup failed")
			dialog.ShowError(errors.New("failed to create main application UI"), simWindow)
			sim.Close()
			return
		}

		simWindow.SetTitle(fmt.Sprintf("Double-Slit Experiment - %d slit(s), %s", params.Slits.Count, params.Kind))
		simWindow.SetContent(ui.Container)
		simWindow.Resize(fyne.NewSize(1000, 720))
		simWindow.CenterOnScreen()

		simWindow.SetOnClosed(func() {
			log.Println("main window closed by user")
			sim.Close()
			done := make(chan struct{})
			go func() {
				defer close(done)
				sim.Wait()
			}()
			select {
			case <-done:
				log.Println("simulation finished cleanly")
			case <-time.After(2 * time.Second):
				log.Println("warning: timeout waiting for simulation")
			}
			log.Println("exiting application")
		})
	})

	log.Println("starting main event loop...")
	myApp.Run()
	log.Println("application finished")
}

// showConfigDialog collects the initial experiment parameters in a validated
// form. Values outside the engine's bounds are still accepted here; the
// clamped setters bring them into range.
func showConfigDialog(a fyne.App, parent fyne.Window, defaults quantum.Params, seed int64, onComplete func(*quantum.Params, int64, bool)) {
	slitEntry := widget.NewEntry()
	slitEntry.SetText(strconv.Itoa(defaults.Slits.Count))
	slitEntry.Validator = func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > quantum.MaxSlitCount {
			return fmt.Errorf("slit count must be an integer in [1,%d]", quantum.MaxSlitCount)
		}
		return nil
	}

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%.2f", defaults.Slits.Width))
	widthEntry.Validator = func(s string) error {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f <= 0 {
			return errors.New("slit width must be a positive number")
		}
		return nil
	}

	sepEntry := widget.NewEntry()
	sepEntry.SetText(fmt.Sprintf("%.2f", defaults.Slits.Separation))
	sepEntry.Validator = func(s string) error {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f <= 0 {
			return errors.New("slit separation must be a positive number")
		}
		return nil
	}

	kindSelect := widget.NewSelect([]string{"electron", "photon", "neutrino"}, nil)
	kindSelect.SetSelected(defaults.Kind.String())

	seedEntry := widget.NewEntry()
	seedEntry.SetText(strconv.FormatInt(seed, 10))
	seedEntry.Validator = func(s string) error {
		_, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.New("seed must be an integer")
		}
		return nil
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Slit count", slitEntry),
		widget.NewFormItem("Slit width", widthEntry),
		widget.NewFormItem("Slit separation", sepEntry),
		widget.NewFormItem("Particle", kindSelect),
		widget.NewFormItem("RNG seed", seedEntry),
	}

	dialog.ShowForm("Experiment Setup", "Start", "Cancel", items,
		func(ok bool) {
			if !ok {
				onComplete(nil, 0, false)
				return
			}

			params := defaults
			n, _ := strconv.Atoi(slitEntry.Text)
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			sep, _ := strconv.ParseFloat(sepEntry.Text, 64)
			finalSeed, _ := strconv.ParseInt(seedEntry.Text, 10, 64)

			params.SetSlitCount(n)
			params.SetSlitWidth(w)
			params.SetSlitSeparation(sep)
			params.SetKind(quantum.ParseKind(kindSelect.Selected))

			onComplete(&params, finalSeed, true)
		}, parent)
}
