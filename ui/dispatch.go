package ui

import "fyne.io/fyne/v2"

// Dispatcher runs content host callbacks on the fyne main goroutine, which
// is the control thread of a windowed session.
type Dispatcher struct{}

// Post implements content.Dispatcher.
func (Dispatcher) Post(fn func()) {
	fyne.Do(fn)
}

// Go implements content.Dispatcher.
func (Dispatcher) Go(work func() func()) {
	go func() {
		if apply := work(); apply != nil {
			fyne.Do(apply)
		}
	}()
}
