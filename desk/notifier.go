package main

import (
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// statusLine is the one-line notice area under the tables grid.
type statusLine struct {
	app  *tview.Application
	view *tview.TextView
	log  *zap.Logger
}

func newStatusLine(app *tview.Application, log *zap.Logger) *statusLine {
	view := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	return &statusLine{app: app, view: view, log: log}
}

func (s *statusLine) Info(msg string) {
	s.show("[green]" + tview.Escape(msg))
}

func (s *statusLine) Error(msg string) {
	s.log.Debug("notice", zap.String("text", msg))
	s.show("[red]" + tview.Escape(msg))
}

func (s *statusLine) show(text string) {
	s.app.QueueUpdateDraw(func() {
		s.view.SetText(text)
	})
}
