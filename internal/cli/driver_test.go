package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// cmdWait bounds how long a command may run before the driver drops it.
// Engine calls in tests return at once; cursor blinks and spinner ticks
// sleep on timers and are dropped.
const cmdWait = 10 * time.Millisecond

const maxCmdDepth = 100

// tuiDriver runs a bubbletea model without a Program: every message goes
// straight to Update and returned commands are executed inline.
type tuiDriver struct {
	t     *testing.T
	model tea.Model
	quit  bool
}

func drive(t *testing.T, model tea.Model) *tuiDriver {
	t.Helper()
	d := &tuiDriver{t: t, model: model}
	d.run(model.Init(), 0)
	return d
}

func (d *tuiDriver) send(msg tea.Msg) {
	d.t.Helper()
	if d.quit {
		return
	}
	next, cmd := d.model.Update(msg)
	d.model = next
	d.run(cmd, 0)
}

func (d *tuiDriver) typeText(s string) {
	d.t.Helper()
	for _, r := range s {
		d.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (d *tuiDriver) enter() { d.send(tea.KeyMsg{Type: tea.KeyEnter}) }

func (d *tuiDriver) esc() { d.send(tea.KeyMsg{Type: tea.KeyEsc}) }

// line types s and submits it.
func (d *tuiDriver) line(s string) {
	d.t.Helper()
	d.typeText(s)
	d.enter()
}

func (d *tuiDriver) run(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxCmdDepth {
		d.t.Logf("driver: command depth limit %d reached", maxCmdDepth)
		return
	}

	msg := runCmd(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.run(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.quit = true
		return
	}

	next, nextCmd := d.model.Update(msg)
	d.model = next
	d.run(nextCmd, depth+1)
}

func runCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdWait):
		return nil
	}
}

func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
