package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"mysqlsync/cli/internal/terminal"
	"mysqlsync/cli/internal/transfer"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in w. Calling the returned function stops the spinner and
// clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// stageSpinner renders the current transfer stage in a pterm area. It is a
// no-op when stdout is not a terminal or logs are JSON.
type stageSpinner struct {
	mu    sync.Mutex
	stage transfer.Stage
	idx   int
	area  *pterm.AreaPrinter
	stop  chan struct{}
	wg    sync.WaitGroup
}

func startStageSpinner(enabled bool) *stageSpinner {
	s := &stageSpinner{stop: make(chan struct{})}
	if !enabled || !terminal.IsInteractive(os.Stdout) {
		return s
	}

	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return s
	}
	s.area = area
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.mu.Lock()
				s.idx++
				if s.stage != "" {
					area.Update(fmt.Sprintf("%s %s", spinnerFrames[s.idx%len(spinnerFrames)], s.stage))
				}
				s.mu.Unlock()
			case <-s.stop:
				return
			}
		}
	}()
	return s
}

// Stage records the stage shown on the next frame. It matches the
// transfer.WithProgress callback signature.
func (s *stageSpinner) Stage(st transfer.Stage) {
	s.mu.Lock()
	s.stage = st
	s.mu.Unlock()
}

// Stop removes the spinner and restores the cursor. Safe to call twice.
func (s *stageSpinner) Stop() {
	if s.area == nil {
		return
	}
	close(s.stop)
	s.wg.Wait()
	_ = s.area.Stop()
	s.area = nil
	cursor.Show()
}
