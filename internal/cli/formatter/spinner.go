package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StartSpinner animates message on w, with the elapsed seconds, until the
// returned stop func is called. Stop clears the line and may be called more
// than once. It is used outside the TUI, while a slow call such as the
// planning assistant runs.
func StartSpinner(w io.Writer, message string) (stop func()) {
	style := spinner.MiniDot
	quit := make(chan struct{})
	done := make(chan struct{})
	started := time.Now()

	go func() {
		defer close(done)
		tick := time.NewTicker(style.FPS)
		defer tick.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-quit:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-tick.C:
				elapsed := time.Since(started).Truncate(time.Second)
				fmt.Fprintf(w, "\r%s %s %s",
					StylePurple.Render(style.Frames[frame%len(style.Frames)]),
					Dim(message),
					Dim(elapsed.String()))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-done
		})
	}
}
