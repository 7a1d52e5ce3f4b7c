package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pixil98/go-botcore/internal/action"
	"github.com/pixil98/go-botcore/internal/grid"
	"github.com/pixil98/go-botcore/internal/scheduler"
	"github.com/pixil98/go-botcore/internal/stats"
	"github.com/pixil98/go-botcore/internal/world"
)

// scriptedConn feeds canned operator input and captures session output.
type scriptedConn struct {
	io.Reader
	out bytes.Buffer
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func testManager(t *testing.T) *ConnectionManager {
	t.Helper()

	w := world.NewWorldState(nil)
	registry := grid.NewRegistry()
	queue := action.NewQueue(10)
	processor := action.NewProcessor(queue, w)
	sched := scheduler.NewScheduler(registry, w, w)
	return NewConnectionManager(stats.NewCollector(w, registry, queue, processor, sched))
}

func TestConnectionManager_Session(t *testing.T) {
	tests := map[string]struct {
		input     string
		expOutput []string
	}{
		"help": {
			input:     "help\nquit\n",
			expOutput: []string{"Commands:", "stats", "grids", "queue", "bye"},
		},
		"stats": {
			input:     "stats\nquit\n",
			expOutput: []string{"0 region(s)", "Processor:", "bye"},
		},
		"grids with none registered": {
			input:     "grids\nquit\n",
			expOutput: []string{"no grids registered"},
		},
		"queue": {
			input:     "queue\nquit\n",
			expOutput: []string{"Depth:", "Malformed:"},
		},
		"unknown command": {
			input:     "dance\nquit\n",
			expOutput: []string{"unknown command, try 'help'"},
		},
		"blank lines ignored": {
			input:     "\n\nquit\n",
			expOutput: []string{"bye"},
		},
		"exit alias": {
			input:     "exit\n",
			expOutput: []string{"bye"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := testManager(t)
			conn := &scriptedConn{Reader: strings.NewReader(tt.input)}

			m.AcceptConnection(context.Background(), conn)

			out := conn.out.String()
			if !strings.Contains(out, "operator console") {
				t.Errorf("expected a banner, got:\n%s", out)
			}
			for _, want := range tt.expOutput {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestConnectionManager_SessionEndsOnEOF(t *testing.T) {
	m := testManager(t)
	conn := &scriptedConn{Reader: strings.NewReader("stats\n")}

	// Input runs out without a quit; the session ends without hanging.
	m.AcceptConnection(context.Background(), conn)

	if !strings.Contains(conn.out.String(), "0 region(s)") {
		t.Errorf("expected the stats command to run before EOF, got:\n%s", conn.out.String())
	}
}
