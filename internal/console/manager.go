package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/pixil98/go-botcore/internal/stats"
)

// ConnectionManager runs read-only operator sessions. The console exposes
// the core's counters (drops, rejections, skips, generations) and nothing
// else; it never mutates world state.
type ConnectionManager struct {
	collector *stats.Collector
}

func NewConnectionManager(collector *stats.Collector) *ConnectionManager {
	return &ConnectionManager{
		collector: collector,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runSession(ctx, conn); err != nil && !errors.Is(err, io.EOF) {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}

func (m *ConnectionManager) runSession(ctx context.Context, conn io.ReadWriter) error {
	if _, err := conn.Write([]byte("botcore operator console. Type 'help' for commands.\n")); err != nil {
		return err
	}

	br := bufio.NewReader(conn)
	for {
		line, err := Prompt(conn, br, "botcore> ")
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "help":
			if err := render(conn, helpTemplate, nil); err != nil {
				return err
			}
		case "stats":
			if err := render(conn, statsTemplate, m.collector.Report()); err != nil {
				return err
			}
		case "grids":
			if err := render(conn, gridsTemplate, m.collector.Report()); err != nil {
				return err
			}
		case "queue":
			if err := render(conn, queueTemplate, m.collector.Report()); err != nil {
				return err
			}
		case "quit", "exit":
			_, err := conn.Write([]byte("bye\n"))
			return err
		default:
			if _, err := conn.Write([]byte("unknown command, try 'help'\n")); err != nil {
				return err
			}
		}
	}
}
