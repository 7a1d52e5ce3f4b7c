package console

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/muesli/reflow/wordwrap"
)

const outputWidth = 100

var templateFuncs = sprig.TxtFuncMap()

const helpTemplate = `Commands:
  stats   overall counters (world, scheduler, processor)
  grids   per-region grid buffer counters
  queue   action queue counters
  quit    close the session
`

const statsTemplate = `World: {{ .Regions }} region(s), {{ .Entities }} live entit{{ if eq .Entities 1 }}y{{ else }}ies{{ end }}
Scheduler: {{ .Scheduler.Cycles }} cycles, {{ .Scheduler.Skipped }} skipped refreshes, last {{ .Scheduler.LastDuration }}, avg {{ .Scheduler.AvgDuration }}
Processor: {{ .Processor.Executed }} executed, {{ .Processor.Rejected }} rejected
Queue: depth {{ .Queue.Depth }}, {{ .Queue.Enqueued }} enqueued, {{ .Queue.Drained }} drained, {{ .Queue.Dropped }} dropped, {{ .Queue.Malformed }} malformed
`

const gridsTemplate = `{{ if not .Grids }}no grids registered
{{ else }}{{ printf "%-16s %10s %10s %10s %10s %10s %10s" "REGION" "GEN" "REFRESHES" "CONTENDED" "THROTTLED" "DROPPED" "LASTCOUNT" }}
{{ range .Grids }}{{ printf "%-16s %10d %10d %10d %10d %10d %10d" (trunc 16 .Region) .Generation .Refreshes .SkippedContention .SkippedThrottle .Dropped .LastCount }}
{{ end }}{{ end }}`

const queueTemplate = `Depth:     {{ .Queue.Depth }}
Enqueued:  {{ .Queue.Enqueued }}
Drained:   {{ .Queue.Drained }}
Dropped:   {{ .Queue.Dropped }}
Malformed: {{ .Queue.Malformed }}
`

// render executes the template and writes the word-wrapped result.
func render(w io.Writer, tmpl string, data any) error {
	t, err := template.New("console").Funcs(templateFuncs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parsing console template: %w", err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return fmt.Errorf("rendering console template: %w", err)
	}

	_, err = w.Write([]byte(wordwrap.String(sb.String(), outputWidth)))
	return err
}
