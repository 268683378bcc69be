package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/courier/packages/http"
	"github.com/abdul-hamid-achik/courier/packages/metrics"
)

func printResult(w io.Writer, req *http.Request, body []byte, err error, elapsed time.Duration) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", bold(req.Method), req.URL)

	var serverErr *http.ServerError
	var decodeErr *http.DecodeError
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s %s\n\n", green("200 OK"), cyan(formatDuration(elapsed)))
		fmt.Fprintln(w, prettyJSON(body))
	case errors.As(err, &serverErr):
		fmt.Fprintf(w, "%s %s\n\n", red(fmt.Sprintf("%d %s", serverErr.Code, serverErr.Status)), cyan(formatDuration(elapsed)))
		if len(serverErr.Body) > 0 {
			fmt.Fprintln(w, prettyJSON(serverErr.Body))
		}
	case errors.As(err, &decodeErr):
		fmt.Fprintf(w, "%s %s\n\n", red("200 undecodable"), cyan(formatDuration(elapsed)))
		fmt.Fprintf(w, "%s %v\n", red("✗"), decodeErr.Err)
		fmt.Fprintln(w, string(decodeErr.Body))
	default:
		printError(w, err)
	}
}

func printSnapshot(w io.Writer, req *http.Request, s metrics.Snapshot, last error) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n\n", bold(req.Method), req.URL)
	fmt.Fprintf(w, "  Requests:    %d\n", s.Total)
	if s.NoResponse > 0 {
		fmt.Fprintf(w, "  No response: %s\n", red(s.NoResponse))
	} else {
		fmt.Fprintf(w, "  No response: %s\n", green(0))
	}
	if s.Suspended > 0 {
		fmt.Fprintf(w, "  Suspended:   %s\n", yellow(s.Suspended))
	}
	fmt.Fprintf(w, "\n  %s\n", bold("Latency"))
	fmt.Fprintf(w, "    min  %s\n", formatDuration(s.Min))
	fmt.Fprintf(w, "    mean %s\n", formatDuration(s.Mean))
	fmt.Fprintf(w, "    p50  %s\n", formatDuration(s.P50))
	fmt.Fprintf(w, "    p95  %s\n", formatDuration(s.P95))
	fmt.Fprintf(w, "    p99  %s\n", formatDuration(s.P99))
	fmt.Fprintf(w, "    max  %s\n", formatDuration(s.Max))

	if last != nil {
		fmt.Fprintf(w, "\n%s last failure: %v\n", red("✗"), last)
	}
}

func printSuspended(w io.Writer) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s the server reports this account as suspended\n", yellow("!"))
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("✗"), err)
}

func prettyJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
