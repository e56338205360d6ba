package provider

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sysglance/internal/sampler"
)

// journalQueryTimeout bounds each journalctl invocation.
const journalQueryTimeout = 10 * time.Second

// Journal tails recent entries from the systemd journal.
type Journal struct {
	run runner
	now func() time.Time
}

// NewJournal creates a log source backed by journalctl.
func NewJournal() *Journal {
	return &Journal{run: execRunner, now: time.Now}
}

// Logs returns up to max entries at or above min severity, oldest
// first. journalctl already tails and orders the journal; the parser
// only has to decode lines and drop chatter.
func (j *Journal) Logs(ctx context.Context, max int, min sampler.Severity) ([]sampler.LogEntry, error) {
	qctx, cancel := context.WithTimeout(ctx, journalQueryTimeout)
	defer cancel()

	out, err := j.run(qctx, "journalctl",
		"-p", min.Journalctl(),
		"-n", strconv.Itoa(max),
		"-o", "short",
		"--no-pager")
	if err != nil {
		return nil, fmt.Errorf("journalctl: %w", err)
	}

	return j.parse(out, max, min), nil
}

// parse decodes journalctl short-format output:
//
//	Aug 25 10:00:00 hostname unit[pid]: message
//
// Malformed lines and the "-- No entries --" / boot markers are
// skipped. The short format carries no priority field, so entries are
// tagged with the severity floor they were collected at.
func (j *Journal) parse(output string, max int, min sampler.Severity) []sampler.LogEntry {
	var entries []sampler.LogEntry
	now := j.now()

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		ts, err := time.ParseInLocation("Jan _2 15:04:05",
			strings.Join(fields[:3], " "), time.Local)
		if err != nil {
			continue
		}

		// The short format omits the year; backfill it, stepping back
		// one year for entries that would land in the future.
		ts = time.Date(now.Year(), ts.Month(), ts.Day(),
			ts.Hour(), ts.Minute(), ts.Second(), 0, time.Local)
		if ts.After(now.Add(24 * time.Hour)) {
			ts = ts.AddDate(-1, 0, 0)
		}

		entries = append(entries, sampler.LogEntry{
			Timestamp: ts,
			Severity:  min,
			Message:   strings.Join(fields[4:], " "),
		})
	}

	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	return entries
}
