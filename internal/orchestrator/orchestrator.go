// Package orchestrator drives the translation run: it walks the sheet's
// rows in order, decides skip or translate, assembles the per-row context,
// calls the oracle, and writes results back. Processing is strictly
// sequential because every translation conditions on the window and
// glossary state left behind by the previous ones.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valpere/radtran/internal/glossary"
	"github.com/valpere/radtran/internal/markup"
	"github.com/valpere/radtran/internal/oracle"
	"github.com/valpere/radtran/internal/sheet"
	"github.com/valpere/radtran/internal/window"
)

// Outcome is the terminal state of one row.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// RowResult records how one row ended up.
type RowResult struct {
	Row     int
	Speaker string
	Outcome Outcome
	Text    string // the translation, for written rows
	Err     error  // the cause, for failed rows
}

// Summary is the final per-run outcome log.
type Summary struct {
	Sheet   string
	Written int
	Skipped int
	Failed  int
	Results []RowResult
}

// languageChecker validates that oracle output is in the target language.
// Satisfied by *validator.Validator.
type languageChecker interface {
	Check(text, targetCode string) error
}

// Config carries the per-run policy knobs.
type Config struct {
	SheetName  string
	TargetLang string // display name used in prompts, e.g. "Swedish"
	TargetCode string // ISO 639-1 code for output validation; "" disables

	Limit       int  // max rows translated this run; 0 = unlimited
	StartRow    int  // 1-based first sheet row considered; 0 = from the top
	Force       bool // retranslate rows that already have a target
	DryRun      bool // compute everything, suppress writes
	SeedContext bool // replay skipped pre-translated rows into window/glossary

	MaxAttempts int           // oracle attempts per row including the first
	RetryDelay  time.Duration // initial backoff, doubled per retry

	BasePrompt string
	Synopsis   string
}

const maxRetryDelay = 30 * time.Second

// Orchestrator owns the control loop. Window and glossary are injected so
// tests can inspect them and a future variant can persist them.
type Orchestrator struct {
	store   sheet.RowStore
	svc     oracle.Service
	win     *window.Window
	gloss   *glossary.Glossary
	checker languageChecker
	cfg     Config
}

func New(store sheet.RowStore, svc oracle.Service, win *window.Window, gloss *glossary.Glossary, cfg Config) *Orchestrator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Orchestrator{
		store: store,
		svc:   svc,
		win:   win,
		gloss: gloss,
		cfg:   cfg,
	}
}

// SetLanguageChecker enables target-language validation of oracle output.
func (o *Orchestrator) SetLanguageChecker(c languageChecker) {
	o.checker = c
}

// Run processes the sheet once. The returned error is non-nil only for
// fatal conditions (row store inaccessible, oracle credentials rejected,
// context canceled); per-row failures are recorded in the summary and do
// not stop the run. The summary is returned even on a fatal abort, covering
// the rows processed up to that point.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	rows, err := o.store.ListRows(ctx, o.cfg.SheetName)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Sheet: o.cfg.SheetName}
	translated := 0

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if o.cfg.StartRow > 0 && row.Index < o.cfg.StartRow {
			continue
		}

		if !row.HasSource() {
			o.record(summary, RowResult{Row: row.Index, Speaker: row.Speaker, Outcome: OutcomeSkipped})
			continue
		}

		if row.Translated() && !o.cfg.Force {
			if o.cfg.SeedContext {
				o.advance(row, row.Target)
			}
			o.record(summary, RowResult{Row: row.Index, Speaker: row.Speaker, Outcome: OutcomeSkipped})
			continue
		}

		if o.cfg.Limit > 0 && translated >= o.cfg.Limit {
			break
		}
		translated++

		text, err := o.translateRow(ctx, row)
		if err != nil {
			if errors.Is(err, oracle.ErrAuth) {
				o.record(summary, RowResult{Row: row.Index, Speaker: row.Speaker, Outcome: OutcomeFailed, Err: err})
				return summary, fmt.Errorf("aborting run: %w", err)
			}
			o.record(summary, RowResult{Row: row.Index, Speaker: row.Speaker, Outcome: OutcomeFailed, Err: err})
			continue
		}

		if !o.cfg.DryRun {
			if werr := o.store.WriteTarget(ctx, o.cfg.SheetName, row.Index, text); werr != nil {
				// The translation exists but was not persisted. Window and
				// glossary stay untouched so context reflects only what the
				// sheet durably holds.
				o.record(summary, RowResult{Row: row.Index, Speaker: row.Speaker, Outcome: OutcomeFailed, Err: werr})
				continue
			}
		}

		o.advance(row, text)
		o.record(summary, RowResult{Row: row.Index, Speaker: row.Speaker, Outcome: OutcomeWritten, Text: text})
	}

	return summary, nil
}

// translateRow assembles the request and calls the oracle, retrying
// transient failures with exponential backoff.
func (o *Orchestrator) translateRow(ctx context.Context, row sheet.Row) (string, error) {
	source, tags := markup.Shield(row.SourcePrimary)
	basePrompt := o.cfg.BasePrompt
	if len(tags) > 0 {
		basePrompt = strings.TrimSpace(basePrompt + "\n" + markup.Hint)
	}

	req := oracle.Request{
		TargetLang:      o.cfg.TargetLang,
		Speaker:         row.Speaker,
		SourcePrimary:   source,
		SourceSecondary: row.SourceSecondary,
		BasePrompt:      basePrompt,
		Synopsis:        o.cfg.Synopsis,
		GlossaryBlock:   o.gloss.PromptBlock(),
		Context:         exchanges(o.win.Snapshot()),
	}

	delay := o.cfg.RetryDelay
	var lastErr error

	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		text, err := o.svc.Translate(ctx, req)
		if err == nil {
			if dropped := markup.Missing(text, tags); len(dropped) > 0 {
				slog.Warn("translation dropped markup tokens", "row", row.Index, "tokens", dropped)
			}
			text = markup.Unshield(text, tags)
			if o.checker != nil && o.cfg.TargetCode != "" {
				if cerr := o.checker.Check(text, o.cfg.TargetCode); cerr != nil {
					return "", fmt.Errorf("%w: %v", oracle.ErrMalformed, cerr)
				}
			}
			return text, nil
		}

		lastErr = err
		if !retryable(err) || attempt == o.cfg.MaxAttempts {
			break
		}

		slog.Warn("oracle call failed, backing off",
			"row", row.Index,
			"attempt", attempt,
			"delay", delay,
			"err", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}

	return "", lastErr
}

func retryable(err error) bool {
	return errors.Is(err, oracle.ErrRateLimit) || errors.Is(err, oracle.ErrTimeout)
}

// advance pushes the row into the context window and lets the glossary
// learn from it. Called only for rows whose translation is (or is treated
// as) durable.
func (o *Orchestrator) advance(row sheet.Row, target string) {
	o.win.Push(window.Entry{
		Speaker: row.Speaker,
		Source:  sourceSnippet(row),
		Target:  target,
	})
	o.gloss.Observe(row.Speaker, row.SourcePrimary, row.SourceSecondary, target)
}

func (o *Orchestrator) record(summary *Summary, res RowResult) {
	summary.Results = append(summary.Results, res)
	switch res.Outcome {
	case OutcomeWritten:
		summary.Written++
		slog.Info("row written", "row", res.Row, "speaker", res.Speaker, "target", res.Text)
	case OutcomeSkipped:
		summary.Skipped++
		slog.Debug("row skipped", "row", res.Row)
	case OutcomeFailed:
		summary.Failed++
		slog.Error("row failed", "row", res.Row, "err", res.Err)
	}
}

// sourceSnippet joins the two source columns the way they appear in prompt
// context: "primary / gloss", or whichever one is present.
func sourceSnippet(row sheet.Row) string {
	switch {
	case row.SourcePrimary != "" && row.SourceSecondary != "":
		return row.SourcePrimary + " / " + row.SourceSecondary
	case row.SourcePrimary != "":
		return row.SourcePrimary
	default:
		return row.SourceSecondary
	}
}

func exchanges(entries []window.Entry) []oracle.Exchange {
	if len(entries) == 0 {
		return nil
	}
	out := make([]oracle.Exchange, len(entries))
	for i, e := range entries {
		out[i] = oracle.Exchange{Speaker: e.Speaker, Source: e.Source, Target: e.Target}
	}
	return out
}
