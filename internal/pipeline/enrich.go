package pipeline

import (
	"context"
	"time"

	"gamedex/internal"
)

// Generator is the single capability the enricher needs from the model
// service. gemini.Client implements it; tests use stubs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Enricher struct {
	gen   Generator
	delay time.Duration

	// OnEvent receives one event per resolved attribute. Optional.
	OnEvent func(internal.RowEvent)

	sleep func(time.Duration)
}

func NewEnricher(gen Generator, delay time.Duration) *Enricher {
	return &Enricher{gen: gen, delay: delay, sleep: time.Sleep}
}

// Enrich walks the dataset in row order and resolves genre, description and
// player mode for every row, one model call at a time. Every call is followed
// by the configured pause, the last one included. A failed call is replaced
// by the kind's fallback value and never stops the batch; row i is fully
// resolved before row i+1 starts.
func (e *Enricher) Enrich(ctx context.Context, ds internal.Dataset) (internal.EnrichedDataset, internal.EnrichCounts) {
	columns := append([]string{}, ds.Columns...)
	for _, kind := range internal.Kinds() {
		columns = append(columns, string(kind))
	}

	out := internal.EnrichedDataset{
		Source:  ds.Source,
		Columns: columns,
		Rows:    make([]internal.EnrichedRow, 0, len(ds.Rows)),
	}
	counts := internal.EnrichCounts{Rows: len(ds.Rows)}

	total := len(ds.Rows)
	for _, row := range ds.Rows {
		enriched := internal.EnrichedRow{Row: row}
		for _, kind := range internal.Kinds() {
			text, err := e.gen.Generate(ctx, PromptFor(kind, row.Title))
			value := Normalize(kind, internal.QueryResult{Text: text, Err: err})
			enriched.Set(kind, value)

			counts.Queries++
			if err != nil {
				counts.Fallbacks++
			}
			e.emit(internal.RowEvent{
				Index:    row.Index,
				Total:    total,
				Title:    row.Title,
				Kind:     kind,
				Value:    value,
				Fallback: err != nil,
				Err:      err,
			})
			e.pause()
		}
		out.Rows = append(out.Rows, enriched)
	}

	return out, counts
}

func (e *Enricher) emit(ev internal.RowEvent) {
	if e.OnEvent != nil {
		e.OnEvent(ev)
	}
}

func (e *Enricher) pause() {
	if e.delay > 0 {
		e.sleep(e.delay)
	}
}
