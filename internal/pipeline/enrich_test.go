package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"gamedex/internal"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func titleDataset(titles ...string) internal.Dataset {
	ds := internal.Dataset{Source: internal.SourceCSV, Columns: []string{"game_title"}}
	for i, title := range titles {
		ds.Rows = append(ds.Rows, internal.Row{Index: i, Title: title, Values: []string{title}})
	}
	return ds
}

func silentEnricher(gen Generator) (*Enricher, *[]time.Duration) {
	pauses := &[]time.Duration{}
	e := NewEnricher(gen, 5*time.Second)
	e.sleep = func(d time.Duration) { *pauses = append(*pauses, d) }
	return e, pauses
}

func longWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

func TestEnrichResolvesAttributes(t *testing.T) {
	words := longWords(31)
	gen := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Genre:"):
			return "Strategy game.", nil
		case strings.Contains(prompt, "Description:"):
			return strings.Join(words, " "), nil
		case strings.Contains(prompt, "Player Mode:"):
			return "This game supports both single-player campaign and online multiplayer", nil
		}
		return "", errors.New("unexpected prompt")
	})

	e, _ := silentEnricher(gen)
	out, counts := e.Enrich(context.Background(), titleDataset("Chess Master 3000"))

	if len(out.Rows) != 1 {
		t.Fatalf("rows=%d", len(out.Rows))
	}
	row := out.Rows[0]
	if row.Genre != "Strategy" {
		t.Fatalf("genre=%q", row.Genre)
	}
	if want := strings.Join(words[:29], " ") + "."; row.ShortDescription != want {
		t.Fatalf("description=%q want %q", row.ShortDescription, want)
	}
	// "single-player" contains "single", so the first rule wins over "both".
	if row.PlayerMode != ModeSingleplayer {
		t.Fatalf("playerMode=%q", row.PlayerMode)
	}
	if counts.Queries != 3 || counts.Fallbacks != 0 {
		t.Fatalf("counts=%+v", counts)
	}
}

func TestEnrichAllQueriesFail(t *testing.T) {
	gen := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("service unavailable")
	})

	e, _ := silentEnricher(gen)
	out, counts := e.Enrich(context.Background(), titleDataset("Chess Master 3000"))

	row := out.Rows[0]
	if row.Genre != FallbackGenre {
		t.Fatalf("genre=%q", row.Genre)
	}
	if row.ShortDescription != FallbackDescription {
		t.Fatalf("description=%q", row.ShortDescription)
	}
	if row.PlayerMode != FallbackPlayerMode {
		t.Fatalf("playerMode=%q", row.PlayerMode)
	}
	if counts.Queries != 3 || counts.Fallbacks != 3 {
		t.Fatalf("counts=%+v", counts)
	}
}

func TestEnrichSingleFailureDoesNotAbort(t *testing.T) {
	gen := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Genre:") {
			return "", errors.New("quota exceeded")
		}
		if strings.Contains(prompt, "Description:") {
			return "A compact deck builder.", nil
		}
		return "Singleplayer", nil
	})

	var events []internal.RowEvent
	e, _ := silentEnricher(gen)
	e.OnEvent = func(ev internal.RowEvent) { events = append(events, ev) }

	out, counts := e.Enrich(context.Background(), titleDataset("Slay the Spire"))
	row := out.Rows[0]
	if row.Genre != FallbackGenre || row.ShortDescription != "A compact deck builder." || row.PlayerMode != ModeSingleplayer {
		t.Fatalf("row=%+v", row)
	}
	if counts.Fallbacks != 1 {
		t.Fatalf("fallbacks=%d", counts.Fallbacks)
	}
	if len(events) != 3 {
		t.Fatalf("events=%d", len(events))
	}
	if !events[0].Fallback || events[0].Err == nil {
		t.Fatalf("first event should carry the failure: %+v", events[0])
	}
	if events[1].Fallback || events[2].Fallback {
		t.Fatal("later events should not be fallbacks")
	}
}

func TestEnrichOrderingAndPauses(t *testing.T) {
	var prompts []string
	gen := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "Action", nil
	})

	e, pauses := silentEnricher(gen)
	e.Enrich(context.Background(), titleDataset("Doom", "Quake"))

	if len(prompts) != 6 {
		t.Fatalf("calls=%d", len(prompts))
	}
	wantOrder := []struct {
		title  string
		marker string
	}{
		{"Doom", "Genre:"}, {"Doom", "Description:"}, {"Doom", "Player Mode:"},
		{"Quake", "Genre:"}, {"Quake", "Description:"}, {"Quake", "Player Mode:"},
	}
	for i, want := range wantOrder {
		if !strings.Contains(prompts[i], want.title) || !strings.Contains(prompts[i], want.marker) {
			t.Fatalf("call %d: want %s/%s, got %q", i, want.title, want.marker, prompts[i])
		}
	}

	// One pause per call, the final call of the final row included.
	if len(*pauses) != 6 {
		t.Fatalf("pauses=%d", len(*pauses))
	}
	for _, d := range *pauses {
		if d != 5*time.Second {
			t.Fatalf("pause=%v", d)
		}
	}
}

func TestEnrichEmptyDataset(t *testing.T) {
	calls := 0
	gen := generatorFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		return "Action", nil
	})

	e, pauses := silentEnricher(gen)
	out, counts := e.Enrich(context.Background(), titleDataset())

	if calls != 0 || len(*pauses) != 0 {
		t.Fatalf("calls=%d pauses=%d", calls, len(*pauses))
	}
	if len(out.Rows) != 0 || counts.Queries != 0 {
		t.Fatalf("out=%+v counts=%+v", out, counts)
	}
	want := []string{"game_title", "genre", "short_description", "player_mode"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Fatalf("columns=%v", out.Columns)
	}
}

func TestEnrichPreservesOriginalColumns(t *testing.T) {
	ds := internal.Dataset{
		Source:  internal.SourceCSV,
		Columns: []string{"game_title", "release_year", "platform"},
		Rows: []internal.Row{
			{Index: 0, Title: "Hades", Values: []string{"Hades", "2020", "PC"}},
		},
	}
	gen := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return "Action", nil
	})

	e, _ := silentEnricher(gen)
	out, _ := e.Enrich(context.Background(), ds)

	want := []string{"game_title", "release_year", "platform", "genre", "short_description", "player_mode"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Fatalf("columns=%v", out.Columns)
	}
	if !reflect.DeepEqual(out.Rows[0].Values, ds.Rows[0].Values) {
		t.Fatalf("values changed: %v", out.Rows[0].Values)
	}
}

func TestEnrichDeterministicRerun(t *testing.T) {
	gen := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Genre:"):
			return "Racing", nil
		case strings.Contains(prompt, "Description:"):
			return "Arcade kart racing with friends.", nil
		}
		return "Both", nil
	})

	ds := titleDataset("Mario Kart 8", "Gran Turismo 7")
	e1, _ := silentEnricher(gen)
	e2, _ := silentEnricher(gen)

	first, _ := e1.Enrich(context.Background(), ds)
	second, _ := e2.Enrich(context.Background(), ds)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("reruns differ for a deterministic generator")
	}
}
