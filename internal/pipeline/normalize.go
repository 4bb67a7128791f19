package pipeline

import (
	"strings"

	"gamedex/internal"
	"gamedex/internal/util"
)

const (
	FallbackGenre       = "Unknown"
	FallbackDescription = "A video game experience."
	FallbackPlayerMode  = "Both"

	ModeSingleplayer = "Singleplayer"
	ModeMultiplayer  = "Multiplayer"
	ModeBoth         = "Both"

	descriptionWordLimit = 30
	descriptionWordKeep  = 29
)

// Fallback returns the value recorded for kind when its query produced
// nothing usable.
func Fallback(kind internal.AttributeKind) string {
	switch kind {
	case internal.KindGenre:
		return FallbackGenre
	case internal.KindDescription:
		return FallbackDescription
	case internal.KindPlayerMode:
		return FallbackPlayerMode
	}
	return ""
}

// Normalize maps one query result to the well-formed value for kind. A failed
// query yields the kind's fallback; normalization never fails itself.
func Normalize(kind internal.AttributeKind, res internal.QueryResult) string {
	if res.Err != nil {
		return Fallback(kind)
	}
	switch kind {
	case internal.KindGenre:
		return NormalizeGenre(res.Text)
	case internal.KindDescription:
		return NormalizeDescription(res.Text)
	case internal.KindPlayerMode:
		return NormalizePlayerMode(res.Text)
	}
	return ""
}

// NormalizeGenre keeps the first token of the answer; models sometimes
// append a trailing clause. The token is not checked against the genre
// vocabulary in the prompt.
func NormalizeGenre(raw string) string {
	return util.FirstToken(raw)
}

// NormalizeDescription caps the answer at 30 words, closing a truncated
// description with a period.
func NormalizeDescription(raw string) string {
	text, truncated := util.TruncateWords(raw, descriptionWordLimit, descriptionWordKeep)
	if truncated {
		return text + "."
	}
	return text
}

// NormalizePlayerMode resolves the answer to one of the three canonical
// labels. Substring rules run first, in order; "single" wins over "multi",
// and "both" anywhere demotes a "multi" mention. Anything unrecognized
// resolves to Both.
func NormalizePlayerMode(raw string) string {
	mode := strings.TrimSpace(raw)
	lower := strings.ToLower(mode)

	switch {
	case strings.Contains(lower, "single"):
		return ModeSingleplayer
	case strings.Contains(lower, "multi") && !strings.Contains(lower, "both"):
		return ModeMultiplayer
	case strings.Contains(lower, "both"):
		return ModeBoth
	}

	switch mode {
	case ModeSingleplayer, ModeMultiplayer, ModeBoth:
		return mode
	}

	return ModeBoth
}
