package internal

type DatasetSource string

const (
	SourceCSV  DatasetSource = "csv"
	SourceXLSX DatasetSource = "xlsx"
	SourceHTML DatasetSource = "html"
	SourcePDF  DatasetSource = "pdf"
)

// Row is one input record. Values holds the original cells aligned with
// Dataset.Columns; Title is the cell of the detected title column.
type Row struct {
	Index  int
	Title  string
	Values []string
}

type Dataset struct {
	Source  DatasetSource
	Columns []string
	Rows    []Row
}

// AttributeKind is one of the three derived fields. The constant value is
// also the output column name.
type AttributeKind string

const (
	KindGenre       AttributeKind = "genre"
	KindDescription AttributeKind = "short_description"
	KindPlayerMode  AttributeKind = "player_mode"
)

// Kinds returns the derived attributes in generation and column order.
func Kinds() []AttributeKind {
	return []AttributeKind{KindGenre, KindDescription, KindPlayerMode}
}

// QueryResult carries one raw model answer, or the failure standing in for it.
type QueryResult struct {
	Text string
	Err  error
}

type EnrichedRow struct {
	Row
	Genre            string
	ShortDescription string
	PlayerMode       string
}

func (r *EnrichedRow) Set(kind AttributeKind, value string) {
	switch kind {
	case KindGenre:
		r.Genre = value
	case KindDescription:
		r.ShortDescription = value
	case KindPlayerMode:
		r.PlayerMode = value
	}
}

func (r EnrichedRow) Get(kind AttributeKind) string {
	switch kind {
	case KindGenre:
		return r.Genre
	case KindDescription:
		return r.ShortDescription
	case KindPlayerMode:
		return r.PlayerMode
	}
	return ""
}

type EnrichedDataset struct {
	Source  DatasetSource
	Columns []string
	Rows    []EnrichedRow
}

type EnrichCounts struct {
	Rows      int
	Queries   int
	Fallbacks int
}

// RowEvent reports one resolved attribute to the progress observer.
type RowEvent struct {
	Index    int
	Total    int
	Title    string
	Kind     AttributeKind
	Value    string
	Fallback bool
	Err      error
}

type RunRecord struct {
	ID        string
	InputRef  string
	OutputRef string
	Model     string
	RowCount  int
	CreatedAt string
}
