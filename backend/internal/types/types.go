package types

// Shared types used across csvops, storage and the session.

// TableData is the serialized shape of a table (JSON files, previews).
type TableData struct {
	HasHeader bool       `json:"hasHeader"`
	Header    []string   `json:"header"`
	Rows      [][]string `json:"rows"`
}

// StageSummary reports what one filter stage did to the table.
type StageSummary struct {
	Stage        string `json:"stage"`
	Processed    int    `json:"processed"`
	Kept         int    `json:"kept"`
	Dropped      int    `json:"dropped"`
	SkippedCells int    `json:"skipped_cells"` // cells that failed to parse and were left out
	BlankCells   int    `json:"blank_cells"`
	Coerced      int    `json:"coerced"`    // circulation cells read as 0
	Degenerate   int    `json:"degenerate"` // date/circulation pairs with no elapsed years
	DurationMS   int64  `json:"durationMs"`
}

// Choice is one numbered entry of a menu shown to the user.
type Choice struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
