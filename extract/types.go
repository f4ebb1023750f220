package extract

// RecordView is the reporting form of a Record.
type RecordView struct {
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
	Depth  uint32 `json:"depth"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	// Call and NameSpan are byte spans, as in the flat encoding.
	Call     Span `json:"call"`
	NameSpan Span `json:"name_span"`
}

// FileResult holds the declarations discovered in one file.
type FileResult struct {
	File     string       `json:"file"`
	Language string       `json:"language"`
	Records  []RecordView `json:"records"`
	Flat     []uint32     `json:"flat,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string
}
