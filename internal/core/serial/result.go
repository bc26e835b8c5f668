package serial

// Result is the outcome of one allocation. It is a plain value: copy it
// onto the owning record, never store it on its own.
type Result struct {
	Serial string `json:"serial"`
	Series string `json:"series"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Number uint64 `json:"number"`
}
