package domain

// BreachStatus is the outcome of a breach-corpus lookup.
type BreachStatus string

const (
	// BreachFound means the email appeared in the corpus.
	BreachFound BreachStatus = "found"
	// BreachClear means the corpus was consulted and had no hit.
	BreachClear BreachStatus = "clear"
	// BreachUnknown means the lookup could not be completed. It is never
	// collapsed into BreachClear.
	BreachUnknown BreachStatus = "unknown"
)

// BreachReport is the answer to a breach check for one email.
type BreachReport struct {
	Email  string       `json:"email"`
	Status BreachStatus `json:"status"`
	Source string       `json:"source,omitempty"`
}
