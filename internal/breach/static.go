package breach

import (
	"context"
	"fmt"
	"strings"

	"mailveil/internal/domain"
)

// Static answers from a fixed in-memory corpus, matched case-insensitively.
// It exists for tests and demos; it is not a real lookup.
type Static struct {
	source string
	corpus map[string]struct{}
}

// NewStatic builds a checker over the given emails, labeled with source.
func NewStatic(source string, emails ...string) *Static {
	corpus := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		corpus[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &Static{source: source, corpus: corpus}
}

// Check reports found when email is in the corpus, clear otherwise.
func (s *Static) Check(_ context.Context, email string) (domain.BreachReport, error) {
	report := domain.BreachReport{Email: email, Status: domain.BreachClear, Source: s.source}
	if _, ok := s.corpus[strings.ToLower(strings.TrimSpace(email))]; ok {
		report.Status = domain.BreachFound
	}
	return report, nil
}

// Disabled is the checker wired when no breach service is configured. It
// always fails transiently so results surface as unknown instead of a
// false "clear".
type Disabled struct{}

// Check always fails.
func (Disabled) Check(_ context.Context, email string) (domain.BreachReport, error) {
	return domain.BreachReport{}, fmt.Errorf("%w: breach checking is not configured", domain.ErrTransient)
}

// Compile-time assertions.
var (
	_ domain.BreachChecker = (*Static)(nil)
	_ domain.BreachChecker = Disabled{}
)
