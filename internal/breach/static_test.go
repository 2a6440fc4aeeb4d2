package breach_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailveil/internal/breach"
	"mailveil/internal/domain"
)

func TestStatic_CaseInsensitiveMatch(t *testing.T) {
	c := breach.NewStatic("demo", "Me@Real.Test")

	report, err := c.Check(context.Background(), "me@real.test")
	require.NoError(t, err)
	assert.Equal(t, domain.BreachFound, report.Status)
	assert.Equal(t, "demo", report.Source)

	report, err = c.Check(context.Background(), "other@real.test")
	require.NoError(t, err)
	assert.Equal(t, domain.BreachClear, report.Status)
}

func TestDisabled_AlwaysTransient(t *testing.T) {
	_, err := breach.Disabled{}.Check(context.Background(), "me@real.test")
	assert.ErrorIs(t, err, domain.ErrTransient)
}
