package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestQuoteFromDistance(t *testing.T) {
	out, err := run(t, "quote", "--tariff", "", "--service", "standard", "--miles", "10", "--wait", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "10.00 mi at £2.25/mi = £22.50")
	assert.Contains(t, out, "waiting:   5 min = £1.50")
	assert.Contains(t, out, "total:     £24.00")
}

func TestQuoteMinimumFare(t *testing.T) {
	out, err := run(t, "quote", "--tariff", "", "--service", "standard", "--miles", "2", "--wait", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "minimum:   £10.00 applied")
	assert.Contains(t, out, "total:     £10.00")
}

func TestQuoteUnknownService(t *testing.T) {
	_, err := run(t, "quote", "--tariff", "", "--service", "hovercraft", "--miles", "3")
	assert.Error(t, err)
}

func TestTariffListsServices(t *testing.T) {
	out, err := run(t, "tariff", "--tariff", "")
	require.NoError(t, err)
	assert.Contains(t, out, "standard")
	assert.Contains(t, out, "<=4mi £2.50, <=20mi £2.25, rest £2.00")
}
