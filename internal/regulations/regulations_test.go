package regulations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestClassifyHome(t *testing.T) {
	set := Default()

	assert.Equal(t, HomeTypeNew, set.ClassifyHome(0))
	assert.Equal(t, HomeTypeNew, set.ClassifyHome(2))
	assert.Equal(t, HomeTypeSecondHand, set.ClassifyHome(2.0001))
	assert.Equal(t, HomeTypeSecondHand, set.ClassifyHome(40))
}

func TestIncomeThreshold(t *testing.T) {
	set := Default()

	assert.Equal(t, 120000.0, set.IncomeThreshold("MARRIED"))
	assert.Equal(t, 120000.0, set.IncomeThreshold("civil_partnership"))
	assert.Equal(t, 80000.0, set.IncomeThreshold("SINGLE"))
	assert.Equal(t, 80000.0, set.IncomeThreshold("COHABITING"))
}

func TestEnergyOrdinal(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"A1", 1},
		{"b3", 6},
		{" D1 ", 10},
		{"G", 15},
		{"Z9", UnknownEnergyOrdinal},
		{"", UnknownEnergyOrdinal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, EnergyOrdinal(tt.code))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("overrides keep unspecified defaults", func(t *testing.T) {
		set, err := Parse([]byte(`
version: IE-HTB-2026.0
max_property_price:
  new: 650000
grant:
  cap:
    new: 35000
property:
  excluded_areas: ["Inis Mor"]
`))
		require.NoError(t, err)

		assert.Equal(t, "IE-HTB-2026.0", set.Version)
		assert.Equal(t, 650000.0, set.MaxPropertyPrice.New)
		assert.Equal(t, 500000.0, set.MaxPropertyPrice.SecondHand)
		assert.Equal(t, 35000.0, set.Grant.Cap.New)
		assert.Equal(t, 20000.0, set.Grant.Cap.SecondHand)
		assert.Equal(t, []string{"Inis Mor"}, set.Property.ExcludedAreas)
		assert.Equal(t, 0.35, set.Lending.MaxDebtToIncome)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := Parse([]byte("max_price: 1\n"))
		require.Error(t, err)
	})

	t.Run("soft threshold above hard threshold is rejected", func(t *testing.T) {
		_, err := Parse([]byte("lending:\n  soft_debt_to_income: 0.4\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "soft_debt_to_income")
	})

	t.Run("unknown energy rating is rejected", func(t *testing.T) {
		_, err := Parse([]byte("property:\n  required_energy_rating:\n    new: A9\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "A9")
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "htb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: IE-HTB-test\n"), 0o600))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "IE-HTB-test", set.Version)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
