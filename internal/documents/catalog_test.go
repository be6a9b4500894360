package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htb-gateway/internal/regulations"
)

func ids(reqs []Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.ID
	}
	return out
}

func TestRequired_EmployedSecondHand(t *testing.T) {
	issued := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	reqs := Default().Required(Profile{
		HomeType:       regulations.HomeTypeSecondHand,
		EmploymentType: "EMPLOYED",
		Eligible:       true,
	}, issued)

	assert.Equal(t, []string{"salary_cert", "bank_statements", "mortgage_approval", "contracts_sale", "photo_id", "pps_cert"}, ids(reqs))
	require.NotEmpty(t, reqs)
	assert.Equal(t, issued.AddDate(0, 0, 14), reqs[0].DueBy)
	assert.Equal(t, issued.AddDate(0, 0, 7), reqs[4].DueBy)
}

func TestRequired_SelfEmployedNewHomeAddsTaxAndBER(t *testing.T) {
	reqs := Default().Required(Profile{
		HomeType:       regulations.HomeTypeNew,
		EmploymentType: "SELF_EMPLOYED",
		Eligible:       true,
	}, time.Now())

	assert.Contains(t, ids(reqs), "tax_returns")
	assert.Contains(t, ids(reqs), "ber_cert")
}

func TestRequired_IneligibleGetsNothing(t *testing.T) {
	reqs := Default().Required(Profile{HomeType: regulations.HomeTypeNew, Eligible: false}, time.Now())
	assert.NotNil(t, reqs)
	assert.Empty(t, reqs)
}

func TestChecklist_IgnoresEligibility(t *testing.T) {
	templates := Default().Checklist(Profile{HomeType: regulations.HomeTypeSecondHand, EmploymentType: "EMPLOYED"})
	assert.Len(t, templates, 6)
}
