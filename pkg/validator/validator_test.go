package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     uuid.UUID       `validate:"uuid_required"`
	State  string          `validate:"item_state"`
	Amount decimal.Decimal `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	ok := sample{ID: uuid.New(), State: "in_progress", Amount: decimal.NewFromInt(10)}
	assert.Empty(t, ValidateStruct(ok))

	bad := sample{State: "served", Amount: decimal.NewFromInt(-1)}
	errs := ValidateStruct(bad)
	require.Len(t, errs, 3)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "uuid_required", tags["sample.ID"])
	assert.Equal(t, "item_state", tags["sample.State"])
	assert.Equal(t, "gte", tags["sample.Amount"])
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	errs := ValidateStruct(42)
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid", errs[0].Tag)
}
