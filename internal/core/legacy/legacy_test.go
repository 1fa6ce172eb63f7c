package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kin/internal/core/calendar"
	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
)

func fullRow(overrides map[string]string) map[string]string {
	raw := map[string]string{
		"Name": "Alice", "Aka": "", "Sex": "1", "Born": "1950-01-01", "Died": "0",
		"Dad": "", "Mom": "", "Relation": "0", "Spouse": "", "Married": "",
		"Order": "1", "Href": "", "Status": "0",
	}
	for k, v := range overrides {
		raw[k] = v
	}
	return raw
}

func TestValidateHeader(t *testing.T) {
	assert.NoError(t, ValidateHeader(RequiredFields))

	err := ValidateHeader([]string{"Name", "Aka", "Sex", "Born", "Died", "Dad", "Mom", "Relation", "Spouse", "Married", "Href"})
	require.Error(t, err)
	assert.True(t, outcome.Is(err, outcome.KindValidation))
	assert.Contains(t, err.Error(), "Order, Status")

	assert.Equal(t, []string{"Name"}, MissingFields([]string{"name", "Aka", "Sex", "Born", "Died", "Dad", "Mom", "Relation", "Spouse", "Married", "Order", "Href", "Status"}),
		"field names are case-sensitive")
}

func TestNormalizeRowDefaults(t *testing.T) {
	r, err := NormalizeRow(1, fullRow(map[string]string{"Order": "x", "Status": "", "Relation": " 2 ", "Aka": "  Al  "}))
	require.NoError(t, err)

	assert.Equal(t, calendar.Unknown, r.Died)
	assert.Equal(t, calendar.Unknown, r.Married)
	assert.Equal(t, 0, r.Order, "unparsable integers default to 0")
	assert.Equal(t, StatusSingle, r.Status)
	assert.Equal(t, LinkStep, r.Relation)
	assert.Equal(t, "Al", r.Aka)
	require.NotNil(t, r.Sex)
	assert.Equal(t, member.LegacyFemale, *r.Sex)
}

func TestNormalizeRowAbsentFields(t *testing.T) {
	r, err := NormalizeRow(3, map[string]string{"Name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, calendar.Unknown, r.Born)
	assert.Nil(t, r.Sex)
	assert.Equal(t, 0, r.Order)
}

func TestNormalizeRowRejects(t *testing.T) {
	_, err := NormalizeRow(4, fullRow(map[string]string{"Name": "  "}))
	assert.True(t, outcome.Is(err, outcome.KindValidation))

	_, err = NormalizeRow(5, fullRow(map[string]string{"Born": "circa 1900"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 5: Born")
}

func TestValuesDropEmptyStrings(t *testing.T) {
	r, err := NormalizeRow(2, fullRow(map[string]string{"Dad": "Carl"}))
	require.NoError(t, err)

	v := r.Values()
	assert.Equal(t, "Carl", v["dad"])
	assert.NotContains(t, v, "mom")
	assert.NotContains(t, v, "aka")
	assert.NotContains(t, v, "href")
	assert.Equal(t, 1, v["sex"])
	assert.Equal(t, 2, v["row_number"])
}

func TestPlanSex(t *testing.T) {
	inlawMale := member.LegacyInlawMale
	unknown := member.LegacySex(7)

	assert.Equal(t, SexUpdate{Sex: member.SexMale, Mapped: true}, PlanSex(Row{Sex: &inlawMale}))
	assert.False(t, PlanSex(Row{Sex: &unknown}).Mapped)
	assert.False(t, PlanSex(Row{}).Mapped)
}

func TestPartnerAndParentTypes(t *testing.T) {
	typ, ok := PartnerType(Row{Status: StatusTogether})
	assert.True(t, ok)
	assert.Equal(t, relation.SpouseDomestic, typ)

	_, ok = PartnerType(Row{Status: StatusSingle})
	assert.False(t, ok)

	typ, ok = ParentType(Row{Relation: LinkBiological})
	assert.True(t, ok)
	assert.Equal(t, relation.Parent, typ)

	_, ok = ParentType(Row{Relation: LinkAdopted})
	assert.False(t, ok)

	assert.True(t, Row{Status: StatusMarried, Spouse: "Yan"}.HasPartner())
	assert.False(t, Row{Status: StatusMarried, Spouse: "?"}.HasPartner())
	assert.True(t, Row{Mom: "Dana"}.HasParents())
	assert.False(t, Row{Dad: "", Mom: "unknown"}.HasParents())
}
