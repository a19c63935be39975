package contacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneIndianVariants(t *testing.T) {
	// all spellings of the same local number canonicalize identically
	assert.Equal(t, "+919876543210", NormalizePhone("9876543210"))
	assert.Equal(t, "+919876543210", NormalizePhone("09876543210"))
	assert.Equal(t, "+919876543210", NormalizePhone("+919876543210"))
	assert.Equal(t, "+919876543210", NormalizePhone("91 98765 43210"))
	assert.Equal(t, "+919876543210", NormalizePhone("(+91) 98765-43210"))
}

func TestNormalizePhoneKeepsForeignNumbers(t *testing.T) {
	assert.Equal(t, "+14155552671", NormalizePhone("+14155552671"))
	assert.Equal(t, "+442071838750", NormalizePhone("+44 20 7183 8750"))
}

func TestNormalizePhoneRejectsShortInput(t *testing.T) {
	assert.Equal(t, "", NormalizePhone(""))
	assert.Equal(t, "", NormalizePhone("badphone"))
	assert.Equal(t, "", NormalizePhone("12345"))
	assert.Equal(t, "", NormalizePhone("0123"))
	assert.Equal(t, "", NormalizePhone("987654321")) // 9 digits
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("john@example.com"))
	assert.True(t, ValidEmail("a.b+c@sub.domain.co"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail("spaces in@example.com"))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"customer", "vip"}, SplitTags(`"customer,vip"`))
	assert.Equal(t, []string{"lead"}, SplitTags("lead"))
	assert.Equal(t, []string{"a", "b"}, SplitTags(" a , b , a "))
	assert.Nil(t, SplitTags(""))
	assert.Nil(t, SplitTags(`""`))
}

func TestUnionTags(t *testing.T) {
	got := UnionTags([]string{"vip", "customer"}, []string{"customer", "new"}, nil)
	assert.Equal(t, []string{"vip", "customer", "new"}, got)
}
