package domain_test

import (
	"testing"

	"recruitment-portal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string // "" means nil expected
	}{
		{"1990-05-20", "1990-05-20"},
		{"1990/05/20", "1990-05-20"},
		{"20-05-1990", "1990-05-20"},
		{"20/05/1990", "1990-05-20"},
		{"20 May 1990", "1990-05-20"},
		{"May 20, 1990", "1990-05-20"},
		{"1990-05-20T00:00:00Z", "1990-05-20"},
		{"1990-05-20 13:45:00", "1990-05-20"},
		{"  1990-05-20  ", "1990-05-20"},
		{"", ""},
		{"sometime last year", ""},
		{"31-02-1990", ""}, // no such day
	}

	for _, tc := range cases {
		got := domain.NormalizeDate(tc.in)
		if tc.want == "" {
			assert.Nil(t, got, "input %q", tc.in)
		} else {
			if assert.NotNil(t, got, "input %q", tc.in) {
				assert.Equal(t, tc.want, *got, "input %q", tc.in)
			}
		}
	}
}

func TestDocumentSetRefs(t *testing.T) {
	ds := &domain.DocumentSet{}

	for _, slot := range domain.NamedSlots() {
		assert.Empty(t, ds.Ref(slot))
		ds.SetRef(slot, "https://storage.example.com/"+string(slot))
		assert.Equal(t, "https://storage.example.com/"+string(slot), ds.Ref(slot))
	}

	// Replacement discards the previous reference.
	ds.SetRef(domain.SlotCV, "https://storage.example.com/cv-2")
	assert.Equal(t, "https://storage.example.com/cv-2", ds.Ref(domain.SlotCV))

	ds.AdditionalFiles = []domain.AdditionalFile{
		{Name: "a.pdf", URL: "https://storage.example.com/a"},
		{Name: "b.pdf", URL: "https://storage.example.com/b"},
	}
	assert.False(t, ds.RemoveAdditional("missing.pdf"))
	assert.True(t, ds.RemoveAdditional("a.pdf"))
	assert.Len(t, ds.AdditionalFiles, 1)
	assert.Equal(t, "b.pdf", ds.AdditionalFiles[0].Name)
}

func TestMissingRequiredFields(t *testing.T) {
	birth := "1990-05-20"
	complete := &domain.PersonalProfile{
		FirstName:    "Ali",
		GuardianName: "Raza Khan",
		Gender:       domain.GenderMale,
		BirthDate:    &birth,
		NationalID:   "35202-1234567-1",
		EmailAddress: "ali@example.com",
		MobileNumber: "+923001234567",
	}
	assert.Empty(t, complete.MissingRequiredFields())

	incomplete := &domain.PersonalProfile{FirstName: "Ali"}
	missing := incomplete.MissingRequiredFields()
	assert.Contains(t, missing, "guardian name")
	assert.Contains(t, missing, "date of birth")
	assert.Contains(t, missing, "mobile number")
	assert.NotContains(t, missing, "first name")

	// Last name and passport are optional for submission.
	assert.NotContains(t, missing, "last name")
}

func TestTradeAppliedFor(t *testing.T) {
	sel := &domain.PreferenceSelection{}
	assert.Equal(t, "", sel.TradeAppliedFor())

	sel.Trades = []string{"Welding", "Rigging"}
	assert.Equal(t, "Welding", sel.TradeAppliedFor())
}
