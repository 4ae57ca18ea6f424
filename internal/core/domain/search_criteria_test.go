package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchCriteria_Validate_RequiresDate(t *testing.T) {
	criteria := SearchCriteria{
		Mode:  SearchModeName,
		Query: "ivanov",
	}

	err := criteria.Validate()
	assert.True(t, IsErrorKind(err, ErrorKindValidationFailure))
}

func TestSearchCriteria_Validate_ActiveModeFieldRequired(t *testing.T) {
	base := SearchCriteria{Date: testDate()}

	err := base.WithMode(SearchModeName).Validate()
	assert.True(t, IsErrorKind(err, ErrorKindValidationFailure))

	err = base.WithMode(SearchModeSpecialization).Validate()
	assert.True(t, IsErrorKind(err, ErrorKindValidationFailure))

	assert.NoError(t, base.WithMode(SearchModeName).WithQuery("ivanov").Validate())
	assert.NoError(t, base.WithMode(SearchModeSpecialization).WithSpecialization("cardiology").Validate())
}

func TestSearchCriteria_Validate_UnknownMode(t *testing.T) {
	criteria := SearchCriteria{Mode: SearchMode("voice"), Date: testDate()}

	err := criteria.Validate()
	assert.True(t, IsErrorKind(err, ErrorKindValidationFailure))
}

// Поле неактивного режима не влияет на производный ключ:
// переключение режима туда-обратно возвращает тот же ключ
func TestSearchCriteria_CacheKey_IgnoresInactiveMode(t *testing.T) {
	criteria := SearchCriteria{
		Mode:           SearchModeSpecialization,
		Specialization: "Cardiology",
		Date:           testDate(),
		HospitalID:     int64Ptr(5),
	}

	withQuery := criteria.WithQuery("ivanov")
	assert.Equal(t, criteria.CacheKey(), withQuery.CacheKey())

	toggled := criteria.WithMode(SearchModeName).WithMode(SearchModeSpecialization)
	assert.Equal(t, criteria.CacheKey(), toggled.CacheKey())
}

func TestSearchCriteria_CacheKey_SpecializationModeMatchesSlotSearch(t *testing.T) {
	criteria := SearchCriteria{
		Mode:           SearchModeSpecialization,
		Specialization: "Cardiology",
		Date:           testDate(),
		HospitalID:     int64Ptr(5),
	}

	assert.Equal(t, SlotSearchKey(int64Ptr(5), nil, "Cardiology", testDate()), criteria.CacheKey())
}

func TestSearchCriteria_CacheKey_NameModeEmitsQuery(t *testing.T) {
	criteria := SearchCriteria{
		Mode:       SearchModeName,
		Query:      " Ivanov ",
		Date:       testDate(),
		HospitalID: int64Ptr(5),
	}

	assert.Equal(t, CacheKey("slots|search|date=2024-02-10|hospital=5|q=ivanov"), criteria.CacheKey())
}

func TestSearchCriteria_SlotRequest_NameModeDropsSpecialization(t *testing.T) {
	criteria := SearchCriteria{
		Mode:           SearchModeName,
		Query:          "ivanov",
		Specialization: "cardiology",
		Date:           testDate(),
	}

	assert.Empty(t, criteria.SlotRequest().Specialization)

	spec := criteria.WithMode(SearchModeSpecialization)
	assert.Equal(t, "cardiology", spec.SlotRequest().Specialization)
}
