package domain

import (
	"fmt"
	"strings"

	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

// CacheKey - канонический ключ кэша, сегменты через "|".
// Два логически одинаковых запроса всегда дают один и тот же ключ:
// значения фильтров нормализуются, порядок полей фиксированный.
type CacheKey string

type CacheKeyPrefix string

const keySeparator = "|"

// CacheKind - вид данных под ключом, определяет окно устаревания
type CacheKind string

const (
	CacheKindHospitals       CacheKind = "hospitals"
	CacheKindHospitalSearch  CacheKind = "hospital_search"
	CacheKindHospitalDetail  CacheKind = "hospital_detail"
	CacheKindDoctors         CacheKind = "doctors"
	CacheKindDoctorDetail    CacheKind = "doctor_detail"
	CacheKindSpecializations CacheKind = "specializations"
	CacheKindSlots           CacheKind = "slots"
	CacheKindBookings        CacheKind = "bookings"
	CacheKindBookingsPast    CacheKind = "bookings_past"
	CacheKindBookingDetail   CacheKind = "booking_detail"
	CacheKindUsers           CacheKind = "users"
)

func joinKey(segments ...string) CacheKey {
	return CacheKey(strings.Join(segments, keySeparator))
}

func canonical(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Ключи справочника больниц

func HospitalsAllKey() CacheKey {
	return joinKey("hospitals", "all")
}

func HospitalsCityKey(city string) CacheKey {
	return joinKey("hospitals", "city", canonical(city))
}

func HospitalSearchKey(term string) CacheKey {
	return joinKey("hospitals", "search", canonical(term))
}

func HospitalDetailKey(hospitalID int64) CacheKey {
	return joinKey("hospitals", "detail", fmt.Sprintf("%d", hospitalID))
}

// Ключи справочника врачей

func DoctorsKey(hospitalID *int64, specialization string) CacheKey {
	segments := []string{"doctors", "list"}
	if hospitalID != nil {
		segments = append(segments, fmt.Sprintf("hospital=%d", *hospitalID))
	}
	if spec := canonical(specialization); spec != "" {
		segments = append(segments, "spec="+spec)
	}
	return joinKey(segments...)
}

func DoctorDetailKey(doctorID int64) CacheKey {
	return joinKey("doctors", "detail", fmt.Sprintf("%d", doctorID))
}

func SpecializationsKey() CacheKey {
	return joinKey("doctors", "specializations")
}

// Ключи слотов

func SlotSearchKey(hospitalID, doctorID *int64, specialization string, date json_types.Date) CacheKey {
	// Порядок сегментов фиксированный: date, doctor, hospital, spec
	segments := []string{"slots", "search", "date=" + date.String()}
	if doctorID != nil {
		segments = append(segments, fmt.Sprintf("doctor=%d", *doctorID))
	}
	if hospitalID != nil {
		segments = append(segments, fmt.Sprintf("hospital=%d", *hospitalID))
	}
	if spec := canonical(specialization); spec != "" {
		segments = append(segments, "spec="+spec)
	}
	return joinKey(segments...)
}

func DoctorSlotsKey(doctorID int64) CacheKey {
	return joinKey("slots", "doctor", fmt.Sprintf("%d", doctorID))
}

// Ключи броней пользователя

func UserBookingsKey(userID int64) CacheKey {
	return joinKey("bookings", "user", fmt.Sprintf("%d", userID))
}

func UpcomingBookingsKey(userID int64) CacheKey {
	return joinKey("bookings", "upcoming", fmt.Sprintf("%d", userID))
}

func PastBookingsKey(userID int64) CacheKey {
	return joinKey("bookings", "past", fmt.Sprintf("%d", userID))
}

func BookingDetailKey(bookingID int64) CacheKey {
	return joinKey("bookings", "detail", fmt.Sprintf("%d", bookingID))
}

// Ключи пользователей

func UserDetailKey(userID int64) CacheKey {
	return joinKey("users", "detail", fmt.Sprintf("%d", userID))
}

func UserByEmailKey(email string) CacheKey {
	return joinKey("users", "email", canonical(email))
}

func UsersAllKey() CacheKey {
	return joinKey("users", "all")
}

// Префиксы для каскадной инвалидации

func SlotsPrefix() CacheKeyPrefix {
	return CacheKeyPrefix("slots")
}

func UserBookingsPrefix(userID int64) CacheKeyPrefix {
	return CacheKeyPrefix(UserBookingsKey(userID))
}

func UpcomingBookingsPrefix(userID int64) CacheKeyPrefix {
	return CacheKeyPrefix(UpcomingBookingsKey(userID))
}

func PastBookingsPrefix(userID int64) CacheKeyPrefix {
	return CacheKeyPrefix(PastBookingsKey(userID))
}

// HasPrefix сравнивает по границам сегментов:
// префикс "slots" покрывает "slots|search|...", но не "slotsearch|...".
// Пустой префикс покрывает все ключи.
func (k CacheKey) HasPrefix(prefix CacheKeyPrefix) bool {
	if prefix == "" || string(k) == string(prefix) {
		return true
	}
	return strings.HasPrefix(string(k), string(prefix)+keySeparator)
}

// Kind определяет вид данных по сегментам ключа
func (k CacheKey) Kind() CacheKind {
	segments := strings.Split(string(k), keySeparator)

	switch segments[0] {
	case "hospitals":
		if len(segments) > 1 {
			switch segments[1] {
			case "search":
				return CacheKindHospitalSearch
			case "detail":
				return CacheKindHospitalDetail
			}
		}
		return CacheKindHospitals
	case "doctors":
		if len(segments) > 1 {
			switch segments[1] {
			case "detail":
				return CacheKindDoctorDetail
			case "specializations":
				return CacheKindSpecializations
			}
		}
		return CacheKindDoctors
	case "slots":
		return CacheKindSlots
	case "bookings":
		if len(segments) > 1 {
			switch segments[1] {
			case "past":
				return CacheKindBookingsPast
			case "detail":
				return CacheKindBookingDetail
			}
		}
		return CacheKindBookings
	case "users":
		return CacheKindUsers
	}

	return CacheKind(segments[0])
}
