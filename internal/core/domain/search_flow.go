package domain

import (
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

// FlowState - линейный поток выбора: больница -> врач -> дата -> слот.
// Каждый шаг сужает фильтр следующего. Между шагами передаются только
// идентификаторы и подписи для предварительного текста, полные сущности
// следующий шаг перечитывает через свой ключ кэша.
type FlowState struct {
	HospitalID   *int64
	HospitalName string

	DoctorID             *int64
	DoctorName           string
	DoctorSpecialization string

	Specialization string
	Date           json_types.Date
	SlotID         *int64
}

// SelectHospital начинает поток заново от выбранной больницы
func (f FlowState) SelectHospital(hospitalID int64, name string) FlowState {
	return FlowState{
		HospitalID:   &hospitalID,
		HospitalName: name,
		Date:         f.Date,
	}
}

func (f FlowState) SelectSpecialization(specialization string) FlowState {
	f.Specialization = specialization
	f.DoctorID = nil
	f.DoctorName = ""
	f.DoctorSpecialization = ""
	f.SlotID = nil
	return f
}

func (f FlowState) SelectDoctor(doctorID int64, name, specialization string) FlowState {
	f.DoctorID = &doctorID
	f.DoctorName = name
	f.DoctorSpecialization = specialization
	f.SlotID = nil
	return f
}

// SelectDate - одна логическая дата на весь поток,
// независимо от длины горизонта на конкретном шаге
func (f FlowState) SelectDate(date json_types.Date) FlowState {
	f.Date = date
	f.SlotID = nil
	return f
}

func (f FlowState) SelectSlot(slotID int64) FlowState {
	f.SlotID = &slotID
	return f
}

// Back снимает самый глубокий выбор. Кэш не трогаем:
// обратная навигация живет на текущей свежести записей.
func (f FlowState) Back() FlowState {
	switch {
	case f.SlotID != nil:
		f.SlotID = nil
	case f.DoctorID != nil:
		f.DoctorID = nil
		f.DoctorName = ""
		f.DoctorSpecialization = ""
	case f.Specialization != "":
		f.Specialization = ""
	case f.HospitalID != nil:
		f.HospitalID = nil
		f.HospitalName = ""
	}
	return f
}

// DoctorScoped - выбран ли уже конкретный врач
func (f FlowState) DoctorScoped() bool {
	return f.DoctorID != nil
}

// Criteria собирает критерии поиска слотов с учетом сужения потока
func (f FlowState) Criteria(mode SearchMode, query string) SearchCriteria {
	specialization := f.Specialization
	if f.DoctorSpecialization != "" {
		specialization = f.DoctorSpecialization
	}

	return SearchCriteria{
		Mode:           mode,
		Query:          query,
		Specialization: specialization,
		Date:           f.Date,
		HospitalID:     f.HospitalID,
		DoctorID:       f.DoctorID,
	}
}
