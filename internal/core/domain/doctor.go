package domain

// DoctorSummary - краткая форма врача, которую бэкенд встраивает в слоты и брони
type DoctorSummary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type Doctor struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	Qualifications  string   `json:"qualifications,omitempty"`
	ExperienceYears int      `json:"experienceYears,omitempty"`
	ConsultationFee float64  `json:"consultationFee,omitempty"`
	Hospital        Hospital `json:"hospital"`
}
