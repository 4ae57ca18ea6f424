package domain

type UserGender string

const (
	UserGenderMale   UserGender = "MALE"
	UserGenderFemale UserGender = "FEMALE"
	UserGenderOther  UserGender = "OTHER"
)

type User struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Age         int        `json:"age,omitempty"`
	Gender      UserGender `json:"gender,omitempty"`
}

type CreateUserRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Age         int        `json:"age,omitempty"`
	Gender      UserGender `json:"gender,omitempty"`
}
