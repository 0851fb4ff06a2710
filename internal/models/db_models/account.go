package db_models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	BaseModel
	Name         string `gorm:"size:100"`
	Email        string `gorm:"size:254;unique"`
	Phone        string `gorm:"size:32"`
	PasswordHash string
	Role         string `gorm:"size:16;default:user"`

	Bookings []Booking
}
