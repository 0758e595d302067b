package user

import "time"

type Profile struct {
	UserID      string    `gorm:"primaryKey"`
	DisplayName *string   `gorm:"type:text"`
	Email       *string   `gorm:"type:text"`
	AvatarURL   *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

// ProfileInput carries the identity provider's view of the user. Empty
// fields leave the stored value untouched.
type ProfileInput struct {
	UserID      string
	DisplayName string
	Email       string
	AvatarURL   string
}
