package models

import "time"

// User is an account signed in through Google. The Google refresh token is
// sealed with an AEAD before it is stored; the plaintext never touches the
// database.
type User struct {
	ID                 string    `bson:"id" json:"id"`
	Email              string    `bson:"email" json:"email"`
	Name               string    `bson:"name" json:"name"`
	SealedRefreshToken string    `bson:"sealedRefreshToken" json:"-"`
	CalendarLinked     bool      `bson:"calendarLinked" json:"calendar_linked"`
	CreatedAt          time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updated_at"`
}
