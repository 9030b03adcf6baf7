package models

import "time"

// Avatar describes the blob store resource backing a user's profile image.
type Avatar struct {
	PublicID string `json:"public_id" gorm:"column:avatar_public_id;type:varchar(255)"`
	URL      string `json:"url" gorm:"column:avatar_url;type:varchar(512)"`
}

// Address is a delivery address owned by a single user. At most one address
// per AddressType may exist on a user; the check happens at mutation time.
type Address struct {
	ID          string `json:"id" validate:"omitempty,uuid"`
	AddressType string `json:"address_type" validate:"required,max=50"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Country     string `json:"country"`
	ZipCode     string `json:"zip_code"`
	PhoneNumber string `json:"phone_number"`
}

// User represents a user of the store.
// Addresses are stored as a single JSON column so that one address mutation
// is a single row write and insertion order is preserved.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(30)"`
	Avatar      Avatar    `json:"avatar" gorm:"embedded"`
	Addresses   []Address `json:"addresses" gorm:"serializer:json;type:text"`
	Role        string    `json:"role" gorm:"type:varchar(20);default:user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleAdmin is the privileged role tag checked by the admin-only routes.
const RoleAdmin = "Admin"
