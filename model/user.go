package model

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RolePetugas  Role = "petugas"
	RolePeminjam Role = "peminjam"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePetugas, RolePeminjam:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	NamaLengkap  string    `json:"nama_lengkap"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	NamaLengkap string `json:"nama_lengkap" validate:"required"`
}

// LoginReq represents login payload; username or email plus password.
// swagger:model LoginReq
type LoginReq struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserReq struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	NamaLengkap string `json:"nama_lengkap" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=admin petugas peminjam"`
}

type UpdateUserReq struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
	NamaLengkap *string `json:"nama_lengkap"`
	Role        *string `json:"role" validate:"omitempty,oneof=admin petugas peminjam"`
	IsActive    *bool   `json:"is_active"`
}
