package models

import "wardstock/pkg/domain"

// User is a staff account as stored. Role is the raw stored value ("n",
// "manager", ...) and is echoed back to clients unchanged on login.
type User struct {
	ID       domain.UserID
	Name     string
	Role     string
	Password string
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// UserView is the public projection returned with a session token.
type UserView struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// LoginResult is the body returned by a successful login.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
