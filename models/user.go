package models

// UserName mirrors the name block of the seed users file.
type UserName struct {
	Title string `json:"title,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

// Login holds the static credentials of a seeded user.
type Login struct {
	UUID     string `json:"uuid,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is a seeded account. Cart is only read at load time; afterwards the
// cart lives in the cart repository.
type User struct {
	Gender string     `json:"gender,omitempty"`
	Name   UserName   `json:"name"`
	Email  string     `json:"email"`
	Login  Login      `json:"login"`
	Cart   []CartItem `json:"cart"`
}
