package model

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Credentials is the body of /login and /signup.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
