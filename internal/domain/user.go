package domain

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var userSchema = &Schema{
	Kind: KindUser,
	Fields: []Field{
		{Name: "email", Type: FieldString},
		{Name: "password", Type: FieldString},
		{Name: "first_name", Type: FieldString},
		{Name: "last_name", Type: FieldString},
	},
}

// User is an account holder. The password attribute only ever holds a
// bcrypt hash.
type User struct {
	Base
}

func newUser() *User {
	return &User{Base: newBase(userSchema)}
}

func (u *User) Email() string { return u.stringAttr("email") }
func (u *User) FirstName() string { return u.stringAttr("first_name") }
func (u *User) LastName() string { return u.stringAttr("last_name") }

// Set hashes password assignments before storing them
func (u *User) Set(name string, value any) error {
	if name != "password" {
		return u.Base.Set(name, value)
	}
	plain, err := coerceString(value)
	if err != nil {
		return fmt.Errorf("User.password: %w", err)
	}
	return u.SetPassword(plain.(string))
}

// SetPassword stores the bcrypt hash of plain. An empty password clears it.
func (u *User) SetPassword(plain string) error {
	if plain == "" {
		u.attrs["password"] = ""
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.attrs["password"] = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash
func (u *User) CheckPassword(plain string) bool {
	hash := u.stringAttr("password")
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
