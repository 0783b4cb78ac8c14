package degiro

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	// EnvUsername and EnvPassword hold the trading site credentials.
	// They can live in the environment or in a .env file.
	EnvUsername = "STOCKWATCH_USERNAME"
	EnvPassword = "STOCKWATCH_PASSWORD"
)

// Credentials are the login secrets for the trading site.
type Credentials struct {
	Username string
	Password string
}

// LoadCredentials reads the credentials from the environment, falling
// back to a .env file in the working directory.
func LoadCredentials() (Credentials, error) {
	godotenv.Load()
	c := Credentials{
		Username: os.Getenv(EnvUsername),
		Password: os.Getenv(EnvPassword),
	}
	if c.Username == "" || c.Password == "" {
		return Credentials{}, fmt.Errorf("no credentials found: set %s and %s in the environment or a .env file", EnvUsername, EnvPassword)
	}
	return c, nil
}

// Session identifies an authenticated connection to the trading site.
type Session struct {
	Account   int
	SessionID string
}

// NewSession logs in with the credentials and returns a session usable by
// the report downloads. goauth is the one time password from the
// authenticator app, empty if the account has none.
func NewSession(c Credentials, goauth string) (Session, error) {
	account, id, err := Login(c.Username, c.Password, goauth)
	if err != nil {
		return Session{}, err
	}
	return Session{Account: account, SessionID: id}, nil
}

// Valid reports whether the session fields look usable.
func (s Session) Valid() bool {
	return IsValidAccountID(s.Account) && IsValidSessionID(s.SessionID)
}
