package auth

import (
	"golang.org/x/crypto/bcrypt"
)

func GenerateBcryptHashForString(inputString string) (string, error) {
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte(inputString), bcrypt.DefaultCost)
	return string(bcryptHash), err
}

func CompareBcryptHashAndString(hash, testString string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(testString))
	return err == nil
}
