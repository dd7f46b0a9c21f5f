package utils

import (
  "fmt"
  "strings"
  "golang.org/x/crypto/bcrypt"
)

func ParseInputString(s string) string {
  return strings.TrimSpace(s)
}

func HashPassword(password string) (string, error) {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return "", fmt.Errorf("Failed to hash password")
  }
  return string(hashedPassword), nil
}

func CheckPassword(hashedPassword, password string) bool {
  return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
