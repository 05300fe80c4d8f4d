package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chatbot-backend/config"
	"chatbot-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// GenerateJWT generates a new JWT token for the given dashboard user
func GenerateJWT(ID int, username, role string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := models.Claims{
		ID:       ID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func ValidateJWT(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*models.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func Authenticate(username, password string) (*models.User, error) {
	var user models.User

	query := `SELECT id, username, password, role FROM users WHERE username = $1`
	err := config.DB.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.Password, &user.Role)
	if err == sql.ErrNoRows {
		return nil, errors.New("user not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid password")
	}

	return &user, nil
}

// CreateUser creates a new dashboard account, hashes the password, and
// returns the created row
func CreateUser(username, password, role string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		config.Log.Error("Error hashing password: ", err)
		return models.User{}, errors.New("failed to hash password")
	}

	var createdUser models.User
	query := `INSERT INTO "users" (username, password, role)
			  VALUES ($1, $2, $3)
			  RETURNING id, username, role`

	err = config.DB.QueryRow(query, username, string(hashedPassword), role).
		Scan(&createdUser.ID, &createdUser.Username, &createdUser.Role)

	if err != nil {
		config.Log.Error("Error creating user: ", err)
		return models.User{}, err
	}

	return createdUser, nil
}

// TouchLastLogin stamps the account's last successful login
func TouchLastLogin(userID int) error {
	query := `UPDATE "users" SET last_login = NOW() WHERE id = $1`
	_, err := config.DB.Exec(query, userID)
	if err != nil {
		config.Log.Error("Failed to update last_login: ", err)
		return err
	}
	return nil
}
