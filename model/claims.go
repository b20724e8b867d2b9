package model

import "github.com/golang-jwt/jwt/v5"

type AppClaims struct {
	ClientID int  `json:"client_id"`
	Role     Role `json:"role"`
	jwt.RegisteredClaims
}
