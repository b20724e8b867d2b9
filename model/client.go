package model

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

type Client struct {
	ID         int       `json:"id"`
	ExternalID int64     `json:"external_id"`
	PinHash    string    `json:"-"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
