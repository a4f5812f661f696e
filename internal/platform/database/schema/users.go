// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column names of the relational store.
package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table           string
	ID              string
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	IsAdmin         string
	Terms           string
	ActivationToken string
	ResetToken      string
	RememberToken   string
	LastActivity    string
	CreatedAt       string
	UpdatedAt       string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:           "users",
	ID:              "id",
	Email:           "email",
	PasswordHash:    "password_hash",
	FirstName:       "first_name",
	LastName:        "last_name",
	IsAdmin:         "is_admin",
	Terms:           "terms",
	ActivationToken: "activation_token",
	ResetToken:      "reset_token",
	RememberToken:   "remember_token",
	LastActivity:    "last_activity",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

// Columns returns all standard column names
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.PasswordHash, t.FirstName, t.LastName, t.IsAdmin, t.Terms,
		t.ActivationToken, t.ResetToken, t.RememberToken, t.LastActivity,
		t.CreatedAt, t.UpdatedAt,
	}
}
