package services

import (
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,28}[a-z0-9])?$`)
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

// The passwords rejected outright regardless of length.
var commonPasswords = map[string]bool{
	"password123": true, "password1234": true, "passwordpassword": true,
	"qwertyuiop": true, "qwerty123456": true, "1q2w3e4r5t": true,
	"abc123456789": true, "iloveyou123": true, "letmein123": true,
	"admin123456": true, "welcome123": true, "sunshine123": true,
	"football123": true, "monkey123456": true, "dragon123456": true,
	"trustno1234": true, "baseball123": true, "superman123": true,
}

// validateUsername returns an error message, or "" if the username is
// acceptable.
func validateUsername(username string) string {
	if username == "" {
		return "This field is required"
	}
	if len(username) > 30 {
		return "Ensure this value has at most 30 characters"
	}
	if !usernameRegex.MatchString(username) {
		return "Username can only contain lowercase letters, digits and hyphens"
	}
	return ""
}

// validateName returns an error message, or "" if the display name is
// acceptable.
func validateName(name string) string {
	if name == "" {
		return "This field is required"
	}
	if len(name) > 50 {
		return "Ensure this value has at most 50 characters"
	}
	return ""
}

// validateEmail returns an error message, or "" if the email is acceptable.
func validateEmail(email string) string {
	if email == "" {
		return "This field is required"
	}
	if len(email) > 200 {
		return "Ensure this value has at most 200 characters"
	}
	if !emailRegex.MatchString(email) {
		return "Enter a valid email address"
	}
	return ""
}

// validatePassword returns an error message, or "" if the password is
// acceptable.
func validatePassword(password string) string {
	if len(password) < 9 {
		return "This password is too short. It must contain at least 9 characters"
	}
	if numericRegex.MatchString(password) {
		return "This password is entirely numeric"
	}
	if commonPasswords[strings.ToLower(password)] {
		return "This password is too common"
	}
	return ""
}

// validateGroupName returns an error message, or "" if the group name is
// acceptable.
func validateGroupName(name string) string {
	if name == "" {
		return "This field is required"
	}
	if len(name) > 50 {
		return "Ensure this value has at most 50 characters"
	}
	return ""
}

// validateGroupDescription returns an error message, or "" if the
// description is acceptable.
func validateGroupDescription(description string) string {
	if len(description) > 200 {
		return "Ensure this value has at most 200 characters"
	}
	return ""
}

// validateCollectionName returns an error message, or "" if the collection
// name is acceptable.
func validateCollectionName(name string) string {
	if name == "" {
		return "This field is required"
	}
	if len(name) > 150 {
		return "Ensure this value has at most 150 characters"
	}
	return ""
}
