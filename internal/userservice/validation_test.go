package userservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/svidalco/mdxblog/internal/common"
)

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "Valid", email: "ann@x.com", valid: true},
		{name: "Subdomain", email: "ann@mail.example.co.uk", valid: true},
		{name: "Plus Address", email: "ann+tag@x.com", valid: true},
		{name: "Empty", email: "", valid: false},
		{name: "No At Sign", email: "annx.com", valid: false},
		{name: "No TLD", email: "ann@x", valid: false},
		{name: "Spaces", email: "ann @x.com", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "Short Password Accepted", password: "pw1", valid: true},
		{name: "Single Character", password: "a", valid: true},
		{name: "Empty", password: "", valid: false},
		{name: "Too Long", password: strings.Repeat("a", 1025), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidateName(t *testing.T) {
	testCases := []struct {
		name     string
		userName string
		valid    bool
	}{
		{name: "Valid", userName: "Ann", valid: true},
		{name: "Blank", userName: "   ", valid: false},
		{name: "Too Long", userName: strings.Repeat("a", 101), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateName(v, tc.userName)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", normalizeEmail("  ANN@X.com  "))
	assert.Equal(t, "ann@x.com", normalizeEmail("ann@x.com"))
}
