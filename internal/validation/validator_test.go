// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package validation

import (
	"strings"
	"testing"
)

type registerRequest struct {
	Handle   string `validate:"required,handle"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,min=8,max=72"`
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(&registerRequest{
		Handle:   "alice_99",
		Email:    "alice@example.com",
		Password: "longenoughsecret",
	})
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestHandleValidator(t *testing.T) {
	tests := []struct {
		handle string
		ok     bool
	}{
		{"alice", true},
		{"a_b_c_1", true},
		{"ab", false},
		{"Alice", false},
		{"9lives", false},
		{"_alice", false},
		{"alice!", false},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("a", 30), true},
	}

	for _, tt := range tests {
		err := ValidateStruct(&registerRequest{Handle: tt.handle, Password: "longenoughsecret"})
		if tt.ok && err != nil {
			t.Errorf("handle %q rejected: %v", tt.handle, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("handle %q accepted, want rejection", tt.handle)
		}
	}
}

func TestValidateStructSingleErrorShape(t *testing.T) {
	err := ValidateStruct(&registerRequest{Handle: "alice", Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Password") {
		t.Errorf("message %q does not name the failing field", apiErr.Message)
	}
	if apiErr.Details["field"] != "Password" {
		t.Errorf("details.field = %v, want Password", apiErr.Details["field"])
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	err := ValidateStruct(&registerRequest{Handle: "", Password: ""})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error details missing fields list")
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("message %q should join the individual failures", apiErr.Message)
	}
}

func TestTranslatedMessages(t *testing.T) {
	type probe struct {
		Kind  string `validate:"omitempty,oneof=like love laugh sad"`
		Count int    `validate:"omitempty,max=100"`
	}

	err := ValidateStruct(&probe{Kind: "angry"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("oneof message = %q", err.Error())
	}

	err = ValidateStruct(&probe{Count: 500})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "must be at most 100") {
		t.Errorf("max message = %q", err.Error())
	}
}
