package apicontract_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/internal/apicontract"
)

func TestLoad_EmbeddedOperations(t *testing.T) {
	contract, err := apicontract.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}

	if diff := cmp.Diff([]string{apicontract.CreateUser, apicontract.ListUsers}, contract.OperationIDs()); diff != "" {
		t.Fatalf("operation ids mismatch (-want +got):\n%s", diff)
	}

	list, ok := contract.Operation(apicontract.ListUsers)
	if !ok {
		t.Fatalf("listUsers missing")
	}
	if list.Method != "GET" || list.Path != "/api/users" {
		t.Fatalf("unexpected listUsers %s %s", list.Method, list.Path)
	}
	wantParams := []string{"search", "sortBy", "sortDirection", "page", "pageSize"}
	if diff := cmp.Diff(wantParams, list.QueryParams); diff != "" {
		t.Fatalf("query params mismatch (-want +got):\n%s", diff)
	}

	create, _ := contract.Operation(apicontract.CreateUser)
	if diff := cmp.Diff([]string{"email", "password", "username"}, create.Required); diff != "" {
		t.Fatalf("required fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateBody(t *testing.T) {
	contract, err := apicontract.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}

	ok := `{"username":"new_user","email":"new@example.com","password":"Str0ng!Passw0rd"}`
	if err := contract.ValidateBody(apicontract.CreateUser, []byte(ok)); err != nil {
		t.Fatalf("expected valid body, got %v", err)
	}

	missing := `{"username":"new_user","email":"new@example.com"}`
	err = contract.ValidateBody(apicontract.CreateUser, []byte(missing))
	var bodyErr *apicontract.BodyError
	if !errors.As(err, &bodyErr) {
		t.Fatalf("expected BodyError, got %v", err)
	}

	secret := `{"username":"new_user","email":"new@example.com","password":"hunter"}`
	err = contract.ValidateBody(apicontract.CreateUser, []byte(secret))
	if err == nil {
		t.Fatalf("expected short password to be rejected")
	}
	if strings.Contains(err.Error(), "hunter") {
		t.Fatalf("body error leaked the password: %v", err)
	}

	if err := contract.ValidateBody(apicontract.ListUsers, []byte("ignored")); err != nil {
		t.Fatalf("operations without a body accept anything, got %v", err)
	}
	if err := contract.ValidateBody("deleteUser", nil); err == nil {
		t.Fatalf("expected unknown operation error")
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := apicontract.Parse(context.Background(), nil); err == nil {
		t.Fatalf("expected empty document error")
	}
	doc := []byte("openapi: 3.0.3\ninfo:\n  title: x\n  version: '1'\npaths: {}\n")
	if _, err := apicontract.Parse(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without paths")
	}
}
