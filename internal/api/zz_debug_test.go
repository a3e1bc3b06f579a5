package api

import (
	"fmt"
	"testing"

	"github.com/danielgtaylor/huma/v2"
)

func TestDebugSignupValidation(t *testing.T) {
	ts := setupTestServer(t)
	orig := huma.NewError
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, e := range errs {
			fmt.Printf("DEBUG err: %T %v\n", e, e)
		}
		return orig(status, message, errs...)
	}
	defer func() { huma.NewError = orig }()
	resp := ts.api.Post("/api/auth/signup", map[string]any{
		"email":    "dbg@example.com",
		"password": "correct-horse-battery",
		"name":     "Test Customer",
	})
	fmt.Println("DEBUG status:", resp.Code, resp.Body.String())
}
