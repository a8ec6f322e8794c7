package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindClassification(t *testing.T) {
	if !IsValidation(Validation("bad input")) {
		t.Fatal("validation error not classified")
	}
	if !IsNotFound(NotFound("Event")) {
		t.Fatal("not-found error not classified")
	}
	if IsValidation(errors.New("plain")) {
		t.Fatal("plain error classified as validation")
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create booking: %w", Validation("seats must be positive"))
	if !IsValidation(err) {
		t.Fatal("wrapped validation error lost its kind")
	}
}

func TestNotFoundMessage(t *testing.T) {
	if got := NotFound("Event").Error(); got != "Event not found" {
		t.Fatalf("message = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		Validation("x"):           http.StatusBadRequest,
		NotFound("Event"):         http.StatusNotFound,
		Unauthorized("no token"):  http.StatusUnauthorized,
		errors.New("disk failed"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := HTTPStatus(err); got != want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", err, got, want)
		}
	}
}
