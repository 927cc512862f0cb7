package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gofinances/internal/apperrors"
	"gofinances/internal/services"
)

func TestParsePeriod(t *testing.T) {
	def := services.Period{Year: 2023, Month: time.March}
	tests := []struct {
		name    string
		query   url.Values
		want    services.Period
		wantErr bool
	}{
		{"defaults", url.Values{}, def, false},
		{"both values", url.Values{"year": {"2024"}, "month": {"12"}}, services.Period{Year: 2024, Month: time.December}, false},
		{"only year", url.Values{"year": {"2022"}}, services.Period{Year: 2022, Month: time.March}, false},
		{"only month", url.Values{"month": {" 5 "}}, services.Period{Year: 2023, Month: time.May}, false},
		{"month out of range", url.Values{"month": {"13"}}, services.Period{}, true},
		{"month zero", url.Values{"month": {"0"}}, services.Period{}, true},
		{"not numeric", url.Values{"year": {"abc"}}, services.Period{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.query, def)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidPeriod) {
					t.Fatalf("expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriod() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"name": " Pizza ", "amount": 42.5, "type": "negative", "category": "food"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !parser.IsJSON() {
		t.Fatal("IsJSON() should be true")
	}

	in := parser.RegisterInput()
	want := services.RegisterInput{Name: "Pizza", Amount: "42.5", Type: "negative", Category: "food"}
	if in != want {
		t.Errorf("RegisterInput() = %+v, want %+v", in, want)
	}
	if parser.Get("missing") != "" {
		t.Errorf("missing key should be empty")
	}
}

func TestRequestBodyParser_Form(t *testing.T) {
	body := "name=Sal%C3%A1rio&amount=1000%2C50&type=positive&category=salary"
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parser.IsJSON() {
		t.Fatal("IsJSON() should be false for form data")
	}
	in := parser.RegisterInput()
	if in.Name != "Salário" || in.Amount != "1000,50" || in.Type != "positive" || in.Category != "salary" {
		t.Errorf("unexpected input %+v", in)
	}
}

func TestRequestBodyParser_Errors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if err := parser.Parse(); err == nil {
		t.Fatal("second Parse must return the same error")
	}

	big := strings.Repeat("a", maxBodyBytes+10)
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name="+big))
	if err := NewRequestBodyParser(req).Parse(); err == nil {
		t.Fatal("expected error for oversized body")
	}
}

func TestRequestBodyParser_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parser.Get("name") != "" {
		t.Errorf("empty body should yield empty values")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b\x07c", "abc"},
		{"line1\nline2", "line1\nline2"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
