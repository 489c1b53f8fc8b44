package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestExceedsLength(t *testing.T) {
	if ExceedsLength("Tech", 10) {
		t.Errorf("ExceedsLength(%q, 10) = true, want false", "Tech")
	}
	if !ExceedsLength("Engineering", 10) {
		t.Errorf("ExceedsLength(%q, 10) = false, want true", "Engineering")
	}
	// multi-byte runes count once
	if ExceedsLength("ééééé", 5) {
		t.Errorf("ExceedsLength(%q, 5) = true, want false", "ééééé")
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"john.doe", "john.doe.2", "admin", "a_b-c+d@e"}
	invalid := []string{"", "john doe", "john/doe", "jöhn"}
	for _, s := range valid {
		if !IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "salary", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; salary: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "salary", Message: "required"},
		{Field: "email", Message: "second message is dropped"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "salary": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Errorf("empty ValidationErrors.Err() = %v, want nil", errs.Err())
	}
	errs.Add("name", "name is required")
	if errs.Err() == nil {
		t.Errorf("ValidationErrors.Err() = nil, want error")
	}
}
