package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "teacher@school.example", wantErr: false},
		{name: "valid with plus", email: "t+math@school.example", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing domain", email: "teacher@", wantErr: true},
		{name: "missing at", email: "teacher.school.example", wantErr: true},
		{name: "spaces", email: "teacher @school.example", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("short password accepted")
	}
	if err := ValidatePassword("long enough password"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{"teacher", "student"} {
		if err := ValidateRole(role); err != nil {
			t.Errorf("ValidateRole(%q) error = %v", role, err)
		}
	}
	for _, role := range []string{"", "admin", "Teacher"} {
		if err := ValidateRole(role); err == nil {
			t.Errorf("ValidateRole(%q) accepted", role)
		}
	}
}
