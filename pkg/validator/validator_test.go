package validator

import (
	"testing"
)

func TestNew(t *testing.T) {
	v := New()
	if v == nil {
		t.Fatal("expected validator to be created")
	}
	if v.validate == nil {
		t.Fatal("expected internal validator to be initialized")
	}
}

func TestValidate_RequiredField(t *testing.T) {
	v := New()

	type TestStruct struct {
		Name string `validate:"required"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{
			name:    "valid - name provided",
			input:   TestStruct{Name: "test"},
			wantErr: false,
		},
		{
			name:    "invalid - name empty",
			input:   TestStruct{Name: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateScanYear(t *testing.T) {
	v := New()

	type TestStruct struct {
		Year int `validate:"required,scan_year"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{name: "valid - lower bound", input: TestStruct{Year: 2000}, wantErr: false},
		{name: "valid - upper bound", input: TestStruct{Year: 2100}, wantErr: false},
		{name: "valid - current era", input: TestStruct{Year: 2024}, wantErr: false},
		{name: "invalid - too early", input: TestStruct{Year: 1999}, wantErr: true},
		{name: "invalid - too late", input: TestStruct{Year: 2101}, wantErr: true},
		{name: "invalid - zero", input: TestStruct{Year: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateScanMonth(t *testing.T) {
	v := New()

	type TestStruct struct {
		Month int `validate:"required,scan_month"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{name: "valid - january", input: TestStruct{Month: 1}, wantErr: false},
		{name: "valid - december", input: TestStruct{Month: 12}, wantErr: false},
		{name: "invalid - thirteen", input: TestStruct{Month: 13}, wantErr: true},
		{name: "invalid - zero", input: TestStruct{Month: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWeekIndex(t *testing.T) {
	v := New()

	type TestStruct struct {
		WeekIndex int `validate:"week_index"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{name: "valid - first week", input: TestStruct{WeekIndex: 1}, wantErr: false},
		{name: "valid - sixth week", input: TestStruct{WeekIndex: 6}, wantErr: false},
		{name: "valid - omitted", input: TestStruct{WeekIndex: 0}, wantErr: false},
		{name: "invalid - seventh week", input: TestStruct{WeekIndex: 7}, wantErr: true},
		{name: "invalid - negative", input: TestStruct{WeekIndex: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeverityLevel(t *testing.T) {
	v := New()

	type TestStruct struct {
		Severity int `validate:"severity_level"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{name: "valid - info", input: TestStruct{Severity: 0}, wantErr: false},
		{name: "valid - critical", input: TestStruct{Severity: 5}, wantErr: false},
		{name: "invalid - above range", input: TestStruct{Severity: 6}, wantErr: true},
		{name: "invalid - negative", input: TestStruct{Severity: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDepartment(t *testing.T) {
	v := New()

	type TestStruct struct {
		Department string `validate:"required,department"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{name: "valid - simple name", input: TestStruct{Department: "IT"}, wantErr: false},
		{name: "valid - spaced name", input: TestStruct{Department: "Human Resources"}, wantErr: false},
		{name: "invalid - blank only", input: TestStruct{Department: "   "}, wantErr: true},
		{name: "invalid - empty", input: TestStruct{Department: ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
