package search

import (
	"errors"
	"strconv"
	"testing"
)

func TestValidate_Year(t *testing.T) {
	tests := []struct {
		name    string
		year    string
		want    string
		wantErr bool
	}{
		{name: "two digits expand", year: "23", want: "2023"},
		{name: "two digits at pivot", year: "20", want: "2020"},
		{name: "four digits", year: "2023", want: "2023"},
		{name: "year 2000", year: "2000", want: "2000"},
		{name: "surrounding whitespace", year: " 24 ", want: "2024"},
		{name: "two digits below 2000", year: "19", wantErr: true},
		{name: "four digits below 2000", year: "1999", wantErr: true},
		{name: "three digits", year: "123", wantErr: true},
		{name: "five digits", year: "20234", wantErr: true},
		{name: "one digit", year: "7", wantErr: true},
		{name: "letters", year: "twenty", wantErr: true},
		{name: "mixed", year: "20a3", wantErr: true},
		{name: "empty", year: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria()
			c.Year = tt.year

			got, err := Validate(c)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCriteria) {
					t.Fatalf("Validate(year=%q) error = %v, want ErrInvalidCriteria", tt.year, err)
				}
				if got != (Criteria{}) {
					t.Errorf("Validate(year=%q) = %+v, want zero Criteria", tt.year, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(year=%q) unexpected error: %v", tt.year, err)
			}
			if got.Year != tt.want {
				t.Errorf("Validate(year=%q).Year = %q, want %q", tt.year, got.Year, tt.want)
			}
		})
	}
}

func TestValidate_AllValidYears(t *testing.T) {
	for y := 2000; y <= 2099; y++ {
		for _, year := range []string{strconv.Itoa(y), strconv.Itoa(y)[2:]} {
			c := DefaultCriteria()
			c.Year = year
			got, err := Validate(c)
			if year == strconv.Itoa(y)[2:] && y < 2020 {
				// 00..19 read as 1900..1919
				if err == nil {
					t.Errorf("Validate(year=%q) accepted, want rejection", year)
				}
				continue
			}
			if err != nil {
				t.Errorf("Validate(year=%q) error = %v", year, err)
				continue
			}
			if got.Year != strconv.Itoa(y) {
				t.Errorf("Validate(year=%q).Year = %q, want %d", year, got.Year, y)
			}
		}
	}
}

func TestValidate_Subject(t *testing.T) {
	tests := []struct {
		subject string
		want    string
		wantErr bool
	}{
		{subject: "cs", want: "CS"},
		{subject: "CS", want: "CS"},
		{subject: "Math", want: "MATH"},
		{subject: "  ece ", want: "ECE"},
		{subject: "c", wantErr: true},
		{subject: "cs1", wantErr: true},
		{subject: "c s", wantErr: true},
		{subject: "C-S", wantErr: true},
		{subject: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			c := DefaultCriteria()
			c.Subject = tt.subject

			got, err := Validate(c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(subject=%q) error = %v, wantErr %v", tt.subject, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCriteria) {
					t.Errorf("error %v should wrap ErrInvalidCriteria", err)
				}
				return
			}
			if got.Subject != tt.want {
				t.Errorf("Validate(subject=%q).Subject = %q, want %q", tt.subject, got.Subject, tt.want)
			}
		})
	}
}

func TestValidate_Choices(t *testing.T) {
	tests := []struct {
		name     string
		semester string
		number   string
		wantErr  bool
	}{
		{name: "fall 1xx", semester: "fall", number: "1xx"},
		{name: "spring 5xx", semester: "spring", number: "5xx"},
		{name: "capitalized semester", semester: "Spring", number: "3xx"},
		{name: "upper case bucket", semester: "fall", number: "2XX"},
		{name: "summer", semester: "summer", number: "1xx", wantErr: true},
		{name: "empty semester", semester: "", number: "1xx", wantErr: true},
		{name: "600 level", semester: "fall", number: "6xx", wantErr: true},
		{name: "exact number", semester: "fall", number: "225", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria()
			c.Semester = tt.semester
			c.Number = tt.number

			_, err := Validate(c)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q, %q) error = %v, wantErr %v", tt.semester, tt.number, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_EndToEnd(t *testing.T) {
	in := Criteria{Semester: "fall", Year: "23", Subject: "cs", Number: "1xx"}
	want := Criteria{Semester: "fall", Year: "2023", Subject: "CS", Number: "1xx"}

	got, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != want {
		t.Errorf("Validate() = %+v, want %+v", got, want)
	}

	// Input is not modified
	if in.Year != "23" || in.Subject != "cs" {
		t.Errorf("Validate() mutated its input: %+v", in)
	}
}

func TestDefaultCriteria(t *testing.T) {
	want := Criteria{Semester: "fall", Year: "2023", Subject: "CS", Number: "1xx"}
	if got := DefaultCriteria(); got != want {
		t.Errorf("DefaultCriteria() = %+v, want %+v", got, want)
	}
	if _, err := Validate(DefaultCriteria()); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
