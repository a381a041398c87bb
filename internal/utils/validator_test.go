package utils

import (
	"testing"
	"time"
)

type scheduleInput struct {
	Title   string `validate:"required,max=10"`
	DueDate string `validate:"required,datestr"`
	DueTime string `validate:"clock"`
}

func TestValidateStruct_CustomTags(t *testing.T) {
	ok := scheduleInput{Title: "report", DueDate: "2024-05-10", DueTime: "09:30"}
	if err := ValidateStruct(ok); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	noTime := scheduleInput{Title: "report", DueDate: "2024-05-10"}
	if err := ValidateStruct(noTime); err != nil {
		t.Fatalf("empty due time should be accepted: %v", err)
	}

	bad := []scheduleInput{
		{Title: "", DueDate: "2024-05-10"},
		{Title: "report", DueDate: "10/05/2024"},
		{Title: "report", DueDate: "2024-05-10", DueTime: "25:00"},
		{Title: "much too long title", DueDate: "2024-05-10"},
	}
	for _, in := range bad {
		if err := ValidateStruct(in); err == nil {
			t.Errorf("expected validation error for %+v", in)
		}
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("17:45")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if d != 17*time.Hour+45*time.Minute {
		t.Fatalf("got %v", d)
	}
	if FormatClock(d) != "17:45" {
		t.Fatalf("FormatClock = %s", FormatClock(d))
	}
	if d, _ := ParseClock(""); d != 0 {
		t.Fatalf("empty clock = %v, want 0", d)
	}
}
