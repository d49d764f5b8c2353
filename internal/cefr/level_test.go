package cefr

import "testing"

func TestStep_Clamping(t *testing.T) {
	tests := []struct {
		level Level
		delta int
		want  Level
	}{
		{A1, -1, A1},
		{A1, -10, A1},
		{A1, 1, A2},
		{B1, 2, C1},
		{C1, 2, C2},
		{C2, 1, C2},
		{C2, 10, C2},
		{C2, -1, C1},
		{B2, 0, B2},
	}

	for _, tt := range tests {
		got := tt.level.Step(tt.delta)
		if got != tt.want {
			t.Errorf("%s.Step(%d) = %s, want %s", tt.level, tt.delta, got, tt.want)
		}
	}
}

func TestStep_TotalOverAllLevelsAndDeltas(t *testing.T) {
	for _, l := range AllLevels() {
		for d := -10; d <= 10; d++ {
			got := l.Step(d)
			if got < A1 || got > C2 {
				t.Fatalf("%s.Step(%d) = %d out of range", l, d, got)
			}
		}
	}
}

func TestStep_RepeatedNeverOverflows(t *testing.T) {
	l := B1
	for i := 0; i < 100; i++ {
		l = l.Step(1)
	}
	if l != C2 {
		t.Errorf("repeated Step(1) = %s, want C2", l)
	}
	for i := 0; i < 100; i++ {
		l = l.Step(-1)
	}
	if l != A1 {
		t.Errorf("repeated Step(-1) = %s, want A1", l)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"A1", A1, false},
		{"b2", B2, false},
		{" c2 ", C2, false},
		{"", A1, true},
		{"D1", A1, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestExam(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{A1, "KET"},
		{A2, "KET"},
		{B1, "PET"},
		{B2, "FCE"},
		{C1, "FCE"},
		{C2, "FCE"},
	}

	for _, tt := range tests {
		if got := tt.level.Exam(); got != tt.want {
			t.Errorf("%s.Exam() = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestMax(t *testing.T) {
	if got := Max(B1, C1); got != C1 {
		t.Errorf("Max(B1, C1) = %s, want C1", got)
	}
	if got := Max(C2, A1); got != C2 {
		t.Errorf("Max(C2, A1) = %s, want C2", got)
	}
	if got := Max(B2, B2); got != B2 {
		t.Errorf("Max(B2, B2) = %s, want B2", got)
	}
}
