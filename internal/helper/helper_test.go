package helper

import "testing"

func TestSnapToScale(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		scale int
		want  float64
	}{
		{"two decimals", 1.23456, 100, 1.23},
		{"rounds up", 1.236, 100, 1.24},
		{"integer grid", 99.7, 1, 100},
		{"pricescale 100000", 1.234567, 100000, 1.23457},
		{"zero scale passthrough", 1.23456, 0, 1.23456},
		{"negative scale passthrough", 1.23456, -5, 1.23456},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnapToScale(tt.v, tt.scale); got != tt.want {
				t.Errorf("SnapToScale(%v, %d) = %v, want %v", tt.v, tt.scale, got, tt.want)
			}
		})
	}
}

func TestSnapSeries(t *testing.T) {
	vs := []float64{1.111, 2.226, 3.004}
	SnapSeries(vs, 100)

	want := []float64{1.11, 2.23, 3.0}
	for i := range want {
		if vs[i] != want[i] {
			t.Errorf("vs[%d] = %v, want %v", i, vs[i], want[i])
		}
	}

	// неизвестная сетка ряд не трогает
	vs = []float64{1.111}
	SnapSeries(vs, 0)
	if vs[0] != 1.111 {
		t.Errorf("vs[0] = %v, want 1.111", vs[0])
	}
}
