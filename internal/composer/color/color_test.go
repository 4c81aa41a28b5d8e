package color

import "testing"

func TestHSVRGBRoundTripPrimaries(t *testing.T) {
	cases := []struct {
		name string
		rgb  RGB
	}{
		{"red", RGB{255, 0, 0}},
		{"green", RGB{0, 255, 0}},
		{"blue", RGB{0, 0, 255}},
		{"yellow", RGB{255, 255, 0}},
		{"cyan", RGB{0, 255, 255}},
		{"magenta", RGB{255, 0, 255}},
		{"white", RGB{255, 255, 255}},
		{"black", RGB{0, 0, 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hsv := RGBToHSV(c.rgb)
			got := HSVToRGB(hsv)
			if got != c.rgb {
				t.Errorf("round trip %+v -> %+v -> %+v, want %+v", c.rgb, hsv, got, c.rgb)
			}
		})
	}
}

func TestMirrorHalfEvenOdd(t *testing.T) {
	even := []RGB{{1, 0, 0}, {2, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	MirrorHalf(even)
	want := []RGB{{1, 0, 0}, {2, 0, 0}, {2, 0, 0}, {1, 0, 0}}
	for i := range even {
		if even[i] != want[i] {
			t.Fatalf("even mirror[%d] = %+v, want %+v", i, even[i], want[i])
		}
	}

	odd := []RGB{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	MirrorHalf(odd)
	wantOdd := []RGB{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {2, 0, 0}, {1, 0, 0}}
	for i := range odd {
		if odd[i] != wantOdd[i] {
			t.Fatalf("odd mirror[%d] = %+v, want %+v", i, odd[i], wantOdd[i])
		}
	}
}

func TestBlendRGBEndpoints(t *testing.T) {
	a := RGB{0, 10, 200}
	b := RGB{255, 20, 100}
	if got := BlendRGB(a, b, 0); got != a {
		t.Errorf("BlendRGB(a,b,0) = %+v, want %+v", got, a)
	}
	if got := BlendRGB(a, b, 255); got != b {
		t.Errorf("BlendRGB(a,b,255) = %+v, want %+v", got, b)
	}
}

func TestFromU32(t *testing.T) {
	got := FromU32(0xFF8800)
	want := RGB{R: 0xFF, G: 0x88, B: 0x00}
	if got != want {
		t.Errorf("FromU32(0xFF8800) = %+v, want %+v", got, want)
	}
}
