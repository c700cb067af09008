package quantize

import "testing"

func TestMedianCutAssignsEveryPixel(t *testing.T) {
	buf := twoColorBuffer(10, 10)
	res, err := MedianCut(buf, 10, 10, 2, nil)
	if err != nil {
		t.Fatalf("MedianCut: %v", err)
	}
	if len(res.Assignments) != 100 {
		t.Fatalf("len(Assignments) = %d, want 100", len(res.Assignments))
	}
	if len(res.Centroids) == 0 {
		t.Fatal("expected at least one centroid")
	}
}

func TestMedianCutSolidImage(t *testing.T) {
	buf := solidBuffer(6, 6, 5, 6, 7)
	res, err := MedianCut(buf, 6, 6, 4, nil)
	if err != nil {
		t.Fatalf("MedianCut: %v", err)
	}
	for _, a := range res.Assignments {
		c := res.Centroids[a]
		if c.R != 5 || c.G != 6 || c.B != 7 {
			t.Fatalf("centroid = %+v, want {5 6 7}", c)
		}
	}
}
