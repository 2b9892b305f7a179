package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/osteomark/landmark-tools/internal/landmark"
)

// ReadAnnotations parses the archive annotation format: a header row
// followed by one row per image of
//
//	image_name, 1_x, 1_y, 2_x, 2_y, ..., 19_x, 19_y
//
// A pair of empty fields leaves that landmark slot absent, so partially
// annotated images survive parsing; deciding whether to use them is the
// caller's policy.
func ReadAnnotations(r io.Reader) (map[string]landmark.Set, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	wantFields := 1 + 2*landmark.NumLandmarks
	if len(header) != wantFields {
		return nil, fmt.Errorf("expected %d columns, got %d", wantFields, len(header))
	}

	annotations := make(map[string]landmark.Set)
	line := 1 // the header is row 1
	for {
		line++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			return nil, fmt.Errorf("row %d: empty image name", line)
		}
		if _, dup := annotations[name]; dup {
			return nil, fmt.Errorf("row %d: duplicate image %q", line, name)
		}

		var set landmark.Set
		for i := 0; i < landmark.NumLandmarks; i++ {
			xs := strings.TrimSpace(row[1+i*2])
			ys := strings.TrimSpace(row[2+i*2])
			if xs == "" && ys == "" {
				continue
			}
			x, err := strconv.ParseFloat(xs, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad x for landmark %d: %w", line, i+1, err)
			}
			y, err := strconv.ParseFloat(ys, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad y for landmark %d: %w", line, i+1, err)
			}
			set.Put(i+1, landmark.Point{X: x, Y: y})
		}
		annotations[name] = set
	}

	return annotations, nil
}
