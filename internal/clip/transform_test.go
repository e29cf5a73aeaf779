package clip

import (
	"errors"
	"testing"
	"time"
)

func TestTransformSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		set     TransformSet
		wantErr bool
	}{
		{"empty", TransformSet{}, false},
		{"video ops", TransformSet{Vertical: true, Mirror: true}, false},
		{"constant speed", TransformSet{Speed: 1.5}, false},
		{"audio only", TransformSet{AudioOnly: true}, false},
		{"audio only with speed", TransformSet{AudioOnly: true, Speed: 2}, false},
		{"audio only with crop", TransformSet{AudioOnly: true, Vertical: true}, true},
		{"audio only with mirror", TransformSet{AudioOnly: true, Mirror: true}, true},
		{"audio only with enhance", TransformSet{AudioOnly: true, Enhance: Enhancement{Contrast: 1.2}}, true},
		{"negative speed", TransformSet{Speed: -1}, true},
		{"speed and ramp", TransformSet{Speed: 2, Ramp: []RampSegment{{End: time.Second, Speed: 2}}}, true},
		{"valid ramp", TransformSet{Ramp: []RampSegment{
			{Start: 0, End: 5 * time.Second, Speed: 1},
			{Start: 5 * time.Second, End: 10 * time.Second, Speed: 2},
		}}, false},
		{"ramp zero speed", TransformSet{Ramp: []RampSegment{{End: time.Second}}}, true},
		{"ramp empty segment", TransformSet{Ramp: []RampSegment{{Start: time.Second, End: time.Second, Speed: 1}}}, true},
		{"ramp overlap", TransformSet{Ramp: []RampSegment{
			{Start: 0, End: 5 * time.Second, Speed: 1},
			{Start: 3 * time.Second, End: 8 * time.Second, Speed: 2},
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("Validate() = %v, want ErrConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestDescriptor_Validate(t *testing.T) {
	asset := &SourceAsset{Path: "/in/a.mp4", Duration: 100 * time.Second}

	valid := Descriptor{Asset: asset, Start: 0, End: 30 * time.Second, Output: "/out/a_clip_001.mp4"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}

	tests := []struct {
		name string
		desc Descriptor
	}{
		{"no asset", Descriptor{Start: 0, End: time.Second, Output: "x"}},
		{"empty window", Descriptor{Asset: asset, Start: time.Second, End: time.Second, Output: "x"}},
		{"inverted window", Descriptor{Asset: asset, Start: 2 * time.Second, End: time.Second, Output: "x"}},
		{"past duration", Descriptor{Asset: asset, Start: 0, End: 101 * time.Second, Output: "x"}},
		{"no output", Descriptor{Asset: asset, Start: 0, End: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.desc.Validate(); !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() = %v, want ErrConfiguration", err)
			}
		})
	}
}
