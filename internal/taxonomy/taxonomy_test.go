package taxonomy

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleDoc = `{
  "children": [
    {
      "name": "Structural",
      "children": [
        {
          "name": "Crack (C)",
          "children": [
            {"name": "Circumferential (C)", "code": "CC"},
            {"name": "Hairline (H)", "code": "CH"}
          ]
        }
      ]
    }
  ]
}`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	svc := New(tree)
	if !svc.Loaded() {
		t.Fatal("service should report a loaded tree")
	}

	got := svc.Descriptors("Structural", "Crack (C)")
	want := []Descriptor{
		{Name: "Circumferential (C)", Code: "CC"},
		{Name: "Hairline (H)", Code: "CH"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Descriptors() = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Load() of missing file should error")
	}
}

func TestFallbackCrackDescriptors(t *testing.T) {
	svc := New(nil)
	if svc.Loaded() {
		t.Fatal("nil tree must report fallback mode")
	}

	got := svc.Descriptors("Structural", "Crack (C)")
	want := []Descriptor{
		{Name: "Circumferential (C)", Code: "CC"},
		{Name: "Longitudinal (L)", Code: "CL"},
		{Name: "Multiple (M)", Code: "CM"},
		{Name: "Spiral (S)", Code: "CS"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback descriptors = %+v, want %+v", got, want)
	}
}

func TestUnknownCombinationsAreEmpty(t *testing.T) {
	svc := New(nil)
	if got := svc.Descriptors("Structural", "No Such Group"); len(got) != 0 {
		t.Fatalf("unknown group returned %+v, want empty", got)
	}
	if got := svc.Descriptors("No Such Family", "Crack (C)"); len(got) != 0 {
		t.Fatalf("unknown family returned %+v, want empty", got)
	}
	if got := svc.Groups("No Such Family"); len(got) != 0 {
		t.Fatalf("unknown family groups = %+v, want empty", got)
	}

	// A loaded tree does not fall back for combinations it lacks.
	loaded := New(&Tree{Children: []Family{{Name: "Structural"}}})
	if got := loaded.Descriptors("Structural", "Crack (C)"); len(got) != 0 {
		t.Fatalf("loaded tree leaked fallback rows: %+v", got)
	}
}

func TestFallbackListsAreStable(t *testing.T) {
	svc := New(nil)
	first := svc.Families()
	second := svc.Families()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("family order unstable: %v vs %v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("fallback families empty")
	}
}
