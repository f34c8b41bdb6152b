package artifact

import (
	"errors"
	"testing"
)

func TestBuildPath_DefaultFilename(t *testing.T) {
	path, err := BuildPath("t1", "r1", "step0", "")
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}
	want := "storage/t1/r1/step0/output.json"
	if path != want {
		t.Errorf("BuildPath = %q, want %q", path, want)
	}
}

func TestBuildPath_CustomFilename(t *testing.T) {
	path, err := BuildPath("t1", "r1", "step5", "checkpoint_queries.json")
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}
	want := "storage/t1/r1/step5/checkpoint_queries.json"
	if path != want {
		t.Errorf("BuildPath = %q, want %q", path, want)
	}
}

func TestBuildPath_RejectsBadSegments(t *testing.T) {
	cases := []struct {
		name     string
		tenant   string
		run      string
		step     string
		filename string
	}{
		{"empty tenant", "", "r1", "s1", ""},
		{"empty run", "t1", "", "s1", ""},
		{"empty step", "t1", "r1", "", ""},
		{"slash in tenant", "t/1", "r1", "s1", ""},
		{"slash in run", "t1", "r/1", "s1", ""},
		{"slash in step", "t1", "r1", "s/1", ""},
		{"slash in filename", "t1", "r1", "s1", "a/b.json"},
		{"dotdot in step", "t1", "r1", "..", ""},
		{"dotdot in filename", "t1", "r1", "s1", "../escape.json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPath(tc.tenant, tc.run, tc.step, tc.filename)
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("BuildPath error = %v, want ErrInvalidPath", err)
			}
		})
	}
}

func TestParsePath_InverseOfBuild(t *testing.T) {
	path, err := BuildPath("acme", "run-42", "generate", "output.json")
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}

	tenant, run, step, filename, err := ParsePath(path)
	if err != nil {
		t.Fatalf("ParsePath failed: %v", err)
	}
	if tenant != "acme" || run != "run-42" || step != "generate" || filename != "output.json" {
		t.Errorf("ParsePath = (%q, %q, %q, %q), want (acme, run-42, generate, output.json)",
			tenant, run, step, filename)
	}
}

func TestParsePath_Malformed(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"too few segments", "storage/t1/r1/output.json"},
		{"too many segments", "storage/t1/r1/s1/extra/output.json"},
		{"wrong prefix", "blobs/t1/r1/s1/output.json"},
		{"empty segment", "storage/t1//s1/output.json"},
		{"empty path", ""},
		{"dotdot segment", "storage/t1/r1/../output.json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, _, err := ParsePath(tc.path)
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("ParsePath(%q) error = %v, want ErrInvalidPath", tc.path, err)
			}
		})
	}
}

func TestRef_Accessors(t *testing.T) {
	ref := Ref{Path: "storage/t1/r1/step0/output.json"}

	tenant, err := ref.Tenant()
	if err != nil || tenant != "t1" {
		t.Errorf("Tenant = (%q, %v), want (t1, nil)", tenant, err)
	}
	run, err := ref.Run()
	if err != nil || run != "r1" {
		t.Errorf("Run = (%q, %v), want (r1, nil)", run, err)
	}
	step, err := ref.Step()
	if err != nil || step != "step0" {
		t.Errorf("Step = (%q, %v), want (step0, nil)", step, err)
	}
}

func TestRef_AccessorsMalformedPath(t *testing.T) {
	ref := Ref{Path: "not-a-storage-path"}
	if _, err := ref.Tenant(); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Tenant error = %v, want ErrInvalidPath", err)
	}
}

func TestRunPrefix(t *testing.T) {
	prefix, err := RunPrefix("t1", "r1")
	if err != nil {
		t.Fatalf("RunPrefix failed: %v", err)
	}
	if prefix != "storage/t1/r1/" {
		t.Errorf("RunPrefix = %q, want storage/t1/r1/", prefix)
	}
}

func TestStepPrefix(t *testing.T) {
	prefix, err := StepPrefix("t1", "r1", "step5")
	if err != nil {
		t.Fatalf("StepPrefix failed: %v", err)
	}
	if prefix != "storage/t1/r1/step5/" {
		t.Errorf("StepPrefix = %q, want storage/t1/r1/step5/", prefix)
	}
}
