package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validScenario = `{
	"name": "Lint Fixture",
	"opening_scene": 0,
	"ingredients": [{"id": 1, "name": "honey"}, {"id": 2, "name": "flour"}, {"id": 3, "name": "dust"}],
	"recipes": [
		{"ingredients": [1, 2], "result": {"asset": "cake.png", "description": "Cake.", "traits": {"sweet": 80}}},
		{"ingredients": [2, 2], "result": {"asset": "flour.png", "description": "Just flour."}}
	],
	"fallback": {"asset": "failure.png", "description": "Nothing happens."},
	"scenes": {
		"0": {"title": "Kitchen", "track": "minigame", "left_character": "a.png", "right_character": "b.png", "frames": [{"text": "Cook."}]},
		"1": {"title": "Party", "left_character": "a.png", "right_character": "b.png", "frames": [{"text": "Yum."}]},
		"2": {"title": "Lost", "left_character": "a.png", "right_character": "b.png", "frames": [{"text": "Nobody comes here."}]}
	},
	"branches": {
		"0": {"axis": "sweet", "rules": [{"when": {"above": 50}, "then": {"scene": 1}}, {"then": {"scene": 0}}]},
		"1": {"rules": [{"then": {"scene": 0}}]},
		"2": {"rules": [{"then": {"scene": 0}}]}
	}
}`

func TestValidateData_ValidWithWarnings(t *testing.T) {
	v := &ScenarioValidator{}
	if err := v.validateData("lint.json", []byte(validScenario)); err != nil {
		t.Fatalf("Expected valid scenario, got: %v", err)
	}

	want := []string{
		"scene 2 (Lost) is unreachable",
		"recipe (2,2) has zero traits",
		"ingredient 3 (Dust) is not used",
	}
	joined := strings.Join(v.warnings, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("Expected warning containing %q, got:\n%s", w, joined)
		}
	}
}

func TestValidateData_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr []string
	}{
		{
			name:    "invalid json",
			data:    `{"name": `,
			wantErr: []string{"contains invalid JSON"},
		},
		{
			name:    "misspelled field",
			data:    strings.Replace(validScenario, `"opening_scene"`, `"opening_scen"`, 1),
			wantErr: []string{`unknown field "opening_scen"`, `did you mean "opening_scene"?`},
		},
		{
			name:    "misspelled axis",
			data:    strings.Replace(validScenario, `"axis": "sweet"`, `"axis": "sweat"`, 1),
			wantErr: []string{`scene 0 branch axis "sweat" is unknown, did you mean "sweet"?`},
		},
		{
			name:    "missing branch target",
			data:    strings.Replace(validScenario, `"then": {"scene": 1}`, `"then": {"scene": 9}`, 1),
			wantErr: []string{"scene 0: rule 0 targets unknown scene 9"},
		},
		{
			name: "no fallback rule",
			data: strings.Replace(validScenario, `{"when": {"above": 50}, "then": {"scene": 1}}, {"then": {"scene": 0}}`,
				`{"when": {"above": 50}, "then": {"scene": 1}}`, 1),
			wantErr: []string{"scene 0: last rule must be an unconditional fallback"},
		},
		{
			name:    "several defects at once",
			data:    strings.Replace(strings.Replace(validScenario, `"text": "Yum."`, `"text": ""`, 1), `"asset": "cake.png", `, ``, 1),
			wantErr: []string{"scene 1 frame 0: frame has no text", "recipe (1,2) has no asset"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &ScenarioValidator{}
			err := v.validateData("broken.json", []byte(tt.data))
			if err == nil {
				t.Fatal("Expected validation to fail")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Expected %q in error:\n%v", want, err)
				}
			}
		})
	}
}

func TestValidateFile_Filename(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "lint_fixture.json")
	if err := os.WriteFile(good, []byte(validScenario), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "Lint-Fixture.json")
	if err := os.WriteFile(bad, []byte(validScenario), 0o644); err != nil {
		t.Fatal(err)
	}

	v := &ScenarioValidator{}
	if err := v.validateFile(good); err != nil {
		t.Errorf("Expected %s to validate, got %v", good, err)
	}
	if err := v.validateFile(bad); err == nil || !strings.Contains(err.Error(), "snake_case") {
		t.Errorf("Expected snake_case error, got %v", err)
	}
	if err := v.validateFile(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("Expected error for non-json file")
	}
}

func TestIsValidScenarioFilename(t *testing.T) {
	tests := map[string]bool{
		"witch_kitchen":   true,
		"x.witch_kitchen": true,
		"a":               true,
		"batch2":          true,
		"Witch_Kitchen":   false,
		"witch-kitchen":   false,
		"witch_kitchen_":  false,
		"2batch":          false,
	}
	for name, want := range tests {
		if got := isValidScenarioFilename(name); got != want {
			t.Errorf("isValidScenarioFilename(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSuggest(t *testing.T) {
	if got := suggest("savoury", axisNames()); got != "savory" {
		t.Errorf("Expected 'savory', got %q", got)
	}
	if got := suggest("umami", axisNames()); got != "" {
		t.Errorf("Expected no suggestion, got %q", got)
	}
	if got := suggest("right_charcter", knownFields()); got != "right_character" {
		t.Errorf("Expected 'right_character', got %q", got)
	}
}
