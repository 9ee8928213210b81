package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/jwebster45206/cauldron/pkg/conditionals"
	"github.com/jwebster45206/cauldron/pkg/cooking"
	"github.com/jwebster45206/cauldron/pkg/scenario"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scenario.json>...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &ScenarioValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		for _, w := range validator.warnings {
			fmt.Println(w)
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

type ScenarioValidator struct {
	errors   []string
	warnings []string
}

func (v *ScenarioValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("scenario file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidScenarioFilename(nameWithoutExt) {
		return fmt.Errorf("scenario filename '%s' must be lowercase snake_case (e.g., my_scenario.json, not my-scenario.json or MyScenario.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	return v.validateData(filename, data)
}

func (v *ScenarioValidator) validateData(filename string, data []byte) error {
	v.errors = nil
	v.warnings = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var raw scenario.Scenario
	if err := json.Unmarshal(data, &raw); err == nil {
		v.axisHints(&raw)
	}

	s, err := scenario.Parse(data, true)
	if err != nil {
		if field, ok := unknownField(err); ok {
			if hint := suggest(field, knownFields()); hint != "" {
				return fmt.Errorf("file %s failed strict JSON unmarshaling: %w (did you mean %q?)", filename, err, hint)
			}
		}
		v.collect(err)
		if len(v.errors) == 0 {
			return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
		}
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	v.lintScenario(s)
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

// axisHints suggests the intended axis for misspelled branch axes.
func (v *ScenarioValidator) axisHints(s *scenario.Scenario) {
	ids := make([]scenario.SceneID, 0, len(s.Branches))
	for id := range s.Branches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		axis := s.Branches[id].Axis
		if axis == "" || axis.IsValid() {
			continue
		}
		if hint := suggest(string(axis), axisNames()); hint != "" {
			v.addError(fmt.Sprintf("scene %d branch axis %q is unknown, did you mean %q?", id, axis, hint))
		}
	}
}

// collect flattens joined configuration errors into one line each.
func (v *ScenarioValidator) collect(err error) {
	if !errors.Is(err, scenario.ErrConfiguration) {
		return
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			v.addError(e.Error())
		}
	} else {
		v.addError(err.Error())
	}
}

// lintScenario reports content that is valid but probably unintended.
func (v *ScenarioValidator) lintScenario(s *scenario.Scenario) {
	reachable := make(map[scenario.SceneID]bool)
	for _, id := range s.Reachable() {
		reachable[id] = true
	}
	for _, id := range s.SceneIDs() {
		if !reachable[id] {
			v.addWarning(fmt.Sprintf("scene %d (%s) is unreachable from opening scene %d", id, s.Scenes[id].Title, s.OpeningScene))
		}
	}

	used := make(map[cooking.IngredientID]bool)
	for _, r := range s.Recipes {
		used[r.Ingredients[0]] = true
		used[r.Ingredients[1]] = true
		if r.Result.Traits.IsZero() {
			v.addWarning(fmt.Sprintf("recipe %s has zero traits and will always take the fallback branch", r.Pair()))
		}
	}
	for _, id := range s.Pantry().IDs() {
		if !used[id] {
			v.addWarning(fmt.Sprintf("ingredient %d (%s) is not used by any recipe", id, s.Pantry().DisplayName(id)))
		}
	}
}

func (v *ScenarioValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *ScenarioValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  warning: "+msg)
}

var unknownFieldRegex = regexp.MustCompile(`unknown field "([^"]+)"`)

func unknownField(err error) (string, bool) {
	m := unknownFieldRegex.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	return m[1], true
}

// suggest returns the closest candidate within a small edit distance.
func suggest(token string, candidates []string) string {
	best, bestDist := "", len(token)/2+2
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(token, c)
		if dist < bestDist || (dist == bestDist && c < best) {
			best, bestDist = c, dist
		}
	}
	return best
}

func axisNames() []string {
	names := make([]string, len(conditionals.Axes))
	for i, a := range conditionals.Axes {
		names[i] = string(a)
	}
	return names
}

// knownFields lists every JSON key a scenario file may use.
func knownFields() []string {
	seen := make(map[string]bool)
	for _, t := range []reflect.Type{
		reflect.TypeOf(scenario.Scenario{}),
		reflect.TypeOf(scenario.Scene{}),
		reflect.TypeOf(scenario.Frame{}),
		reflect.TypeOf(scenario.BranchRule{}),
		reflect.TypeOf(scenario.Branch{}),
		reflect.TypeOf(scenario.BranchThen{}),
		reflect.TypeOf(conditionals.When{}),
		reflect.TypeOf(conditionals.Traits{}),
		reflect.TypeOf(cooking.Ingredient{}),
		reflect.TypeOf(cooking.Recipe{}),
		reflect.TypeOf(cooking.Result{}),
	} {
		for i := 0; i < t.NumField(); i++ {
			name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if name != "" && name != "-" {
				seen[name] = true
			}
		}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidScenarioFilename(name string) bool {
	// Allow 'x.' prefix for experimental scenarios
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
