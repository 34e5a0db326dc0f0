// internal/importer/importer_test.go
package importer

import (
	"reflect"
	"testing"
)

func TestParseFileValidObject(t *testing.T) {
	data := []byte(`{"Netball": [" Kahu ", "kahu", "Tui"], "Touch": ["Weka"]}`)
	got, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	want := map[string][]string{
		"Netball": {"Kahu", "Tui"},
		"Touch":   {"Weka"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseFile = %v, want %v", got, want)
	}
}

func TestParseFileRejectsNonObject(t *testing.T) {
	for _, data := range []string{`["Kahu"]`, `"Netball"`, `42`, `not json`} {
		if _, err := ParseFile([]byte(data)); err == nil {
			t.Fatalf("ParseFile(%s) succeeded, want error", data)
		}
	}
}

func TestParseFileRejectsNonListValues(t *testing.T) {
	if _, err := ParseFile([]byte(`{"Netball": "Kahu"}`)); err == nil {
		t.Fatalf("ParseFile accepted string value, want error")
	}
}

func TestParseFileDropsNonStringEntries(t *testing.T) {
	got, err := ParseFile([]byte(`{"Netball": ["Kahu", 7, null, "Tui"]}`))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if !reflect.DeepEqual(got["Netball"], []string{"Kahu", "Tui"}) {
		t.Fatalf("teams = %v, want [Kahu Tui]", got["Netball"])
	}
}

func TestParseFreeformSeparatedLines(t *testing.T) {
	text := "Netball, Kahu\nnetball\tTui\nTouch - Weka\n"
	result := ParseFreeform(text, []string{"Netball", "Touch"})

	want := map[string][]string{
		"netball": {"Kahu", "Tui"},
		"touch":   {"Weka"},
	}
	if !reflect.DeepEqual(result.Teams, want) {
		t.Fatalf("Teams = %v, want %v", result.Teams, want)
	}
	if len(result.Unparsed) != 0 || len(result.IgnoredLabels) != 0 {
		t.Fatalf("unexpected unparsed %v / ignored %v", result.Unparsed, result.IgnoredLabels)
	}
}

func TestParseFreeformHeaderBlocks(t *testing.T) {
	text := "Netball:\nKahu\nTui\nTouch:\nWeka\n"
	result := ParseFreeform(text, []string{"Netball", "Touch"})

	want := map[string][]string{
		"netball": {"Kahu", "Tui"},
		"touch":   {"Weka"},
	}
	if !reflect.DeepEqual(result.Teams, want) {
		t.Fatalf("Teams = %v, want %v", result.Teams, want)
	}
}

func TestParseFreeformIgnoresUnknownLabels(t *testing.T) {
	text := "Chess, Deep Blue\nNetball, Kahu\n"
	result := ParseFreeform(text, []string{"Netball"})

	if !reflect.DeepEqual(result.IgnoredLabels, []string{"Chess"}) {
		t.Fatalf("IgnoredLabels = %v, want [Chess]", result.IgnoredLabels)
	}
	if !reflect.DeepEqual(result.Teams["netball"], []string{"Kahu"}) {
		t.Fatalf("Teams = %v", result.Teams)
	}
}

func TestParseFreeformUnknownHeaderSwallowsItsLines(t *testing.T) {
	text := "Chess:\nDeep Blue\nNetball:\nKahu\n"
	result := ParseFreeform(text, []string{"Netball"})

	if !reflect.DeepEqual(result.IgnoredLabels, []string{"Chess"}) {
		t.Fatalf("IgnoredLabels = %v, want [Chess]", result.IgnoredLabels)
	}
	if len(result.Unparsed) != 0 {
		t.Fatalf("Unparsed = %v, want empty", result.Unparsed)
	}
	if !reflect.DeepEqual(result.Teams["netball"], []string{"Kahu"}) {
		t.Fatalf("Teams = %v", result.Teams)
	}
}

func TestParseFreeformCollectsUnparsedLines(t *testing.T) {
	text := "just a stray line\nNetball, Kahu\n"
	result := ParseFreeform(text, []string{"Netball"})

	if !reflect.DeepEqual(result.Unparsed, []string{"just a stray line"}) {
		t.Fatalf("Unparsed = %v", result.Unparsed)
	}
}

func TestParseFreeformMatchesLabelsCaseInsensitively(t *testing.T) {
	result := ParseFreeform("NETBALL, Kahu", []string{"Netball"})
	if !reflect.DeepEqual(result.Teams["netball"], []string{"Kahu"}) {
		t.Fatalf("Teams = %v", result.Teams)
	}
}

func TestParseFreeformNormalizesPerSport(t *testing.T) {
	text := "Netball, Kahu\nNetball, kahu\nNetball,  Tui \n"
	result := ParseFreeform(text, []string{"Netball"})
	if !reflect.DeepEqual(result.Teams["netball"], []string{"Kahu", "Tui"}) {
		t.Fatalf("Teams = %v", result.Teams)
	}
}
