package report

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/haskel/bigofit/internal/fit"
	"github.com/haskel/bigofit/internal/growth"
	"github.com/haskel/bigofit/internal/hostinfo"
)

func sampleRanking() *fit.Ranking {
	return &fit.Ranking{
		Verdict: fit.Verdict{Function: growth.Linear, Constant: 1, Error: 0},
		Results: []fit.FitResult{
			{Function: growth.Constant, Constant: 7.5, Error: 2.68, Rounds: 3},
			{Function: growth.Linear, Constant: 1, Error: 0, Rounds: 2},
			{Function: growth.Exponential, Constant: 62500, Error: math.Inf(1), Rounds: 2, Capped: true},
		},
	}
}

func TestLegacyReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLegacyReporter(&buf)

	if err := r.Candidate(context.Background(), fit.FitResult{Function: growth.Quadratic, Constant: 1, Error: 0.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Verdict(context.Background(), fit.Verdict{Function: growth.Quadratic}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "------O(n^2)-------\nC=1.000000\nError=0.500000\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableReporter(&buf, ColorNever)
	ranking := sampleRanking()

	for _, res := range ranking.Results {
		if err := r.Candidate(context.Background(), res); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if buf.Len() != 0 {
		t.Error("expected nothing written before the verdict")
	}
	if err := r.Verdict(context.Background(), ranking.Verdict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"GROWTH", "O(1)", "O(n)", "O(2^n)", "+Inf", "2*", "Verdict: O(n)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no ANSI escapes with color disabled")
	}
}

func TestWriteLabel(t *testing.T) {
	var buf bytes.Buffer
	doc := NewDocument(4, sampleRanking(), nil)

	if err := Write(&buf, doc, FormatLabel, ColorNever); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "O(n)\n" {
		t.Errorf("expected label line, got %q", buf.String())
	}
}

func TestWriteJSON_NonFinite(t *testing.T) {
	var buf bytes.Buffer
	host := &hostinfo.Info{CPUModel: "Test CPU", LogicalCores: 8}
	doc := NewDocument(4, sampleRanking(), host)

	if err := Write(&buf, doc, FormatJSON, ColorNever); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, buf.String())
	}
	if decoded.Verdict.Label != "O(n)" || decoded.Verdict.Name != "linear" {
		t.Errorf("unexpected verdict: %+v", decoded.Verdict)
	}
	if decoded.Observations != 4 {
		t.Errorf("expected 4 observations, got %d", decoded.Observations)
	}
	if len(decoded.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(decoded.Results))
	}
	if !math.IsInf(float64(decoded.Results[2].Error), 1) {
		t.Errorf("expected +Inf error to survive, got %v", decoded.Results[2].Error)
	}
	if !decoded.Results[2].Capped {
		t.Error("expected capped flag")
	}
	if decoded.Host == nil || decoded.Host.LogicalCores != 8 {
		t.Errorf("expected host info, got %+v", decoded.Host)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	doc := NewDocument(4, sampleRanking(), nil)

	if err := Write(&buf, doc, FormatYAML, ColorNever); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Document
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if decoded.Verdict.Label != "O(n)" {
		t.Errorf("expected verdict O(n), got %q", decoded.Verdict.Label)
	}
	if !math.IsInf(float64(decoded.Results[2].Error), 1) {
		t.Errorf("expected +Inf error, got %v", decoded.Results[2].Error)
	}
	if strings.Contains(buf.String(), "host:") {
		t.Error("expected host to be omitted")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, NewDocument(0, sampleRanking(), nil), Format("xml"), ColorNever); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNewReporter(t *testing.T) {
	var buf bytes.Buffer

	r, err := NewReporter(&buf, DiagnosticsLegacy, ColorNever)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*LegacyReporter); !ok {
		t.Errorf("expected *LegacyReporter, got %T", r)
	}

	r, err = NewReporter(&buf, DiagnosticsTable, ColorNever)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*TableReporter); !ok {
		t.Errorf("expected *TableReporter, got %T", r)
	}

	r, err = NewReporter(&buf, DiagnosticsNone, ColorNever)
	if err != nil || r != nil {
		t.Errorf("expected nil reporter, got %v, %v", r, err)
	}

	if _, err := NewReporter(&buf, Diagnostics("loud"), ColorNever); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestFormatColumns(t *testing.T) {
	lines := FormatColumns(
		[]string{"ID", "VERDICT", "N"},
		[][]string{{"a1", "O(n)", "4"}, {"b22", "O(n^2 log n)", "120"}},
		map[int]bool{2: true},
	)

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []string{
		"ID   VERDICT         N",
		"a1   O(n)            4",
		"b22  O(n^2 log n)  120",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestNumber_JSON(t *testing.T) {
	for _, v := range []float64{0, 1.5, math.Inf(1), math.Inf(-1)} {
		data, err := json.Marshal(Number(v))
		if err != nil {
			t.Fatalf("marshal %v: %v", v, err)
		}
		var n Number
		if err := json.Unmarshal(data, &n); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if float64(n) != v {
			t.Errorf("expected %v, got %v", v, n)
		}
	}

	data, err := json.Marshal(Number(math.NaN()))
	if err != nil {
		t.Fatalf("marshal NaN: %v", err)
	}
	if string(data) != `"NaN"` {
		t.Errorf("expected \"NaN\", got %s", data)
	}
}
