package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"jbovertime/overtime"
)

func runCalcArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"calc"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		for _, name := range []string{"start", "end", "lunch", "rate", "date", "same-day"} {
			flag := calcCmd.Flags().Lookup(name)
			flag.Value.Set(flag.DefValue)
			flag.Changed = false
		}
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCalc(t *testing.T) {
	out, err := runCalcArgs(t, "--start", "18:00", "--end", "22:00", "--lunch")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	for _, want := range []string{"Total de horas:  4.00", "Horas líquidas:  3.00", "Valor total:     R$ 46.71"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCalc_Overnight(t *testing.T) {
	out, err := runCalcArgs(t, "--start", "22:00", "--end", "02:00", "--rate", "20")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	if !strings.Contains(out, "Valor total:     R$ 80.00") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCalc_ValidatesWithDate(t *testing.T) {
	_, err := runCalcArgs(t, "--date", "2020-01-02", "--start", "10:00", "--end", "10:00")
	if !errors.Is(err, overtime.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestCalc_RejectsMalformedClock(t *testing.T) {
	if _, err := runCalcArgs(t, "--start", "7", "--end", "10:00"); err == nil {
		t.Fatalf("expected an error for a malformed clock")
	}
}
