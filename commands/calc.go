package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"jbovertime/overtime"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute the hours and value of a shift",
	Long: `Computes total hours, net hours and value for a shift without touching the
database. With --date the shift is also validated as it would be on submission.

Examples:
  jbovertime calc --start 18:00 --end 21:30 --lunch
  jbovertime calc --start 22:00 --end 02:00 --rate 20
  jbovertime calc --date 2026-10-18 --start 08:00 --end 12:00`,
	RunE: runCalc,
}

func runCalc(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	lunch, _ := cmd.Flags().GetBool("lunch")
	rate, _ := cmd.Flags().GetFloat64("rate")
	date, _ := cmd.Flags().GetString("date")
	sameDay, _ := cmd.Flags().GetBool("same-day")

	if rate <= 0 {
		return fmt.Errorf("--rate must be positive")
	}

	var calc *overtime.Calculation
	if date != "" {
		v := overtime.NewValidator(overtime.ValidatorOptions{SameDayOnly: sameDay})
		res, err := v.Check(overtime.Input{Date: date, StartTime: start, EndTime: end, LunchDiscount: lunch}, rate)
		if err != nil {
			return err
		}
		calc = &res.Calculation
	} else {
		calc = overtime.Calculate(start, end, lunch, rate)
		if calc == nil {
			return fmt.Errorf("--start and --end must be HH:MM")
		}
	}

	out := cmd.OutOrStdout()
	lunchLabel := "Não"
	if calc.LunchDiscount {
		lunchLabel = "Sim"
	}
	fmt.Fprintf(out, "Período:         %s - %s\n", start, end)
	fmt.Fprintf(out, "Total de horas:  %.2f\n", calc.TotalHours)
	fmt.Fprintf(out, "Desconto almoço: %s\n", lunchLabel)
	fmt.Fprintf(out, "Horas líquidas:  %.2f\n", calc.NetHours)
	fmt.Fprintf(out, "Valor hora:      R$ %.2f\n", calc.HourlyRate)
	fmt.Fprintf(out, "Valor total:     R$ %.2f\n", calc.TotalValue)
	return nil
}

func init() {
	calcCmd.Flags().String("start", "", "start time (HH:MM)")
	calcCmd.Flags().String("end", "", "end time (HH:MM)")
	calcCmd.Flags().Bool("lunch", false, "deduct the one-hour lunch break")
	calcCmd.Flags().Float64("rate", overtime.DefaultHourlyRate, "hourly rate")
	calcCmd.Flags().String("date", "", "shift date (YYYY-MM-DD); enables full validation")
	calcCmd.Flags().Bool("same-day", false, "reject shifts that end before they start")
	calcCmd.MarkFlagRequired("start")
	calcCmd.MarkFlagRequired("end")
}
